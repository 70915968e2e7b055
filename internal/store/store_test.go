package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samtaute/fotoscapes-widget/internal/model"
)

func TestMemoryStoreRoundtrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	// 不存在的用户返回 (nil, nil)
	weights, err := s.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, weights)

	require.NoError(t, s.Save(ctx, "u1", model.WeightMap{"travel": 0.6}))

	weights, err = s.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.WeightMap{"travel": 0.6}, weights)
}

// Load 返回副本，调用方的修改不得影响存储内的数据
func TestMemoryStoreIsolation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "u1", model.WeightMap{"travel": 0.6}))

	weights, err := s.Load(ctx, "u1")
	require.NoError(t, err)
	weights["travel"] = 0.1

	reloaded, err := s.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0.6, reloaded["travel"])
}
