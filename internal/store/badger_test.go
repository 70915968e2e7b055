package store

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samtaute/fotoscapes-widget/internal/logger"
	"github.com/samtaute/fotoscapes-widget/internal/model"
)

func newTestBadger(t *testing.T) *BadgerStore {
	t.Helper()

	db, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewBadgerStore(db, logger.Discard())
}

func TestBadgerStoreRoundtrip(t *testing.T) {
	s := newTestBadger(t)
	ctx := context.Background()

	weights, err := s.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, weights)

	saved := model.WeightMap{"travel": 0.6, "fashion": 0.1}
	require.NoError(t, s.Save(ctx, "u1", saved))

	weights, err = s.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, saved, weights)
}

func TestBadgerStoreReplacesWholesale(t *testing.T) {
	s := newTestBadger(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "u1", model.WeightMap{"travel": 0.6, "food": 0.2}))
	require.NoError(t, s.Save(ctx, "u1", model.WeightMap{"fashion": 0.3}))

	weights, err := s.Load(ctx, "u1")
	require.NoError(t, err)
	// 整表替换：旧键不残留
	assert.Equal(t, model.WeightMap{"fashion": 0.3}, weights)
}

func TestBadgerStoreUsersAreIsolated(t *testing.T) {
	s := newTestBadger(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "u1", model.WeightMap{"travel": 0.6}))

	weights, err := s.Load(ctx, "u2")
	require.NoError(t, err)
	assert.Nil(t, weights)
}

// 损坏的载荷按"不存在"降级，不向上传播解析错误
func TestBadgerStoreCorruptedPayload(t *testing.T) {
	s := newTestBadger(t)
	ctx := context.Background()

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(weightKeyPrefix+"u1"), []byte("{not valid json"))
	})
	require.NoError(t, err)

	weights, err := s.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, weights)
}
