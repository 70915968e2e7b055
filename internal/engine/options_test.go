package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDefaults(t *testing.T) {
	opts := Resolve(nil)

	assert.Equal(t, 4, opts.Count)
	assert.Equal(t, 50, opts.MaxConsidered)
	assert.Equal(t, 2.0, opts.Level0Multiplier)
	assert.Equal(t, 0.5, opts.InitialValue)
	assert.Equal(t, 2.0, opts.HitValue)
	assert.Equal(t, 0.0001, opts.MissValue)
	assert.Equal(t, 0.001, opts.InitialWeight)
	assert.Equal(t, 0.95, opts.FilterConst)
	assert.Equal(t, 0.2, opts.Deprioritization)
	assert.Equal(t, 0.01, opts.NoInterestsValue)
	assert.Equal(t, 1.9, opts.ScoreBoostExponent)
	assert.Equal(t, 0.1, opts.InterestValueFloor)
}

func TestResolvePartialOverride(t *testing.T) {
	count := 8
	filterConst := 0.8
	opts := Resolve(&Overrides{
		Count:       &count,
		FilterConst: &filterConst,
	})

	assert.Equal(t, 8, opts.Count)
	assert.Equal(t, 0.8, opts.FilterConst)
	// 未覆盖的字段保持默认
	assert.Equal(t, 50, opts.MaxConsidered)
	assert.Equal(t, 0.2, opts.Deprioritization)
}

// 显式的零值覆盖必须生效，不能被误判为"未提供"
func TestResolveExplicitZero(t *testing.T) {
	zero := 0.0
	opts := Resolve(&Overrides{
		Deprioritization: &zero,
		InitialValue:     &zero,
	})

	assert.Equal(t, 0.0, opts.Deprioritization)
	assert.Equal(t, 0.0, opts.InitialValue)
}
