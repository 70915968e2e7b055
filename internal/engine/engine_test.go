package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samtaute/fotoscapes-widget/internal/logger"
	"github.com/samtaute/fotoscapes-widget/internal/model"
	"github.com/samtaute/fotoscapes-widget/internal/store"
	"github.com/samtaute/fotoscapes-widget/internal/telemetry"
)

// captureObserver 把事件留在内存里供断言
type captureObserver struct {
	mu       sync.Mutex
	selected []telemetry.SelectedListEvent
	chosen   []telemetry.ChosenLookbookEvent
}

func (o *captureObserver) SelectedList(ev telemetry.SelectedListEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.selected = append(o.selected, ev)
}

func (o *captureObserver) ChosenLookbook(ev telemetry.ChosenLookbookEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.chosen = append(o.chosen, ev)
}

const testCatalog = `[
	{"id": "a", "interests": ["travel"], "title": "Alps"},
	{"id": "b", "interests": ["fashion"]},
	{"id": "c", "interests": ["food"], "promote": true},
	{"id": "d", "interests": ["culture"]},
	{"id": "e", "interests": ["travel", "food"]},
	{"id": "f", "interests": ["wellness"]}
]`

func newTestEngine(obs telemetry.Observer) (*Engine, *store.MemoryStore) {
	ms := store.NewMemoryStore()
	opts := []Option{WithRandSource(fixedRand(0.5))}
	if obs != nil {
		opts = append(opts, WithObserver(obs))
	}
	return New(ms, logger.Discard(), opts...), ms
}

func TestChooseScenario(t *testing.T) {
	eng, _ := newTestEngine(nil)

	items, err := eng.Choose(context.Background(), "u1", []byte(testCatalog), nil, nil)

	require.NoError(t, err)
	require.Len(t, items, 4)
	// 推广条目第一
	assert.Equal(t, "c", items[0].ID)
	assert.True(t, items[0].Promote)
}

// 固定随机源下 Choose 是确定性的
func TestChooseDeterministic(t *testing.T) {
	defaults := model.DefaultInterestTable{
		"travel": {Weight: 0.6},
		"food":   {Weight: 0.2},
	}

	run := func() []string {
		eng, _ := newTestEngine(nil)
		items, err := eng.Choose(context.Background(), "u1", []byte(testCatalog), nil, defaults)
		require.NoError(t, err)
		ids := make([]string, len(items))
		for i, item := range items {
			ids[i] = item.ID
		}
		return ids
	}

	assert.Equal(t, run(), run())
}

func TestChooseInvalidCatalog(t *testing.T) {
	eng, _ := newTestEngine(nil)

	for _, raw := range [][]byte{
		[]byte(`{"not": "an array"}`),
		[]byte(`[1, 2, "three"]`),
		[]byte(`garbage`),
		nil,
	} {
		items, err := eng.Choose(context.Background(), "u1", raw, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, items)
	}
}

func TestChooseRespectsMaxConsidered(t *testing.T) {
	eng, _ := newTestEngine(nil)

	maxConsidered := 2
	count := 10
	items, err := eng.Choose(context.Background(), "u1", []byte(testCatalog), &Overrides{
		MaxConsidered: &maxConsidered,
		Count:         &count,
	}, nil)

	require.NoError(t, err)
	// 只考察了前两条（目录顺序），结果不可能超出
	require.Len(t, items, 2)
	assert.ElementsMatch(t, []string{"a", "b"}, []string{items[0].ID, items[1].ID})
}

// Choose 只读：不会向存储写任何东西
func TestChooseDoesNotPersist(t *testing.T) {
	eng, ms := newTestEngine(nil)

	_, err := eng.Choose(context.Background(), "u1", []byte(testCatalog), nil, model.DefaultInterestTable{
		"travel": {Weight: 0.6},
	})
	require.NoError(t, err)

	stored, err := ms.Load(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

// 存储为空时从默认兴趣表种子化，零权重用 InitialWeight 兜底
func TestChooseSeedsFromDefaultTable(t *testing.T) {
	obs := &captureObserver{}
	eng, _ := newTestEngine(obs)

	defaults := model.DefaultInterestTable{
		"travel":   {Weight: 0.6},
		"wellness": {}, // 无权重
	}

	_, err := eng.Choose(context.Background(), "u1", []byte(testCatalog), nil, defaults)
	require.NoError(t, err)

	require.Len(t, obs.selected, 1)
	assert.Equal(t, 0.6, obs.selected[0].Weights["travel"])
	assert.Equal(t, 0.001, obs.selected[0].Weights["wellness"])
}

func TestChooseEmitsSelectedListEvent(t *testing.T) {
	obs := &captureObserver{}
	eng, _ := newTestEngine(obs)

	items, err := eng.Choose(context.Background(), "u1", []byte(testCatalog), nil, nil)
	require.NoError(t, err)

	require.Len(t, obs.selected, 1)
	ev := obs.selected[0]
	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, "u1", ev.UserID)
	assert.Len(t, ev.Considered, 6)
	assert.Len(t, ev.Selected, len(items))
	assert.Greater(t, ev.AvgScore, 0.0)
	assert.Greater(t, ev.AvgSelectedScore, 0.0)
}

func TestClickPersistsUpdatedWeights(t *testing.T) {
	obs := &captureObserver{}
	eng, ms := newTestEngine(obs)

	weights, err := eng.Click(context.Background(), "u1", "a", []string{"travel"})
	require.NoError(t, err)
	assert.Equal(t, 0.5, weights["travel"]) // 未收录的兴趣以 InitialValue 插入

	stored, err := ms.Load(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, weights, stored)

	require.Len(t, obs.chosen, 1)
	assert.Equal(t, "a", obs.chosen[0].ItemID)
	assert.Equal(t, []string{"travel"}, obs.chosen[0].Interests)
}

// 点击后的每个权重都落在 [floor, 1] 内
func TestClickClampInvariant(t *testing.T) {
	eng, ms := newTestEngine(nil)
	opts := DefaultOptions()

	require.NoError(t, ms.Save(context.Background(), "u1", model.WeightMap{
		"travel": 0.99, "fashion": 0.11, "food": 0.5,
	}))

	for i := 0; i < 30; i++ {
		weights, err := eng.Click(context.Background(), "u1", "a", []string{"travel"})
		require.NoError(t, err)
		for interest, w := range weights {
			require.GreaterOrEqual(t, w, opts.InterestValueFloor, "weight for %s", interest)
			require.LessOrEqual(t, w, 1.0, "weight for %s", interest)
		}
	}
}

// 并发点击不丢更新：已收录兴趣的滤波更新逐次叠加
func TestClickConcurrent(t *testing.T) {
	eng, ms := newTestEngine(nil)

	require.NoError(t, ms.Save(context.Background(), "u1", model.WeightMap{"travel": 0.5}))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := eng.Click(context.Background(), "u1", "a", []string{"travel"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := ms.Load(context.Background(), "u1")
	require.NoError(t, err)

	// 串行计算 16 次滤波后的期望值
	expected := model.WeightMap{"travel": 0.5}
	for i := 0; i < 16; i++ {
		expected = Update([]string{"travel"}, expected, DefaultOptions())
	}
	assert.InDelta(t, expected["travel"], stored["travel"], 1e-9)
}

func TestWeightsAndReset(t *testing.T) {
	eng, _ := newTestEngine(nil)
	ctx := context.Background()

	// 未知用户返回空表
	weights, err := eng.Weights(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, weights)

	_, err = eng.Click(ctx, "u1", "a", []string{"travel"})
	require.NoError(t, err)

	weights, err = eng.Weights(ctx, "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, weights)

	require.NoError(t, eng.Reset(ctx, "u1"))
	weights, err = eng.Weights(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, weights)
}
