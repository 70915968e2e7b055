package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/samtaute/fotoscapes-widget/internal/model"
	"github.com/samtaute/fotoscapes-widget/internal/store"
	"github.com/samtaute/fotoscapes-widget/internal/telemetry"
)

// Engine 个性化决策引擎，组合清洗、打分、采样与权重更新
// 每个消费方各自创建实例，不存在进程级的隐式共享状态
type Engine struct {
	store     store.WeightStore
	obs       telemetry.Observer
	sanitizer *Sanitizer
	rng       RandSource
	log       *slog.Logger

	// Click 的 load-modify-save 按用户串行化，防止快速连点丢更新
	clickMu sync.Map // userID -> *sync.Mutex
}

// Option 配置 Engine 的可选参数
type Option func(*Engine)

// WithRandSource 注入随机源，测试时可传入确定性实现
func WithRandSource(rng RandSource) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithObserver 注入遥测 Observer
func WithObserver(obs telemetry.Observer) Option {
	return func(e *Engine) {
		e.obs = obs
	}
}

// New 创建个性化引擎
func New(s store.WeightStore, log *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:     s,
		obs:       telemetry.Nop{},
		sanitizer: NewSanitizer(log),
		rng:       DefaultRandSource(),
		log:       log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Choose 从原始目录中选出要展示的条目列表
// 流程：合并配置 -> 读取权重（缺失时从默认表种子化）-> 清洗目录 ->
// 截断到 MaxConsidered -> 打分 -> 采样，最后发出 selectedList 事件。
// 本调用只读，不会写存储。
func (e *Engine) Choose(ctx context.Context, userID string, rawCatalog []byte, ov *Overrides, defaults model.DefaultInterestTable) ([]*model.Item, error) {
	opts := Resolve(ov)

	weights, err := e.loadWeights(ctx, userID, defaults, opts)
	if err != nil {
		return nil, err
	}

	items := e.sanitizer.Sanitize(rawCatalog)
	if len(items) > opts.MaxConsidered {
		items = items[:opts.MaxConsidered]
	}

	Score(items, weights, defaults, opts)
	result := Select(items, weights, defaults, opts, e.rng)

	e.obs.SelectedList(buildSelectedListEvent(userID, items, result, weights))
	return result, nil
}

// Click 依据用户的一次点击更新并持久化权重
// 这是唯一的状态变更入口；itemID 只用于遥测，不参与权重计算。
func (e *Engine) Click(ctx context.Context, userID, itemID string, interests []string) (model.WeightMap, error) {
	mu := e.userMutex(userID)
	mu.Lock()
	defer mu.Unlock()

	weights, err := e.store.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load weights: %w", err)
	}
	if weights == nil {
		weights = model.WeightMap{}
	}

	next := Update(interests, weights, DefaultOptions())
	if err := e.store.Save(ctx, userID, next); err != nil {
		return nil, fmt.Errorf("failed to save weights: %w", err)
	}

	e.obs.ChosenLookbook(telemetry.ChosenLookbookEvent{
		EventID:   telemetry.NewEventID(),
		UserID:    userID,
		ItemID:    itemID,
		Interests: interests,
		Weights:   next,
	})

	return next, nil
}

// Weights 返回用户当前的权重表，不存在时返回空表
func (e *Engine) Weights(ctx context.Context, userID string) (model.WeightMap, error) {
	weights, err := e.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if weights == nil {
		weights = model.WeightMap{}
	}
	return weights, nil
}

// Reset 清空用户的权重表，下次 Choose 会重新从默认表种子化
func (e *Engine) Reset(ctx context.Context, userID string) error {
	return e.store.Save(ctx, userID, model.WeightMap{})
}

// loadWeights 读取用户权重；存储中没有可用数据时从默认兴趣表种子化
// 种子值取默认表的非零权重，缺少权重的兴趣用 InitialWeight 兜底
func (e *Engine) loadWeights(ctx context.Context, userID string, defaults model.DefaultInterestTable, opts Options) (model.WeightMap, error) {
	weights, err := e.store.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load weights: %w", err)
	}
	if len(weights) > 0 {
		return weights, nil
	}

	seeded := make(model.WeightMap, len(defaults))
	for interest, d := range defaults {
		if d.Weight != 0 {
			seeded[interest] = d.Weight
		} else {
			seeded[interest] = opts.InitialWeight
		}
	}
	e.log.Debug("seeded weights from default interest table", "user_id", userID, "interests", len(seeded))
	return seeded, nil
}

func (e *Engine) userMutex(userID string) *sync.Mutex {
	mu, _ := e.clickMu.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func buildSelectedListEvent(userID string, considered, selected []*model.Item, weights model.WeightMap) telemetry.SelectedListEvent {
	ev := telemetry.SelectedListEvent{
		EventID:    telemetry.NewEventID(),
		UserID:     userID,
		Considered: make([]telemetry.ItemScore, 0, len(considered)),
		Selected:   make([]string, 0, len(selected)),
		Weights:    telemetry.RoundWeights(weights),
	}

	sum := 0.0
	for _, item := range considered {
		sum += item.Score
		ev.Considered = append(ev.Considered, telemetry.ItemScore{
			Interests: item.Interests,
			Score:     item.Score,
		})
	}
	if len(considered) > 0 {
		ev.AvgScore = sum / float64(len(considered))
	}

	selectedSum := 0.0
	for _, item := range selected {
		selectedSum += item.Score
		ev.Selected = append(ev.Selected, item.ID)
	}
	if len(selected) > 0 {
		ev.AvgSelectedScore = selectedSum / float64(len(selected))
	}

	return ev
}
