package engine

import (
	"math/rand"
	"time"

	"github.com/samtaute/fotoscapes-widget/internal/model"
)

// RandSource 返回 [0,1) 区间的随机数，可注入确定性实现以便测试
type RandSource func() float64

// DefaultRandSource 基于当前时间做种的默认随机源
func DefaultRandSource() RandSource {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return r.Float64
}

// Select 从打过分的条目中抽取一个有序子集
// 两阶段策略：
//  1. 推广位透传：promote 条目按目录顺序无条件进入结果，不消耗随机数，
//     也不参与权重衰减
//  2. 不放回加权采样：剩余名额内按分数占比逐个抽取（累积分布游走），
//     每选中一个条目后，其兴趣在权重表的工作副本中乘以
//     (1 - Deprioritization)，后续轮次按工作副本重新计分，
//     以此降低同一轮结果的同质化；工作副本不会写回存储
//
// 结果顺序：推广条目在前（目录顺序），采样条目按选中顺序在后。
func Select(scored []*model.Item, weights model.WeightMap, defaults model.DefaultInterestTable, opts Options, rng RandSource) []*model.Item {
	result := make([]*model.Item, 0, opts.Count)
	pool := make([]*model.Item, 0, len(scored))
	for _, item := range scored {
		if item.Promote {
			result = append(result, item)
		} else {
			pool = append(pool, item)
		}
	}

	slots := opts.Count - len(result)
	if slots < 0 {
		slots = 0
	}
	if slots > len(pool) {
		slots = len(pool)
	}

	working := weights.Clone()
	for i := 0; i < slots; i++ {
		// 按工作副本重新计分，使得本轮衰减影响后续抽取
		scores := make([]float64, len(pool))
		scoreSum := 0.0
		for j, item := range pool {
			scores[j] = scoreItem(item, working, defaults, opts)
			scoreSum += scores[j]
		}

		idx := pickIndex(scores, scoreSum, rng)
		picked := pool[idx]
		pool = append(pool[:idx], pool[idx+1:]...)
		result = append(result, picked)

		for _, interest := range picked.Interests {
			if w, ok := working[interest]; ok {
				working[interest] = w * (1 - opts.Deprioritization)
			}
		}
	}

	return result
}

// pickIndex 在累积分布上游走，返回首个累积占比 >= r 的下标
// 分数总和为零时退化为确定性选取（下标 0），避免除零
func pickIndex(scores []float64, scoreSum float64, rng RandSource) int {
	if scoreSum <= 0 {
		return 0
	}

	r := rng()
	cumulative := 0.0
	for i, s := range scores {
		cumulative += s / scoreSum
		if cumulative >= r {
			return i
		}
	}
	// 浮点累加误差导致总和略小于 1 时兜底
	return len(scores) - 1
}
