package engine

import (
	"math"

	"github.com/samtaute/fotoscapes-widget/internal/model"
)

// Score 依据兴趣权重为每个条目计算排序分数，结果写入 Item.Score
// 计算规则：
//   - 无兴趣条目直接取 NoInterestsValue
//   - 逐个累加兴趣优先级，首个兴趣先乘以 Level0Multiplier
//   - 累加和乘以 (1 + boost) 后再取 ScoreBoostExponent 次幂
//
// 只要权重非负且 boost >= -1，结果保证为有限非负数。
func Score(items []*model.Item, weights model.WeightMap, defaults model.DefaultInterestTable, opts Options) {
	for _, item := range items {
		item.Score = scoreItem(item, weights, defaults, opts)
	}
}

func scoreItem(item *model.Item, weights model.WeightMap, defaults model.DefaultInterestTable, opts Options) float64 {
	if len(item.Interests) == 0 {
		return opts.NoInterestsValue
	}

	sum := 0.0
	for i, interest := range item.Interests {
		p := priority(interest, weights, defaults, opts)
		if i == 0 {
			p *= opts.Level0Multiplier
		}
		sum += p
	}

	sum *= 1 + item.Boost
	return math.Pow(sum, opts.ScoreBoostExponent)
}

// priority 计算单个兴趣的优先级
// 查找顺序：用户权重表 -> 默认兴趣表 -> InitialValue，零值视为未收录
func priority(interest string, weights model.WeightMap, defaults model.DefaultInterestTable, opts Options) float64 {
	if w, ok := weights[interest]; ok && w != 0 {
		return w
	}
	if d, ok := defaults[interest]; ok && d.Weight != 0 {
		return d.Weight
	}
	return opts.InitialValue
}
