package engine

import (
	"github.com/samtaute/fotoscapes-widget/internal/model"
)

// Update 依据一次点击修正权重表，返回新表（不修改入参）
// 对已收录的每个兴趣做低通滤波：
//
//	new = FilterConst*old + (1-FilterConst)*target
//
// 点击命中的兴趣 target 取 HitValue，其余取 MissValue，
// 结果统一夹紧到 [InterestValueFloor, 1.0]；下限保证兴趣不会被永久排除。
// 点击中出现但尚未收录的兴趣以 InitialValue 插入。
func Update(clicked []string, weights model.WeightMap, opts Options) model.WeightMap {
	clickedSet := make(map[string]struct{}, len(clicked))
	for _, interest := range clicked {
		clickedSet[interest] = struct{}{}
	}

	next := make(model.WeightMap, len(weights)+len(clickedSet))
	for interest, old := range weights {
		target := opts.MissValue
		if _, hit := clickedSet[interest]; hit {
			target = opts.HitValue
		}
		v := opts.FilterConst*old + (1-opts.FilterConst)*target
		next[interest] = clamp(v, opts.InterestValueFloor, 1.0)
	}

	for interest := range clickedSet {
		if _, ok := next[interest]; !ok {
			next[interest] = opts.InitialValue
		}
	}

	return next
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
