package engine

// Options 个性化引擎的全部可调参数，按 Resolve 合并后即不可变
type Options struct {
	Count              int     // 单次最多返回的条目数
	MaxConsidered      int     // 打分前最多考察的目录条目数
	Level0Multiplier   float64 // 条目首个兴趣的优先级加成
	InitialValue       float64 // 权重表和默认表都未收录的兴趣的优先级
	HitValue           float64 // 点击命中时权重更新的目标值
	MissValue          float64 // 点击未命中时权重更新的目标值
	InitialWeight      float64 // 默认表缺少权重时的初始化种子值
	FilterConst        float64 // 低通滤波保留系数
	Deprioritization   float64 // 单轮选中后对工作副本权重的衰减比例
	NoInterestsValue   float64 // 无兴趣条目的固定分数
	ScoreBoostExponent float64 // 累加分数的提升指数
	InterestValueFloor float64 // 持久化权重的下限
}

// DefaultOptions 返回引擎内置的默认参数
func DefaultOptions() Options {
	return Options{
		Count:              4,
		MaxConsidered:      50,
		Level0Multiplier:   2.0,
		InitialValue:       0.5,
		HitValue:           2,
		MissValue:          0.0001,
		InitialWeight:      0.001,
		FilterConst:        0.95,
		Deprioritization:   0.2,
		NoInterestsValue:   0.01,
		ScoreBoostExponent: 1.9,
		InterestValueFloor: 0.1,
	}
}

// Overrides 调用方提供的部分参数覆盖
// 指针字段区分"未提供"与"显式提供零值"：nil 回退默认值，
// 显式的 0 同样生效（见 DESIGN.md 中对合并语义的取舍）。
// JSON 反序列化时未识别的字段会被忽略。
type Overrides struct {
	Count              *int     `json:"count,omitempty"`
	MaxConsidered      *int     `json:"maxConsidered,omitempty"`
	Level0Multiplier   *float64 `json:"level0Multiplier,omitempty"`
	InitialValue       *float64 `json:"initialValue,omitempty"`
	HitValue           *float64 `json:"hitValue,omitempty"`
	MissValue          *float64 `json:"missValue,omitempty"`
	InitialWeight      *float64 `json:"initialWeight,omitempty"`
	FilterConst        *float64 `json:"filterConst,omitempty"`
	Deprioritization   *float64 `json:"deprioritization,omitempty"`
	NoInterestsValue   *float64 `json:"noInterestsValue,omitempty"`
	ScoreBoostExponent *float64 `json:"scoreBoostExponent,omitempty"`
	InterestValueFloor *float64 `json:"interestValueFloor,omitempty"`
}

// Resolve 将调用方覆盖与内置默认值合并为完整配置
// ov 为 nil 时直接返回默认配置
func Resolve(ov *Overrides) Options {
	opts := DefaultOptions()
	if ov == nil {
		return opts
	}

	if ov.Count != nil {
		opts.Count = *ov.Count
	}
	if ov.MaxConsidered != nil {
		opts.MaxConsidered = *ov.MaxConsidered
	}
	if ov.Level0Multiplier != nil {
		opts.Level0Multiplier = *ov.Level0Multiplier
	}
	if ov.InitialValue != nil {
		opts.InitialValue = *ov.InitialValue
	}
	if ov.HitValue != nil {
		opts.HitValue = *ov.HitValue
	}
	if ov.MissValue != nil {
		opts.MissValue = *ov.MissValue
	}
	if ov.InitialWeight != nil {
		opts.InitialWeight = *ov.InitialWeight
	}
	if ov.FilterConst != nil {
		opts.FilterConst = *ov.FilterConst
	}
	if ov.Deprioritization != nil {
		opts.Deprioritization = *ov.Deprioritization
	}
	if ov.NoInterestsValue != nil {
		opts.NoInterestsValue = *ov.NoInterestsValue
	}
	if ov.ScoreBoostExponent != nil {
		opts.ScoreBoostExponent = *ov.ScoreBoostExponent
	}
	if ov.InterestValueFloor != nil {
		opts.InterestValueFloor = *ov.InterestValueFloor
	}

	return opts
}
