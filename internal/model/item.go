package model

// Item 代表每日目录（Lookbook）中的一个条目
type Item struct {
	ID        string   `json:"id"`
	Interests []string `json:"interests"`         // 兴趣标识列表，顺序有意义（首个兴趣享受加成）
	Boost     float64  `json:"boost,omitempty"`   // 运营加权，默认 0
	Promote   bool     `json:"promote,omitempty"` // 推广位标记，跳过采样直接展示
	Score     float64  `json:"score"`             // 排序分数（派生值，不作为输入）

	// 透传展示字段，引擎原样带回给 UI，不参与打分
	Title   string `json:"title,omitempty"`
	Summary string `json:"summary,omitempty"`
	Link    string `json:"link,omitempty"`
	Preview string `json:"preview,omitempty"`
}

// WeightMap 兴趣标识到权重的映射
// 不变式：所有持久化的权重都落在 [interestValueFloor, 1.0] 区间内
type WeightMap map[string]float64

// Clone 返回权重表的副本
func (w WeightMap) Clone() WeightMap {
	cloned := make(WeightMap, len(w))
	for k, v := range w {
		cloned[k] = v
	}
	return cloned
}

// DefaultInterest 信息流下发的人群级兴趣先验
type DefaultInterest struct {
	DisplayName string  `json:"name" yaml:"name"`
	Weight      float64 `json:"weight" yaml:"weight"`
}

// DefaultInterestTable 兴趣标识到默认先验的映射，引擎内只读
type DefaultInterestTable map[string]DefaultInterest
