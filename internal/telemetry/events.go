package telemetry

import (
	"math"

	"github.com/google/uuid"

	"github.com/samtaute/fotoscapes-widget/internal/model"
)

// ItemScore 单个候选条目的打分快照
type ItemScore struct {
	Interests []string `json:"interests"`
	Score     float64  `json:"score"`
}

// SelectedListEvent 一次 Choose 调用的结构化遥测
type SelectedListEvent struct {
	EventID          string             `json:"event_id"`
	UserID           string             `json:"user_id"`
	AvgScore         float64            `json:"avg_score"`          // 全部候选条目的平均分
	AvgSelectedScore float64            `json:"avg_selected_score"` // 被选中条目的平均分
	Considered       []ItemScore        `json:"considered"`
	Selected         []string           `json:"selected"` // 被选中条目的 ID 列表
	Weights          map[string]float64 `json:"weights"`  // 保留三位小数的完整权重表
}

// ChosenLookbookEvent 一次 Click 调用的结构化遥测
type ChosenLookbookEvent struct {
	EventID   string             `json:"event_id"`
	UserID    string             `json:"user_id"`
	ItemID    string             `json:"item_id"`
	Interests []string           `json:"interests"`
	Weights   map[string]float64 `json:"weights"` // 更新后的权重表
}

// Observer 接收引擎产出的遥测事件
// 引擎只依赖该接口，不关心事件最终流向控制台、文件还是监控系统
type Observer interface {
	SelectedList(ev SelectedListEvent)
	ChosenLookbook(ev ChosenLookbookEvent)
}

// NewEventID 生成事件唯一标识
func NewEventID() string {
	return uuid.New().String()
}

// RoundWeights 将权重表的所有值保留三位小数，用于事件载荷
func RoundWeights(weights model.WeightMap) map[string]float64 {
	rounded := make(map[string]float64, len(weights))
	for k, v := range weights {
		rounded[k] = math.Round(v*1000) / 1000
	}
	return rounded
}

// Multi 把事件广播给多个 Observer
type Multi []Observer

func (m Multi) SelectedList(ev SelectedListEvent) {
	for _, o := range m {
		o.SelectedList(ev)
	}
}

func (m Multi) ChosenLookbook(ev ChosenLookbookEvent) {
	for _, o := range m {
		o.ChosenLookbook(ev)
	}
}

// Nop 丢弃所有事件，用于不需要遥测的场合
type Nop struct{}

func (Nop) SelectedList(SelectedListEvent)     {}
func (Nop) ChosenLookbook(ChosenLookbookEvent) {}
