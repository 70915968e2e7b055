package telemetry

import "log/slog"

// LogObserver 把遥测事件写入结构化日志
type LogObserver struct {
	log *slog.Logger
}

// NewLogObserver 创建日志 Observer
func NewLogObserver(log *slog.Logger) *LogObserver {
	return &LogObserver{log: log}
}

func (o *LogObserver) SelectedList(ev SelectedListEvent) {
	o.log.Info("selectedList",
		"event_id", ev.EventID,
		"user_id", ev.UserID,
		"avg_score", ev.AvgScore,
		"avg_selected_score", ev.AvgSelectedScore,
		"considered", len(ev.Considered),
		"selected", ev.Selected,
	)
	o.log.Debug("selectedList weights", "event_id", ev.EventID, "weights", ev.Weights)
}

func (o *LogObserver) ChosenLookbook(ev ChosenLookbookEvent) {
	o.log.Info("chosenLookbook",
		"event_id", ev.EventID,
		"user_id", ev.UserID,
		"item_id", ev.ItemID,
		"interests", ev.Interests,
	)
	o.log.Debug("chosenLookbook weights", "event_id", ev.EventID, "weights", ev.Weights)
}
