package telemetry

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// record 事件文件中的一行
type record struct {
	Type      string      `json:"type"` // "selectedList" / "chosenLookbook"
	Timestamp int64       `json:"timestamp"`
	Event     interface{} `json:"event"`
}

// FileSink 把遥测事件以 JSONL 格式追加到本地文件
// 写入失败不会向上传播，只记诊断日志，遥测绝不阻断推荐主流程
type FileSink struct {
	filePath string
	mu       sync.Mutex
	log      *slog.Logger
}

// NewFileSink 创建事件文件 Sink
// 如果文件不存在，首次写入时会自动创建
func NewFileSink(filePath string, log *slog.Logger) *FileSink {
	return &FileSink{filePath: filePath, log: log}
}

func (s *FileSink) SelectedList(ev SelectedListEvent) {
	s.append("selectedList", ev)
}

func (s *FileSink) ChosenLookbook(ev ChosenLookbookEvent) {
	s.append("chosenLookbook", ev)
}

// append 追加一行事件记录
func (s *FileSink) append(eventType string, ev interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(eventType, ev); err != nil {
		s.log.Warn("failed to append telemetry event", "type", eventType, "error", err)
	}
}

func (s *FileSink) write(eventType string, ev interface{}) error {
	f, err := os.OpenFile(s.filePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("failed to open event file for appending: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(record{
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		Event:     ev,
	})
}
