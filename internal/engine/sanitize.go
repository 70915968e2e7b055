package engine

import (
	"log/slog"

	"github.com/goccy/go-json"

	"github.com/samtaute/fotoscapes-widget/internal/model"
)

// Sanitizer 把不可信的原始目录清洗成合法的 Item 序列
type Sanitizer struct {
	log *slog.Logger
}

// NewSanitizer 创建目录清洗器，log 用于输出丢弃条目的诊断信息
func NewSanitizer(log *slog.Logger) *Sanitizer {
	return &Sanitizer{log: log}
}

// Sanitize 校验原始目录并返回合法条目
// 清洗规则：
//   - 整体不是 JSON 数组：视为空目录，不报错
//   - 条目不是对象、缺少字符串 id、或兴趣列表为空：丢弃并记录诊断
//
// 存活条目保持原始顺序，不会被就地修改；Score 字段视为派生值一律清零。
func (s *Sanitizer) Sanitize(raw []byte) []*model.Item {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.log.Warn("catalog is not a sequence, treating as empty", "error", err)
		return []*model.Item{}
	}

	items := make([]*model.Item, 0, len(entries))
	for i, entry := range entries {
		var item model.Item
		if err := json.Unmarshal(entry, &item); err != nil {
			s.log.Warn("dropping malformed catalog entry", "index", i, "error", err)
			continue
		}
		if item.ID == "" {
			s.log.Warn("dropping catalog entry without id", "index", i)
			continue
		}
		if len(item.Interests) == 0 {
			s.log.Warn("dropping catalog entry without interests", "index", i, "id", item.ID)
			continue
		}

		item.Score = 0
		items = append(items, &item)
	}

	return items
}
