package engine

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samtaute/fotoscapes-widget/internal/logger"
)

func TestSanitizeDropsMalformedEntries(t *testing.T) {
	s := NewSanitizer(logger.Discard())

	raw := []byte(`[
		{"id": "a", "interests": ["travel"]},
		"not an object",
		42,
		{"interests": ["fashion"]},
		{"id": "b", "interests": []},
		{"id": "c", "interests": ["food", "culture"], "title": "Dinner"}
	]`)

	items := s.Sanitize(raw)

	require.Len(t, items, 2)
	// 存活条目保持原始顺序
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "c", items[1].ID)
	assert.Equal(t, "Dinner", items[1].Title)
}

func TestSanitizeNonSequence(t *testing.T) {
	s := NewSanitizer(logger.Discard())

	assert.Empty(t, s.Sanitize([]byte(`{"not": "a sequence"}`)))
	assert.Empty(t, s.Sanitize([]byte(`garbage`)))
	assert.Empty(t, s.Sanitize(nil))
}

func TestSanitizeClearsDerivedScore(t *testing.T) {
	s := NewSanitizer(logger.Discard())

	items := s.Sanitize([]byte(`[{"id": "a", "interests": ["x"], "score": 99}]`))
	require.Len(t, items, 1)
	assert.Zero(t, items[0].Score)
}

// 对自身输出再清洗一遍，结果必须不变
func TestSanitizeIdempotent(t *testing.T) {
	s := NewSanitizer(logger.Discard())

	raw := []byte(`[
		{"id": "a", "interests": ["travel", "food"], "boost": 0.5, "title": "A"},
		{"bad": true},
		{"id": "b", "interests": ["fashion"], "promote": true}
	]`)

	first := s.Sanitize(raw)
	reserialized, err := json.Marshal(first)
	require.NoError(t, err)

	second := s.Sanitize(reserialized)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, *first[i], *second[i])
	}
}
