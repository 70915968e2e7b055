package store

import (
	"context"
	"sync"

	"github.com/samtaute/fotoscapes-widget/internal/model"
)

// WeightStore 持久化每个用户的兴趣权重表
type WeightStore interface {
	// Load 返回用户已持久化的权重表；不存在时返回 (nil, nil)
	Load(ctx context.Context, userID string) (model.WeightMap, error)
	// Save 整表替换用户的权重表
	Save(ctx context.Context, userID string, weights model.WeightMap) error
}

// MemoryStore 纯内存实现，用于测试和 --ephemeral 模式
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]model.WeightMap
}

// NewMemoryStore 创建一个新的 MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]model.WeightMap),
	}
}

// Load 返回用户权重表的副本
func (s *MemoryStore) Load(ctx context.Context, userID string) (model.WeightMap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	weights, ok := s.data[userID]
	if !ok {
		return nil, nil
	}
	return weights.Clone(), nil
}

// Save 整表替换用户权重表
func (s *MemoryStore) Save(ctx context.Context, userID string, weights model.WeightMap) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[userID] = weights.Clone()
	return nil
}
