package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/samtaute/fotoscapes-widget/internal/model"
)

// BadgerDB 中权重表的键前缀
const weightKeyPrefix = "weights:"

// BadgerStore 基于 BadgerDB 的持久化实现，进程重启后数据仍然可用
type BadgerStore struct {
	db  *badger.DB
	log *slog.Logger
}

// NewBadgerStore 创建 BadgerDB 权重存储
func NewBadgerStore(db *badger.DB, log *slog.Logger) *BadgerStore {
	return &BadgerStore{db: db, log: log}
}

// Open 在指定目录打开（必要时创建）BadgerDB
func Open(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db at %s: %w", dir, err)
	}
	return db, nil
}

// Load 读取用户的权重表
// 键不存在返回 (nil, nil)；载荷损坏时按"视为不存在"降级处理，
// 只记诊断日志，由引擎从默认兴趣表重新初始化。
func (s *BadgerStore) Load(ctx context.Context, userID string) (model.WeightMap, error) {
	var weights model.WeightMap

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(weightKeyPrefix + userID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &weights)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			s.log.Warn("persisted weight map is corrupted, reinitializing", "user_id", userID, "error", err)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load weights for user %s: %w", userID, err)
	}

	return weights, nil
}

// Save 整表替换用户的权重表
func (s *BadgerStore) Save(ctx context.Context, userID string, weights model.WeightMap) error {
	data, err := json.Marshal(weights)
	if err != nil {
		return fmt.Errorf("failed to marshal weights: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(weightKeyPrefix+userID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to save weights for user %s: %w", userID, err)
	}
	return nil
}
