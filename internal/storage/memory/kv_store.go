// Package memory содержит in-memory реализацию key-value хранилища.
// Используется в тестах и как бэкенд по умолчанию, когда PostgreSQL
// не сконфигурирован: состояние живёт до перезапуска процесса.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/mendoza-ahrensburg/kasse/internal/storage/kv"
)

type kvStoreInMemory struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewKVStore создаёт in-memory реализацию kv.Store.
func NewKVStore() kv.Store {
	return &kvStoreInMemory{
		items: make(map[string]string),
	}
}

func (s *kvStoreInMemory) Read(ctx context.Context, key string) (string, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false, kv.ErrKeyRequired
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.items[key]
	return value, ok, nil
}

func (s *kvStoreInMemory) Write(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return kv.ErrKeyRequired
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = value
	return nil
}

var _ kv.Store = (*kvStoreInMemory)(nil)
