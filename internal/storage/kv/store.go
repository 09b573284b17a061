// Package kv определяет минимальный контракт key-value хранилища,
// под которым живут все снапшоты состояния кассы. Конкретные реализации —
// in-memory и PostgreSQL.
package kv

import (
	"context"
	"errors"
)

// ErrKeyRequired возвращается при пустом ключе.
var ErrKeyRequired = errors.New("kv: key is required")

// Store — key-value хранилище строковых значений.
// Read возвращает (значение, true) при попадании и ("", false), если ключа нет;
// отсутствие ключа ошибкой не считается. Write перезаписывает значение целиком.
type Store interface {
	Read(ctx context.Context, key string) (string, bool, error)
	Write(ctx context.Context, key, value string) error
}
