package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mendoza-ahrensburg/kasse/internal/storage/kv"
)

type kvRepository struct {
	db *sql.DB
}

// NewKVStore создаёт реализацию kv.Store поверх таблицы kv_store.
func NewKVStore(store *Store) kv.Store {
	return &kvRepository{db: store.DB()}
}

func (r *kvRepository) Read(ctx context.Context, key string) (string, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false, kv.ErrKeyRequired
	}

	var value string
	err := r.db.QueryRowContext(ctx, `
		SELECT value
		FROM kv_store
		WHERE key = $1
	`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read kv key %s: %w", key, err)
	}

	return value, true, nil
}

func (r *kvRepository) Write(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return kv.ErrKeyRequired
	}

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
	`, key, value); err != nil {
		return fmt.Errorf("write kv key %s: %w", key, err)
	}

	return nil
}

var _ kv.Store = (*kvRepository)(nil)
