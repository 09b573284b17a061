package state

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mendoza-ahrensburg/kasse/internal/domain"
	"github.com/mendoza-ahrensburg/kasse/internal/storage/kv"
)

// ReceiptNumberKey — ключ текущего номера квитанции.
const ReceiptNumberKey = "kasse.receipt_number"

type counterRepository struct {
	store kv.Store
}

// NewReceiptCounterRepository создаёт kv-реализацию domain.ReceiptCounterRepository.
func NewReceiptCounterRepository(store kv.Store) domain.ReceiptCounterRepository {
	return &counterRepository{store: store}
}

func (r *counterRepository) Load(ctx context.Context) (int64, bool, error) {
	raw, ok, err := r.store.Read(ctx, ReceiptNumberKey)
	if err != nil {
		return 0, false, fmt.Errorf("load receipt number: %w", err)
	}
	if !ok {
		return 0, false, nil
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("decode receipt number %q: %w", raw, err)
	}

	return value, true, nil
}

func (r *counterRepository) Save(ctx context.Context, value int64) error {
	if err := r.store.Write(ctx, ReceiptNumberKey, strconv.FormatInt(value, 10)); err != nil {
		return fmt.Errorf("save receipt number: %w", err)
	}
	return nil
}

var _ domain.ReceiptCounterRepository = (*counterRepository)(nil)
