// Package state хранит снапшоты состояния кассы поверх key-value хранилища.
// Каждый репозиторий сериализует своё значение в JSON и держит его под одним
// ключом: состояние маленькое, а запись целиком избавляет от частичных
// обновлений.
package state

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mendoza-ahrensburg/kasse/internal/domain"
	"github.com/mendoza-ahrensburg/kasse/internal/storage/kv"
)

// LedgerKey — ключ снапшота открытых столов.
const LedgerKey = "kasse.ledger"

type ledgerRepository struct {
	store kv.Store
}

// NewLedgerRepository создаёт kv-реализацию domain.LedgerRepository.
func NewLedgerRepository(store kv.Store) domain.LedgerRepository {
	return &ledgerRepository{store: store}
}

func (r *ledgerRepository) Load(ctx context.Context) (domain.Ledger, bool, error) {
	raw, ok, err := r.store.Read(ctx, LedgerKey)
	if err != nil {
		return domain.Ledger{}, false, fmt.Errorf("load ledger snapshot: %w", err)
	}
	if !ok {
		return domain.Ledger{}, false, nil
	}

	var ledger domain.Ledger
	if err := json.Unmarshal([]byte(raw), &ledger); err != nil {
		return domain.Ledger{}, false, fmt.Errorf("decode ledger snapshot: %w", err)
	}

	return ledger, true, nil
}

func (r *ledgerRepository) Save(ctx context.Context, ledger domain.Ledger) error {
	raw, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("encode ledger snapshot: %w", err)
	}
	if err := r.store.Write(ctx, LedgerKey, string(raw)); err != nil {
		return fmt.Errorf("save ledger snapshot: %w", err)
	}
	return nil
}

var _ domain.LedgerRepository = (*ledgerRepository)(nil)
