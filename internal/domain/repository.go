package domain

import "context"

// LedgerRepository описывает требования к хранилищу снапшота журнала.
// Каждая мутация ядра пишет снапшот целиком (write-through), поэтому
// интерфейс сводится к загрузке и полной перезаписи.
type LedgerRepository interface {
	// Load возвращает последний сохранённый снапшот. Второе значение false
	// означает, что снапшота ещё нет (первый запуск).
	Load(ctx context.Context) (Ledger, bool, error)
	// Save полностью перезаписывает снапшот журнала.
	Save(ctx context.Context, ledger Ledger) error
}

// ReceiptCounterRepository хранит монотонно растущий номер квитанции.
type ReceiptCounterRepository interface {
	// Load возвращает сохранённый номер; false — если номера ещё нет.
	Load(ctx context.Context) (int64, bool, error)
	// Save перезаписывает номер. Вызывающая сторона гарантирует монотонность.
	Save(ctx context.Context, number int64) error
}
