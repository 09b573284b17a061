package domain

import "errors"

var (
	// Ошибка пустого названия стола.
	ErrTableNameRequired = errors.New("table name is required")
	// Ошибка некорректного идентификатора стола (<= 0).
	ErrTableIDInvalid = errors.New("table id must be positive")
	// Ошибка при некорректном количестве в строке заказа (<= 0).
	ErrLineQtyInvalid = errors.New("line qty must be greater than zero")
	// Ошибка отрицательной цены в строке заказа.
	ErrLinePriceInvalid = errors.New("line price must be non-negative")
	// Ошибка несоответствия кэшированной суммы стола сумме строк.
	ErrTotalMismatch = errors.New("table total does not match lines sum")
	// ErrTableNotFound возвращается, если стол не найден в журнале.
	ErrTableNotFound = errors.New("table not found")
	// ErrLineNotFound возвращается, если строка с парой (id, цена) отсутствует.
	ErrLineNotFound = errors.New("order line not found")
	// ErrAmountInvalid возвращается для произвольной суммы, которая не
	// парсится как конечное число > 0.
	ErrAmountInvalid = errors.New("amount must be a finite number greater than zero")
	// ErrEmptyReceipt возвращается при попытке напечатать квитанцию без строк.
	ErrEmptyReceipt = errors.New("table has no order lines")
)

// IsNoOp сообщает, является ли ошибка «тихим» отказом: по контракту ядра
// такие операции не меняют состояние и не считаются сбоем.
func IsNoOp(err error) bool {
	return errors.Is(err, ErrTableNotFound) ||
		errors.Is(err, ErrLineNotFound) ||
		errors.Is(err, ErrTableNameRequired) ||
		errors.Is(err, ErrAmountInvalid) ||
		errors.Is(err, ErrEmptyReceipt)
}
