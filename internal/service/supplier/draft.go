// Package supplier собирает заказ поставщику: черновик с количествами по
// позициям прайс-листа и итоговый текст сообщения для WhatsApp или e-mail.
package supplier

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/mendoza-ahrensburg/kasse/internal/domain"
)

// Row — строка черновика заказа. Quantity хранится строкой: пустая строка
// означает "позиция не заказывается", и поле редактируется как текст.
type Row struct {
	ID            string `json:"id"`
	ArticleNumber string `json:"article_number"`
	Name          string `json:"name"`
	Unit          string `json:"unit"`
	Quantity      string `json:"quantity"`
}

// Draft — черновик заказа одному поставщику.
type Draft struct {
	Supplier domain.Supplier `json:"supplier"`
	Rows     []Row           `json:"rows"`
}

// NewDraft создаёт черновик со строкой на каждую позицию прайс-листа
// и пустыми количествами.
func NewDraft(s domain.Supplier) Draft {
	rows := make([]Row, len(s.Items))
	for i, item := range s.Items {
		rows[i] = Row{
			ID:            item.ID,
			ArticleNumber: item.ArticleNumber,
			Name:          item.Name,
			Unit:          item.Unit,
		}
	}
	return Draft{Supplier: s, Rows: rows}
}

// NewCustomRow создаёт пустую строку для позиции вне прайс-листа.
func NewCustomRow() Row {
	return Row{ID: "custom-" + uuid.NewString()}
}

// WithRow возвращает копию черновика с обновлённой строкой: существующая
// строка с тем же ID заменяется, новая дописывается в конец.
func (d Draft) WithRow(row Row) Draft {
	rows := make([]Row, len(d.Rows))
	copy(rows, d.Rows)
	for i, r := range rows {
		if r.ID == row.ID {
			rows[i] = row
			return Draft{Supplier: d.Supplier, Rows: rows}
		}
	}
	return Draft{Supplier: d.Supplier, Rows: append(rows, row)}
}

// HasQuantities сообщает, заполнено ли хоть одно количество.
func (d Draft) HasQuantities() bool {
	for _, row := range d.Rows {
		if strings.TrimSpace(row.Quantity) != "" {
			return true
		}
	}
	return false
}

// SanitizeQuantity нормализует ввод количества: пустая строка остаётся
// пустой (позиция не заказывается), непустой ввод, который не разбирается
// как число >= 1, принудительно становится "1".
func SanitizeQuantity(value string) string {
	if value == "" {
		return ""
	}
	numeric, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || numeric < 1 {
		return "1"
	}
	return value
}

// IncrementQuantity увеличивает количество на 1. Пустое или нечитаемое
// значение становится "1" — первый клик по плюсу начинает заказ позиции.
func IncrementQuantity(value string) string {
	numeric, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return "1"
	}
	return formatQuantity(numeric + 1)
}

// DecrementQuantity уменьшает количество на 1. Всё, что опустилось бы ниже 1,
// становится пустой строкой: позиция выпадает из заказа.
func DecrementQuantity(value string) string {
	numeric, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || numeric-1 < 1 {
		return ""
	}
	return formatQuantity(numeric - 1)
}

func formatQuantity(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
