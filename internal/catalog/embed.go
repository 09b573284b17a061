// Package catalog загружает статические данные меню и поставщиков,
// зашитые в бинарь. Файлы данных редактируются руками; процесс читает
// их один раз на старте и дальше работает с неизменяемыми снимками.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"

	"github.com/mendoza-ahrensburg/kasse/internal/domain"
)

//go:embed catalog.json
var catalogData []byte

//go:embed suppliers.json
var suppliersData []byte

// В файле данных цены хранятся в евро с десятичной дробью —
// так их удобнее править. В домен они попадают уже в евроцентах.
type rawItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type rawCategory struct {
	Name  string    `json:"name"`
	Items []rawItem `json:"items"`
}

type rawCatalog struct {
	Food     []rawCategory `json:"food"`
	Beverage []rawCategory `json:"beverage"`
}

// Load разбирает встроенный каталог меню, переводит цены в евроценты и
// присваивает позициям последовательные идентификаторы. Идентификаторы из
// файла игнорируются: итоговая нумерация определяется только порядком.
func Load() (domain.Catalog, error) {
	var raw rawCatalog
	if err := json.Unmarshal(catalogData, &raw); err != nil {
		return domain.Catalog{}, fmt.Errorf("unmarshal catalog: %w", err)
	}

	convert := func(cats []rawCategory) []domain.Category {
		out := make([]domain.Category, len(cats))
		for i, cat := range cats {
			items := make([]domain.MenuItem, len(cat.Items))
			for j, item := range cat.Items {
				items[j] = domain.MenuItem{
					Name:       item.Name,
					PriceMinor: int64(math.Round(item.Price * 100)),
				}
			}
			out[i] = domain.Category{Name: cat.Name, Items: items}
		}
		return out
	}

	c := domain.Catalog{
		Food:     convert(raw.Food),
		Beverage: convert(raw.Beverage),
	}
	return c.AssignIDs(), nil
}

type rawSuppliers struct {
	Suppliers []domain.Supplier `json:"suppliers"`
}

// LoadSuppliers разбирает встроенный список поставщиков.
func LoadSuppliers() ([]domain.Supplier, error) {
	var raw rawSuppliers
	if err := json.Unmarshal(suppliersData, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal suppliers: %w", err)
	}
	for _, s := range raw.Suppliers {
		switch s.ContactType {
		case domain.ContactWhatsApp, domain.ContactEmail:
		default:
			return nil, fmt.Errorf("supplier %s: unknown contact type %q", s.ID, s.ContactType)
		}
	}
	return raw.Suppliers, nil
}
