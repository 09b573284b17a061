package domain

// Kind описывает налоговую категорию позиции: еда или напиток.
// От неё зависит включённая ставка НДС при печати квитанции.
type Kind string

const (
	// KindFood — блюда, включённый НДС 7%.
	KindFood Kind = "food"
	// KindBeverage — напитки, включённый НДС 19%.
	KindBeverage Kind = "beverage"
)

const (
	// MiscItemID — сентинельный идентификатор произвольной позиции "Divers".
	MiscItemID = -1
	// MiscItemName — отображаемое имя произвольной позиции.
	MiscItemName = "Divers"
)

// MenuItem описывает одну позицию меню.
// ID уникален только внутри одного прохода AssignIDs; в исходных данных
// каталога встречаются дубли, поэтому строки заказа всегда сопоставляются
// по паре (ID, PriceMinor), а не по ID в одиночку.
type MenuItem struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	PriceMinor int64  `json:"price_minor"` // цена за единицу в евроцентах
	Kind       Kind   `json:"kind"`
}

// SameIdentity сообщает, указывают ли две позиции на одну и ту же строку заказа.
func (m MenuItem) SameIdentity(other MenuItem) bool {
	return m.ID == other.ID && m.PriceMinor == other.PriceMinor
}

// NewMiscItem создаёт синтетическую позицию "Divers" на указанную сумму.
// Произвольные суммы облагаются по ставке напитков (19%) — см. DESIGN.md.
func NewMiscItem(amountMinor int64) MenuItem {
	return MenuItem{
		ID:         MiscItemID,
		Name:       MiscItemName,
		PriceMinor: amountMinor,
		Kind:       KindBeverage,
	}
}

// Category — именованная группа позиций меню в порядке объявления.
type Category struct {
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

// Catalog — статическое меню: две группы категорий, еда и напитки.
// Неизменяем на протяжении жизни процесса.
type Catalog struct {
	Food     []Category `json:"food"`
	Beverage []Category `json:"beverage"`
}

// AssignIDs присваивает позициям последовательные идентификаторы, начиная с 1:
// сначала категории группы Food в порядке объявления, затем той же нумерацией
// группа Beverage. Исходные id в данных каталога при этом затираются — итоговый
// идентификатор определяется только позицией. Заодно проставляется Kind по
// группе. Возвращает новый каталог, вход не мутируется.
func (c Catalog) AssignIDs() Catalog {
	next := 1
	renumber := func(cats []Category, kind Kind) []Category {
		out := make([]Category, len(cats))
		for i, cat := range cats {
			items := make([]MenuItem, len(cat.Items))
			for j, item := range cat.Items {
				item.ID = next
				item.Kind = kind
				items[j] = item
				next++
			}
			out[i] = Category{Name: cat.Name, Items: items}
		}
		return out
	}

	return Catalog{
		Food:     renumber(c.Food, KindFood),
		Beverage: renumber(c.Beverage, KindBeverage),
	}
}

// ItemCount возвращает общее число позиций в обеих группах.
func (c Catalog) ItemCount() int {
	n := 0
	for _, cat := range c.Food {
		n += len(cat.Items)
	}
	for _, cat := range c.Beverage {
		n += len(cat.Items)
	}
	return n
}
