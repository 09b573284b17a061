package domain

// OrderLine — одна строка заказа стола: позиция, количество и налоговая
// категория, зафиксированная в момент добавления. Kind хранится отдельно от
// позиции, чтобы исторические строки оставались стабильными при смене каталога.
type OrderLine struct {
	Item MenuItem `json:"item"`
	Qty  int32    `json:"qty"`
	Kind Kind     `json:"kind"`
}

// AmountMinor возвращает сумму строки в евроцентах.
func (l OrderLine) AmountMinor() int64 {
	return l.Item.PriceMinor * int64(l.Qty)
}

// Table — открытый стол: строки заказа и кэшированная сумма.
// Центральный инвариант: TotalMinor всегда равен сумме строк.
type Table struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Lines      []OrderLine `json:"lines"`
	TotalMinor int64       `json:"total_minor"`
}

// ValidateInvariants проверяет базовые инварианты стола и возвращает список замечаний.
func (t *Table) ValidateInvariants() []error {
	var errs []error

	if t.Name == "" {
		errs = append(errs, ErrTableNameRequired)
	}
	if t.ID <= 0 {
		errs = append(errs, ErrTableIDInvalid)
	}

	// Сверяем кэшированную сумму с суммой строк: qty * price.
	var calc int64
	for _, line := range t.Lines {
		if line.Qty <= 0 {
			errs = append(errs, ErrLineQtyInvalid)
		}
		if line.Item.PriceMinor < 0 {
			errs = append(errs, ErrLinePriceInvalid)
		}
		calc += line.AmountMinor()
	}
	if calc != t.TotalMinor {
		errs = append(errs, ErrTotalMismatch)
	}

	return errs
}

// WithLineAdded возвращает копию стола с добавленной позицией: существующая
// строка с той же парой (id, цена) получает +1 к количеству, иначе в конец
// дописывается новая строка с количеством 1. Сумма обновляется в том же шаге.
func (t Table) WithLineAdded(item MenuItem, kind Kind) Table {
	lines := make([]OrderLine, len(t.Lines))
	copy(lines, t.Lines)

	found := false
	for i, line := range lines {
		if line.Item.SameIdentity(item) {
			line.Qty++
			lines[i] = line
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, OrderLine{Item: item, Qty: 1, Kind: kind})
	}

	t.Lines = lines
	t.TotalMinor += item.PriceMinor
	return t
}

// WithLineIncreased возвращает копию стола, где существующая строка с парой
// (id, цена) получила +1 к количеству. В отличие от WithLineAdded новая строка
// не создаётся: если совпадения нет, возвращается исходный стол и false.
func (t Table) WithLineIncreased(item MenuItem) (Table, bool) {
	for i, line := range t.Lines {
		if line.Item.SameIdentity(item) {
			lines := make([]OrderLine, len(t.Lines))
			copy(lines, t.Lines)
			lines[i].Qty++
			t.Lines = lines
			t.TotalMinor += item.PriceMinor
			return t, true
		}
	}
	return t, false
}

// WithLineRemoved возвращает копию стола, где строка с парой (id, цена)
// получила -1 к количеству; строка с нулевым количеством удаляется из
// последовательности целиком. Если совпадения нет — исходный стол и false.
func (t Table) WithLineRemoved(item MenuItem) (Table, bool) {
	for i, line := range t.Lines {
		if !line.Item.SameIdentity(item) {
			continue
		}
		lines := make([]OrderLine, 0, len(t.Lines))
		lines = append(lines, t.Lines[:i]...)
		if line.Qty > 1 {
			line.Qty--
			lines = append(lines, line)
		}
		lines = append(lines, t.Lines[i+1:]...)
		t.Lines = lines
		t.TotalMinor -= item.PriceMinor
		return t, true
	}
	return t, false
}

// Ledger — все открытые столы. Выбранный стол — забота представления,
// в снапшот не входит.
type Ledger struct {
	Tables []Table `json:"tables"`
}

// NextTableID возвращает идентификатор для нового стола:
// max(существующие)+1, либо 1, если столов нет.
func (l Ledger) NextTableID() int64 {
	var maxID int64
	for _, t := range l.Tables {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID + 1
}

// TableByID возвращает стол по идентификатору.
func (l Ledger) TableByID(id int64) (Table, bool) {
	for _, t := range l.Tables {
		if t.ID == id {
			return t, true
		}
	}
	return Table{}, false
}

// WithTable возвращает копию журнала, где стол с тем же ID заменён на
// переданный, либо, если такого нет, стол дописан в конец.
func (l Ledger) WithTable(table Table) Ledger {
	tables := make([]Table, len(l.Tables))
	copy(tables, l.Tables)
	for i, t := range tables {
		if t.ID == table.ID {
			tables[i] = table
			return Ledger{Tables: tables}
		}
	}
	return Ledger{Tables: append(tables, table)}
}

// WithoutTable возвращает копию журнала без стола с указанным ID.
// Если такого стола нет, журнал возвращается без изменений.
func (l Ledger) WithoutTable(id int64) Ledger {
	tables := make([]Table, 0, len(l.Tables))
	for _, t := range l.Tables {
		if t.ID != id {
			tables = append(tables, t)
		}
	}
	return Ledger{Tables: tables}
}
