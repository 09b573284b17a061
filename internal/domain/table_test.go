package domain_test

import (
	"testing"

	"github.com/mendoza-ahrensburg/kasse/internal/domain"
)

// helper для создания стола с одной строкой.
func makeTable() domain.Table {
	return domain.Table{
		ID:   1,
		Name: "Tisch 5",
		Lines: []domain.OrderLine{
			{
				Item: domain.MenuItem{ID: 3, Name: "Bruschetta", PriceMinor: 790, Kind: domain.KindFood},
				Qty:  2,
				Kind: domain.KindFood,
			},
		},
		TotalMinor: 1580,
	}
}

func assertInvariants(t *testing.T, table domain.Table) {
	t.Helper()
	if errs := table.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("invariants violated: %v", errs)
	}
}

func TestTableValidateInvariants_Ok(t *testing.T) {
	table := makeTable()
	if errs := table.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestTableValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(tb *domain.Table)
	}{
		{
			name: "no name",
			mut: func(tb *domain.Table) {
				tb.Name = ""
			},
		},
		{
			name: "zero qty line",
			mut: func(tb *domain.Table) {
				tb.Lines[0].Qty = 0
			},
		},
		{
			name: "total mismatch",
			mut: func(tb *domain.Table) {
				tb.TotalMinor = 9999
			},
		},
		{
			name: "negative price",
			mut: func(tb *domain.Table) {
				tb.Lines[0].Item.PriceMinor = -5
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			table := makeTable()
			tc.mut(&table)
			if len(table.ValidateInvariants()) == 0 {
				t.Fatalf("expected validation errors for case %s", tc.name)
			}
		})
	}
}

func TestTableWithLineAdded_MergesSameIdentity(t *testing.T) {
	table := makeTable()
	item := table.Lines[0].Item

	updated := table.WithLineAdded(item, domain.KindFood)

	if len(updated.Lines) != 1 {
		t.Fatalf("expected merged line, got %d lines", len(updated.Lines))
	}
	if updated.Lines[0].Qty != 3 {
		t.Fatalf("expected qty 3, got %d", updated.Lines[0].Qty)
	}
	if updated.TotalMinor != 2370 {
		t.Fatalf("expected total 2370, got %d", updated.TotalMinor)
	}
	assertInvariants(t, updated)

	// Исходный стол не мутируется.
	if table.Lines[0].Qty != 2 || table.TotalMinor != 1580 {
		t.Fatal("WithLineAdded must not mutate the receiver")
	}
}

func TestTableWithLineAdded_AppendsNewLine(t *testing.T) {
	table := makeTable()
	cola := domain.MenuItem{ID: 120, Name: "Coca Cola 0,2l", PriceMinor: 350, Kind: domain.KindBeverage}

	updated := table.WithLineAdded(cola, domain.KindBeverage)

	if len(updated.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(updated.Lines))
	}
	if updated.Lines[1].Qty != 1 {
		t.Fatalf("expected qty 1 for new line, got %d", updated.Lines[1].Qty)
	}
	if updated.Lines[1].Kind != domain.KindBeverage {
		t.Fatalf("expected captured kind beverage, got %s", updated.Lines[1].Kind)
	}
	if updated.TotalMinor != 1930 {
		t.Fatalf("expected total 1930, got %d", updated.TotalMinor)
	}
	assertInvariants(t, updated)
}

func TestTableWithLineAdded_SameIDDifferentPrice(t *testing.T) {
	// Дубли id в каталоге: строки различаются по цене как вторичному ключу.
	table := makeTable()
	sameIDOtherPrice := domain.MenuItem{ID: 3, Name: "Bruschetta Groß", PriceMinor: 990, Kind: domain.KindFood}

	updated := table.WithLineAdded(sameIDOtherPrice, domain.KindFood)

	if len(updated.Lines) != 2 {
		t.Fatalf("expected separate line for different price, got %d lines", len(updated.Lines))
	}
	assertInvariants(t, updated)
}

func TestTableWithLineIncreased(t *testing.T) {
	table := makeTable()
	item := table.Lines[0].Item

	updated, ok := table.WithLineIncreased(item)
	if !ok {
		t.Fatal("expected increase to succeed")
	}
	if updated.Lines[0].Qty != 3 {
		t.Fatalf("expected qty 3, got %d", updated.Lines[0].Qty)
	}
	assertInvariants(t, updated)

	// Несуществующая строка: новая не создаётся.
	missing := domain.MenuItem{ID: 99, PriceMinor: 100}
	same, ok := table.WithLineIncreased(missing)
	if ok {
		t.Fatal("expected increase of missing line to be a no-op")
	}
	if len(same.Lines) != 1 {
		t.Fatalf("no-op must not create lines, got %d", len(same.Lines))
	}
}

func TestTableWithLineRemoved(t *testing.T) {
	table := makeTable()
	item := table.Lines[0].Item

	once, ok := table.WithLineRemoved(item)
	if !ok {
		t.Fatal("expected remove to succeed")
	}
	if once.Lines[0].Qty != 1 {
		t.Fatalf("expected qty 1, got %d", once.Lines[0].Qty)
	}
	if once.TotalMinor != 790 {
		t.Fatalf("expected total 790, got %d", once.TotalMinor)
	}
	assertInvariants(t, once)

	// Количество 1 → строка исчезает целиком, нулевых строк не остаётся.
	twice, ok := once.WithLineRemoved(item)
	if !ok {
		t.Fatal("expected second remove to succeed")
	}
	if len(twice.Lines) != 0 {
		t.Fatalf("expected line to be dropped, got %d lines", len(twice.Lines))
	}
	if twice.TotalMinor != 0 {
		t.Fatalf("expected total 0, got %d", twice.TotalMinor)
	}
	assertInvariants(t, twice)

	// Удаление из пустого стола — no-op.
	if _, ok := twice.WithLineRemoved(item); ok {
		t.Fatal("expected remove on empty table to be a no-op")
	}
}

func TestTableInvariantHoldsThroughMutationSequence(t *testing.T) {
	// Инвариант суммы держится на каждом промежуточном шаге.
	soup := domain.MenuItem{ID: 1, Name: "Tomatensuppe", PriceMinor: 690, Kind: domain.KindFood}
	beer := domain.MenuItem{ID: 200, Name: "Pils 0,3l", PriceMinor: 390, Kind: domain.KindBeverage}

	table := domain.Table{ID: 1, Name: "Tisch 2"}
	assertInvariants(t, table)

	table = table.WithLineAdded(soup, domain.KindFood)
	assertInvariants(t, table)
	table = table.WithLineAdded(beer, domain.KindBeverage)
	assertInvariants(t, table)
	table = table.WithLineAdded(soup, domain.KindFood)
	assertInvariants(t, table)

	table, _ = table.WithLineRemoved(beer)
	assertInvariants(t, table)
	table, _ = table.WithLineIncreased(soup)
	assertInvariants(t, table)

	if table.TotalMinor != 3*690 {
		t.Fatalf("expected total %d, got %d", 3*690, table.TotalMinor)
	}
}

func TestLedgerNextTableID(t *testing.T) {
	empty := domain.Ledger{}
	if got := empty.NextTableID(); got != 1 {
		t.Fatalf("expected first id 1, got %d", got)
	}

	ledger := domain.Ledger{Tables: []domain.Table{{ID: 2}, {ID: 7}, {ID: 4}}}
	if got := ledger.NextTableID(); got != 8 {
		t.Fatalf("expected max+1 = 8, got %d", got)
	}
}

func TestLedgerWithTable_ReplacesOrAppends(t *testing.T) {
	ledger := domain.Ledger{}

	ledger = ledger.WithTable(domain.Table{ID: 1, Name: "Tisch 1"})
	ledger = ledger.WithTable(domain.Table{ID: 2, Name: "Tisch 2"})
	if len(ledger.Tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(ledger.Tables))
	}

	ledger = ledger.WithTable(domain.Table{ID: 1, Name: "Tisch 1", TotalMinor: 500})
	if len(ledger.Tables) != 2 {
		t.Fatalf("replace must not append, got %d tables", len(ledger.Tables))
	}
	if ledger.Tables[0].TotalMinor != 500 {
		t.Fatalf("expected replaced table total 500, got %d", ledger.Tables[0].TotalMinor)
	}
}

func TestLedgerWithoutTable(t *testing.T) {
	ledger := domain.Ledger{Tables: []domain.Table{{ID: 1}, {ID: 2}}}

	ledger = ledger.WithoutTable(1)
	if len(ledger.Tables) != 1 || ledger.Tables[0].ID != 2 {
		t.Fatalf("unexpected tables after delete: %+v", ledger.Tables)
	}

	// Неизвестный id — no-op.
	ledger = ledger.WithoutTable(42)
	if len(ledger.Tables) != 1 {
		t.Fatalf("delete of unknown id must be a no-op, got %d tables", len(ledger.Tables))
	}
}
