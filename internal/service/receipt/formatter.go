// Package receipt собирает печатный документ квитанции из снапшота стола.
// Формат секций и ширины колонок повторяют ленту чекового принтера:
// 48 символов на строку, моноширинный шрифт.
package receipt

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mendoza-ahrensburg/kasse/internal/domain"
)

const (
	charactersPerLine = 48

	qtyColumnWidth   = 5
	nameColumnWidth  = 25
	priceColumnWidth = 7
)

// Включённые ставки НДС: блюда 7%, напитки 19%.
const (
	foodTaxDivisor     = 1.07
	beverageTaxDivisor = 1.19
)

// Formatter строит квитанцию по снапшоту стола. Часы инжектируются,
// чтобы тесты могли зафиксировать дату и время на ленте.
type Formatter struct {
	profile Profile
	now     func() time.Time
}

// NewFormatter создаёт форматтер с указанным профилем заведения.
// nil вместо часов означает time.Now.
func NewFormatter(profile Profile, now func() time.Time) *Formatter {
	if now == nil {
		now = time.Now
	}
	return &Formatter{profile: profile, now: now}
}

// Build собирает документ квитанции для стола под указанным номером.
// Чистая функция от снапшота: стол не мутируется, счётчик не трогается.
func (f *Formatter) Build(table domain.Table, number int64) domain.ReceiptDocument {
	now := f.now()
	date := now.Format("02.01.06")
	clock := now.Format("15:04")

	sections := []domain.ReceiptSection{
		{Type: domain.SectionImage, URL: f.profile.LogoURL, Align: domain.AlignCenter},
		{Type: domain.SectionText, Text: f.profile.AddressBlock, Align: domain.AlignCenter},
		{Type: domain.SectionDivider, Lines: 3},
		{Type: domain.SectionText, Text: fmt.Sprintf("Quittung %d\n%s, %s", number, date, clock)},
		{Type: domain.SectionDivider, Lines: 2},
		{Type: domain.SectionText, Text: fmt.Sprintf("%s, %s", f.profile.AreaPrefix, table.Name), Bold: true, Align: domain.AlignCenter},
		{Type: domain.SectionDivider, Lines: 2},
		{Type: domain.SectionItems, Items: orderItems(table)},
		{Type: domain.SectionDivider, Lines: 2},
		{
			Type:     domain.SectionItems,
			TextSize: 2,
			Bold:     true,
			Items: []domain.ReceiptItem{
				{Name: "Summe", Value: euros(table.TotalMinor)},
			},
		},
		{Type: domain.SectionDivider, Lines: 3},
		{Type: domain.SectionText, Text: taxBreakdown(table)},
		{Type: domain.SectionDivider, Lines: 2},
		{Type: domain.SectionText, Text: f.profile.VATBlock},
		{Type: domain.SectionDivider, Lines: 3},
		{Type: domain.SectionText, Text: f.profile.ThanksText, Bold: true, Align: domain.AlignCenter},
		{Type: domain.SectionDivider, Lines: 2},
		{Type: domain.SectionText, Text: f.profile.PromoText, Align: domain.AlignCenter},
		{Type: domain.SectionDivider, Lines: 2},
		{Type: domain.SectionText, Text: f.profile.SignoffText, Bold: true, Align: domain.AlignCenter},
		{Type: domain.SectionDivider, Lines: 3},
		{Type: domain.SectionImage, URL: f.profile.FrameURL, Align: domain.AlignCenter},
		{Type: domain.SectionDivider, Lines: 3},
		{Type: domain.SectionCut},
	}

	return domain.ReceiptDocument{
		DefaultAlign:             domain.AlignLeft,
		DefaultTextSize:          1,
		DefaultCharactersPerLine: charactersPerLine,
		Sections:                 sections,
	}
}

// orderItems форматирует строки заказа колонками фиксированной ширины:
// количество, имя позиции, цена за единицу с запятой-разделителем.
func orderItems(table domain.Table) []domain.ReceiptItem {
	items := make([]domain.ReceiptItem, 0, len(table.Lines))
	for _, line := range table.Lines {
		name := padEnd(fmt.Sprintf("%d", line.Qty), qtyColumnWidth) +
			padEnd(line.Item.Name, nameColumnWidth) +
			padStart(formatEuro(line.Item.PriceMinor), priceColumnWidth)
		items = append(items, domain.ReceiptItem{
			Name:  name,
			Value: euros(line.AmountMinor()),
		})
	}
	return items
}

// taxBreakdown строит блок включённого НДС: строка A для блюд (7%), строка B
// для напитков (19%). Категория с нулевой суммой не печатается.
func taxBreakdown(table domain.Table) string {
	var foodGross, beverageGross int64
	for _, line := range table.Lines {
		if line.Kind == domain.KindBeverage {
			beverageGross += line.AmountMinor()
		} else {
			foodGross += line.AmountMinor()
		}
	}

	var lines []string
	if foodGross > 0 {
		lines = append(lines, fmt.Sprintf("A: MwSt. 7%% auf %s€: %s€",
			formatEuro(foodGross), formatEuro(inclusiveTax(foodGross, foodTaxDivisor))))
	}
	if beverageGross > 0 {
		lines = append(lines, fmt.Sprintf("B: MwSt. 19%% auf %s€: %s€",
			formatEuro(beverageGross), formatEuro(inclusiveTax(beverageGross, beverageTaxDivisor))))
	}
	return strings.Join(lines, "\n")
}

// inclusiveTax возвращает НДС, включённый в брутто-сумму: брутто минус нетто,
// нетто округляется до цента.
func inclusiveTax(grossMinor int64, divisor float64) int64 {
	net := int64(math.Round(float64(grossMinor) / divisor))
	return grossMinor - net
}

// formatEuro печатает сумму в евроцентах как "12,34".
func formatEuro(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d,%02d", sign, minor/100, minor%100)
}

// euros переводит евроценты в евро для числовых полей value секций items.
func euros(minor int64) float64 {
	return float64(minor) / 100
}

// padEnd и padStart дополняют строку пробелами до указанной ширины в рунах.
// Строки длиннее ширины не обрезаются.
func padEnd(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func padStart(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}
