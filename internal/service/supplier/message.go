package supplier

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mendoza-ahrensburg/kasse/internal/domain"
)

const (
	greeting     = "Bestellung für morgen"
	emptyNotice  = "(Noch keine Mengen eingetragen)"
	signoff      = "Mit freundlichen Grüßen\nIrfan Majeed"
	subjectJoint = " – Kundennr. "
)

// Клиентский номер прячется в имени поставщика: "Belen Gemüse (K-Nr.: 20225)".
var customerNumberPattern = regexp.MustCompile(`(?i)K-Nr\.\s*:?\s*(\d+)`)

// CustomerNumber извлекает клиентский номер из имени поставщика.
func CustomerNumber(s domain.Supplier) (string, bool) {
	match := customerNumberPattern.FindStringSubmatch(s.Name)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// OrderLines возвращает строки заказа для всех позиций с заполненным
// количеством: "- <артикул> <имя> <кол-во> <ед.>", артикул опускается,
// если его нет, пустое имя заменяется на "-".
func (d Draft) OrderLines() []string {
	var lines []string
	for _, row := range d.Rows {
		qty := strings.TrimSpace(row.Quantity)
		if qty == "" {
			continue
		}

		artNr := strings.TrimSpace(row.ArticleNumber)
		name := row.Name
		if name == "" {
			name = "-"
		}

		var line string
		if artNr != "" {
			line = fmt.Sprintf("- %s %s %s %s", artNr, name, qty, row.Unit)
		} else {
			line = fmt.Sprintf("- %s %s %s", name, qty, row.Unit)
		}
		lines = append(lines, strings.TrimSpace(line))
	}
	return lines
}

// EmailSubject возвращает тему письма: клиентский номер, если он есть,
// иначе имя поставщика.
func (d Draft) EmailSubject() string {
	if number, ok := CustomerNumber(d.Supplier); ok {
		return greeting + subjectJoint + number
	}
	return greeting + " – " + d.Supplier.Name
}

// EmailBody возвращает текст письма с заказом.
func (d Draft) EmailBody() string {
	lines := d.OrderLines()
	header := greeting + "\n"

	if len(lines) == 0 {
		return header + "\n" + emptyNotice + "\n\n" + signoff
	}
	return header + "\n" + strings.Join(lines, "\n") + "\n\n" + signoff
}

// WhatsAppBody возвращает текст сообщения WhatsApp; клиентский номер,
// если он есть, попадает в первую строку.
func (d Draft) WhatsAppBody() string {
	firstLine := greeting
	if number, ok := CustomerNumber(d.Supplier); ok {
		firstLine = greeting + subjectJoint + number
	}

	lines := d.OrderLines()
	if len(lines) == 0 {
		return firstLine + "\n\n" + emptyNotice + "\n\n" + signoff
	}
	return firstLine + "\n\n" + strings.Join(lines, "\n") + "\n\n" + signoff
}
