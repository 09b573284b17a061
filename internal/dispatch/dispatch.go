// Package dispatch строит исходящие URL для внешних каналов: почтовый клиент,
// WhatsApp и приложение печати. Сеть пакет не трогает — переход по ссылке
// выполняет браузер оператора.
package dispatch

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/mendoza-ahrensburg/kasse/internal/domain"
)

// printScheme — URL-схема приложения печати квитанций.
const printScheme = "IAMPrintReceipt://"

// MailtoURL строит mailto-ссылку с темой и телом письма.
func MailtoURL(address, subject, body string) string {
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s",
		escape(address), escape(subject), escape(body))
}

// WhatsAppURL строит ссылку wa.me с предзаполненным сообщением.
// Из контакта выбрасывается всё, кроме цифр и ведущего плюса.
func WhatsAppURL(contact, text string) string {
	phone := sanitizePhone(contact)
	return fmt.Sprintf("https://wa.me/%s?text=%s", escape(phone), escape(text))
}

// PrintURL строит ссылку приложения печати с документом квитанции
// в параметре ticketJSON.
func PrintURL(doc domain.ReceiptDocument) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode receipt document: %w", err)
	}
	return printScheme + "?ticketJSON=" + escape(string(raw)), nil
}

// sanitizePhone оставляет в номере цифры и ведущий плюс.
func sanitizePhone(contact string) string {
	contact = strings.TrimSpace(contact)
	var b strings.Builder
	for i, r := range contact {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// escape кодирует строку для query-компонента. Пробел кодируется как %20,
// а не как плюс: получатели ссылок (почтовые клиенты, WhatsApp) плюс
// в теле не разворачивают.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
