package domain

// Align задаёт выравнивание секции квитанции.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// SectionType — дискриминатор типа секции. Значения входят в wire-контракт
// с внешним приложением печати и менять их нельзя.
type SectionType string

const (
	SectionImage   SectionType = "image"
	SectionText    SectionType = "text"
	SectionDivider SectionType = "divider"
	SectionItems   SectionType = "items"
	SectionCut     SectionType = "cut"
)

// ReceiptItem — строка в секции items: отформатированное имя и числовое
// значение (в евро) для сумм на стороне принтера.
type ReceiptItem struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ReceiptSection — одна типизированная секция квитанции. Поля зависят от
// Type: url/align для image, text/bold/align для text, lines для divider,
// items (+ опциональные bold/textSize) для items, cut без полей.
type ReceiptSection struct {
	Type     SectionType   `json:"type"`
	URL      string        `json:"url,omitempty"`
	Align    Align         `json:"align,omitempty"`
	Text     string        `json:"text,omitempty"`
	Bold     bool          `json:"bold,omitempty"`
	TextSize int           `json:"textSize,omitempty"`
	Lines    int           `json:"lines,omitempty"`
	Items    []ReceiptItem `json:"items,omitempty"`
}

// ReceiptDocument — печатная квитанция целиком: упорядоченная
// последовательность секций плюс значения по умолчанию. Имена JSON-полей
// воспроизводятся байт-в-байт, это контракт совместимости с приложением печати.
type ReceiptDocument struct {
	DefaultAlign             Align            `json:"defaultAlign"`
	DefaultTextSize          int              `json:"defaultTextSize"`
	DefaultCharactersPerLine int              `json:"defaultCharactersPerLine"`
	Sections                 []ReceiptSection `json:"sections"`
}
