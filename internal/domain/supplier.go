package domain

// ContactType — канал отправки заказа поставщику.
type ContactType string

const (
	ContactWhatsApp ContactType = "whatsapp"
	ContactEmail    ContactType = "email"
)

// SupplierItem — позиция из прайс-листа поставщика. ArticleNumber может быть
// пустым: у овощных поставщиков артикулы не ведутся.
type SupplierItem struct {
	ID            string `json:"id"`
	ArticleNumber string `json:"article_number"`
	Name          string `json:"name"`
	Unit          string `json:"unit"`
}

// Supplier — поставщик со способом связи и фиксированным списком позиций.
// В имени может встречаться клиентский номер вида "K-Nr.: 20225".
type Supplier struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	ContactType ContactType    `json:"contact_type"`
	Contact     string         `json:"contact"`
	Items       []SupplierItem `json:"items"`
}

// ItemByID возвращает позицию прайс-листа по идентификатору.
func (s Supplier) ItemByID(id string) (SupplierItem, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return SupplierItem{}, false
}
