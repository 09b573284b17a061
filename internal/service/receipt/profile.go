package receipt

// Profile — реквизиты заведения, попадающие в шапку и подвал квитанции.
// Вынесены в структуру, чтобы контракт печати можно было зафиксировать тестами,
// не завязываясь на конкретный ресторан.
type Profile struct {
	LogoURL      string
	FrameURL     string
	AddressBlock string
	VATBlock     string
	ThanksText   string
	PromoText    string
	SignoffText  string
	// AreaPrefix печатается перед именем стола: "Innen, Tisch 3".
	AreaPrefix string
}

// MendozaProfile возвращает реквизиты ресторана Mendoza Ahrensburg.
func MendozaProfile() Profile {
	return Profile{
		LogoURL:      "https://mendoza-ahrensburg.de/wp-content/uploads/2025/03/Logo.png",
		FrameURL:     "https://mendoza-ahrensburg.de/wp-content/uploads/2025/03/frame.png",
		AddressBlock: "MENDOZA AHRENSBURG\nNeue Straße 9\n22926 Ahrensburg\nTel.: 04102/2057779\nwww.mendoza-ahrensburg.de",
		VATBlock:     "MwSt.-Nummer: DE328075928\n3015204397",
		ThanksText:   "Vielen Dank für Ihren Besuch!",
		PromoText:    "Für Ihre Festlichkeiten\n bieten wir Ihnen unseren\n Clubraum für bis zu 50 Personen.",
		SignoffText:  "Ihr MENDOZA Team",
		AreaPrefix:   "Innen",
	}
}
