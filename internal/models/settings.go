package models

// Settings holds the user-level display preferences that influence how cost
// strings are interpreted and formatted. They are injected into the services
// that need them rather than read from process-wide state.
type Settings struct {
	Currency     string `json:"currency"`     // USD|EUR|GBP
	DistanceUnit string `json:"distanceUnit"` // miles|kilometers
}

// DefaultSettings returns the settings used when none are stored
func DefaultSettings() Settings {
	return Settings{
		Currency:     "USD",
		DistanceUnit: "miles",
	}
}

// CurrencySymbol returns the display symbol for the configured currency
func (s Settings) CurrencySymbol() string {
	symbols := map[string]string{
		"USD": "$",
		"EUR": "€",
		"GBP": "£",
	}

	if symbol, exists := symbols[s.Currency]; exists {
		return symbol
	}

	return "$"
}

// KnownCurrencySymbols lists every symbol stripped before numeric price
// extraction, regardless of the configured currency. Generated cost strings
// are not guaranteed to match the user's own currency.
func KnownCurrencySymbols() []string {
	return []string{"$", "£", "€", "¥"}
}
