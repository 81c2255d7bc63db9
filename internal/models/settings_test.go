package models

import "testing"

func TestSettings_CurrencySymbol(t *testing.T) {
	testCases := []struct {
		currency string
		expected string
	}{
		{"USD", "$"},
		{"EUR", "€"},
		{"GBP", "£"},
		{"JPY", "$"}, // unknown currencies fall back to dollars
	}

	for _, tc := range testCases {
		t.Run(tc.currency, func(t *testing.T) {
			settings := Settings{Currency: tc.currency}
			if symbol := settings.CurrencySymbol(); symbol != tc.expected {
				t.Errorf("Expected symbol %q for %s, got %q", tc.expected, tc.currency, symbol)
			}
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	if settings.Currency != "USD" {
		t.Errorf("Expected default currency USD, got %s", settings.Currency)
	}
	if settings.DistanceUnit != "miles" {
		t.Errorf("Expected default distance unit miles, got %s", settings.DistanceUnit)
	}
}
