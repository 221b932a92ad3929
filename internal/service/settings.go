package service

import "github.com/mmynk/dues/internal/calculator"

// Settings tune how services compute and page results.
type Settings struct {
	// CurrencyPlaces is the number of decimals in the smallest currency unit.
	CurrencyPlaces int32

	// DefaultPageSize is used when a listing request leaves the size unset.
	DefaultPageSize int
}

// DefaultSettings returns cent precision and pages of ten.
func DefaultSettings() Settings {
	return Settings{
		CurrencyPlaces:  calculator.DefaultPlaces,
		DefaultPageSize: 10,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.CurrencyPlaces < 0 {
		s.CurrencyPlaces = d.CurrencyPlaces
	}
	if s.DefaultPageSize <= 0 {
		s.DefaultPageSize = d.DefaultPageSize
	}
	return s
}
