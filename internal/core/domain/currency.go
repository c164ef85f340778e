package domain

import "fmt"

// Currency is a supported wallet currency.
type Currency string

const (
	CurrencyDKK Currency = "DKK"
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

// ParseCurrency validates a raw currency code.
func ParseCurrency(s string) (Currency, error) {
	switch Currency(s) {
	case CurrencyDKK, CurrencyEUR, CurrencyUSD:
		return Currency(s), nil
	}
	return "", fmt.Errorf("unsupported currency %q", s)
}

func (c Currency) String() string {
	return string(c)
}
