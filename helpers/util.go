package helpers

import (
	"errors"
	"strconv"
	"strings"
)

// CleanPriceText strips everything except digits and the decimal point from
// raw price text, e.g. "$1,234.56 USD" -> "1234.56".
func CleanPriceText(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParsePrice parses raw price text into a positive decimal amount.
func ParsePrice(raw string) (float64, error) {
	cleaned := CleanPriceText(raw)
	if cleaned == "" {
		return 0, errors.New("no numeric content in price text")
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, err
	}
	if price <= 0 {
		return 0, errors.New("price must be positive")
	}
	return price, nil
}
