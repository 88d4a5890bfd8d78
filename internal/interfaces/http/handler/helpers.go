package handler

import (
	"time"

	"github.com/shopspring/decimal"
)

// toDecimalPtr converts a float64 to a *decimal.Decimal
func toDecimalPtr(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

// toDecimal converts a float64 to a decimal.Decimal
func toDecimal(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// formatTime renders a timestamp as RFC3339 for API responses
func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

// formatTimePtr renders an optional timestamp, nil stays nil
func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
