package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RateSnapshot maps currency codes to their rate relative to the home
// currency. It is replaced wholesale on every successful refresh; no rate
// history is kept.
type RateSnapshot struct {
	Home      string                     `json:"home"`
	Rates     map[string]decimal.Decimal `json:"rates"`
	FetchedAt time.Time                  `json:"fetched_at"`
}

func (s *RateSnapshot) RateFor(currency string) (decimal.Decimal, bool) {
	if s == nil {
		return decimal.Decimal{}, false
	}
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == s.Home {
		return decimal.NewFromInt(1), true
	}
	rate, ok := s.Rates[code]
	return rate, ok
}
