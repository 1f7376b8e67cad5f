package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Subscription is the sole unit of ownership: one recurring payment (or
// earning) with its renewal cycle and reminder window. Version supports
// optimistic updates between web requests and the daily sweep.
type Subscription struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Cycle     Cycle           `json:"cycle"`
	ExpiresAt Date            `json:"expires_at"`
	RenewURL  string          `json:"renew_url,omitempty"`
	Flow      Flow            `json:"flow"`
	LeadDays  int             `json:"lead_days"`
	Enabled   bool            `json:"enabled"`
	Notes     string          `json:"notes,omitempty"`
	Version   uint64          `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (s *Subscription) Clone() *Subscription {
	c := *s
	return &c
}

func (s *Subscription) IsIncome() bool {
	return s.Flow == FlowIncome
}
