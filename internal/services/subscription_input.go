package services

import (
	"fmt"
	"strings"

	"github.com/gookit/validate"
	"github.com/shopspring/decimal"

	"renewalpulse/internal/models"
)

// SubscriptionInput is the write payload for create and update. Aliased
// cycle and flow spellings are accepted and normalized, dates must be
// YYYY-MM-DD, amounts decimal and non-negative.
type SubscriptionInput struct {
	Name      string          `json:"name" validate:"required" message:"required:name is required"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Cycle     string          `json:"cycle"`
	ExpiresAt string          `json:"expires_at" validate:"required" message:"required:expires_at is required"`
	RenewURL  string          `json:"renew_url"`
	Flow      string          `json:"flow"`
	LeadDays  *int            `json:"lead_days"`
	Enabled   *bool           `json:"enabled"`
	Notes     string          `json:"notes"`
	Version   *uint64         `json:"version"`
}

func (in *SubscriptionInput) toRecord(defaultLeadDays int) (*models.Subscription, error) {
	v := validate.Struct(in)
	if !v.Validate() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, v.Errors.One())
	}

	cycle, ok := models.ParseCycle(in.Cycle)
	if !ok {
		return nil, fmt.Errorf("%w: unknown cycle %q", ErrInvalidInput, in.Cycle)
	}
	flow, ok := models.ParseFlow(in.Flow)
	if !ok {
		return nil, fmt.Errorf("%w: unknown flow %q", ErrInvalidInput, in.Flow)
	}
	expires, err := models.ParseDate(in.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if in.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "CNY"
	}

	leadDays := defaultLeadDays
	if in.LeadDays != nil {
		if *in.LeadDays < 0 {
			return nil, fmt.Errorf("%w: lead_days must not be negative", ErrInvalidInput)
		}
		leadDays = *in.LeadDays
	}

	enabled := true
	if in.Enabled != nil {
		enabled = *in.Enabled
	}

	return &models.Subscription{
		Name:      strings.TrimSpace(in.Name),
		Category:  strings.TrimSpace(in.Category),
		Amount:    in.Amount,
		Currency:  currency,
		Cycle:     cycle,
		ExpiresAt: expires,
		RenewURL:  strings.TrimSpace(in.RenewURL),
		Flow:      flow,
		LeadDays:  leadDays,
		Enabled:   enabled,
		Notes:     in.Notes,
	}, nil
}
