package notify

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"renewalpulse/internal/models"
)

func reminderSub() *models.Subscription {
	return &models.Subscription{
		Name:      "netflix",
		Amount:    decimal.NewFromInt(70),
		Currency:  "USD",
		Cycle:     models.CycleMonth,
		ExpiresAt: models.NewDate(2025, time.June, 10),
		Flow:      models.FlowExpense,
		RenewURL:  "https://netflix.com/account",
	}
}

func TestRenderReminder_WithHomeApproximation(t *testing.T) {
	home := decimal.NewFromInt(490)
	msg := RenderReminder(reminderSub(), &home, "CNY", 3)

	assert.Equal(t, "netflix", msg.Subscription)
	assert.Equal(t, "Renewal reminder: netflix (3 days left)", msg.Subject)
	assert.Contains(t, msg.Body, "Service: netflix")
	assert.Contains(t, msg.Body, "Due: 2025-06-10 (3 days left)")
	assert.Contains(t, msg.Body, "Amount: 70.00 USD (≈ 490.00 CNY)")
	assert.Contains(t, msg.Body, "Renew: https://netflix.com/account")
}

func TestRenderReminder_UnknownRateOmitsApproximation(t *testing.T) {
	msg := RenderReminder(reminderSub(), nil, "CNY", 3)
	assert.Contains(t, msg.Body, "Amount: 70.00 USD\n")
	assert.NotContains(t, msg.Body, "≈")
}

func TestRenderReminder_HomeCurrencySkipsApproximation(t *testing.T) {
	sub := reminderSub()
	sub.Currency = "CNY"
	amount := sub.Amount
	msg := RenderReminder(sub, &amount, "CNY", 1)
	assert.Contains(t, msg.Body, "Amount: 70.00 CNY\n")
	assert.NotContains(t, msg.Body, "≈")
	assert.Contains(t, msg.Subject, "(1 day left)")
}

func TestRenderReminder_MissingRenewURL(t *testing.T) {
	sub := reminderSub()
	sub.RenewURL = ""
	msg := RenderReminder(sub, nil, "CNY", 0)
	assert.Contains(t, msg.Body, "Renew: not set")
	assert.Contains(t, msg.Subject, "(0 days left)")
}
