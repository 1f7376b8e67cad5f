package notify

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"renewalpulse/internal/models"
)

// RenderReminder builds the channel-independent reminder text: service name,
// amount with the home-currency approximation when a rate is known, expiry
// with days remaining, and the renewal link.
func RenderReminder(sub *models.Subscription, homeAmount *decimal.Decimal, homeCurrency string, leftDays int) Message {
	amount := fmt.Sprintf("%s %s", sub.Amount.StringFixed(2), sub.Currency)
	if homeAmount != nil && sub.Currency != homeCurrency {
		amount += fmt.Sprintf(" (≈ %s %s)", homeAmount.StringFixed(2), homeCurrency)
	}

	renewURL := sub.RenewURL
	if renewURL == "" {
		renewURL = "not set"
	}

	var b strings.Builder
	b.WriteString("Renewal reminder\n")
	fmt.Fprintf(&b, "Service: %s\n", sub.Name)
	fmt.Fprintf(&b, "Type: %s\n", sub.Flow)
	fmt.Fprintf(&b, "Due: %s (%s left)\n", sub.ExpiresAt, pluralDays(leftDays))
	fmt.Fprintf(&b, "Amount: %s\n", amount)
	fmt.Fprintf(&b, "Renew: %s", renewURL)

	return Message{
		SubscriptionID: sub.ID,
		Subscription:   sub.Name,
		Subject:        fmt.Sprintf("Renewal reminder: %s (%s left)", sub.Name, pluralDays(leftDays)),
		Body:           b.String(),
	}
}

// RenderTest is the canned message behind the test-channel action.
func RenderTest() Message {
	return Message{
		Subscription: "test",
		Subject:      "Renewal reminder test",
		Body:         "Renewal reminder test: channel configured correctly.",
	}
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
