package models

import "github.com/shopspring/decimal"

// SubscriptionView is a record hydrated for display: converted amounts,
// remaining days and cycle progress. Home-currency fields are nil when the
// rate for the record's currency is unknown.
type SubscriptionView struct {
	Subscription
	AmountHome         *decimal.Decimal `json:"amount_home,omitempty"`
	RateKnown          bool             `json:"rate_known"`
	RemainingDays      int              `json:"remaining_days"`
	TotalDays          int              `json:"total_days"`
	DueSoon            bool             `json:"due_soon"`
	Rolled             bool             `json:"rolled"`
	MonthlyEquivHome   *decimal.Decimal `json:"monthly_equiv_home,omitempty"`
	YearlyEquivHome    *decimal.Decimal `json:"yearly_equiv_home,omitempty"`
	RemainingValueHome *decimal.Decimal `json:"remaining_value_home,omitempty"`
	ProgressPct        float64          `json:"progress_pct"`
}

// CategoryShare is one slice of the expense breakdown by category.
type CategoryShare struct {
	Category    string          `json:"category"`
	MonthlyHome decimal.Decimal `json:"monthly_home"`
	Percent     float64         `json:"percent"`
}

// Summary aggregates the dashboard numbers over enabled records.
type Summary struct {
	Count                 int                 `json:"count"`
	DueSoon               int                 `json:"due_soon"`
	HomeCurrency          string              `json:"home_currency"`
	ExpenseTotalHome      decimal.Decimal     `json:"expense_total_home"`
	IncomeTotalHome       decimal.Decimal     `json:"income_total_home"`
	ExpenseMonthlyHome    decimal.Decimal     `json:"expense_monthly_home"`
	IncomeMonthlyHome     decimal.Decimal     `json:"income_monthly_home"`
	ExpenseUpcoming30Home decimal.Decimal     `json:"expense_upcoming_30_home"`
	IncomeUpcoming30Home  decimal.Decimal     `json:"income_upcoming_30_home"`
	Categories            []CategoryShare     `json:"categories"`
	Upcoming              []*SubscriptionView `json:"upcoming"`
}
