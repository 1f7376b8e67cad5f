package renewal

import (
	"github.com/shopspring/decimal"

	"renewalpulse/internal/models"
)

// cycleStep returns the calendar step of one cycle as (months, days). Exactly
// one of the two is non-zero. Month-derived cycles must advance by calendar
// months (with end-of-month clamping), not by a fixed day count.
func cycleStep(c models.Cycle) (months int, days int) {
	switch c {
	case models.CycleDay:
		return 0, 1
	case models.CycleWeek:
		return 0, 7
	case models.CycleMonth:
		return 1, 0
	case models.CycleQuarter:
		return 3, 0
	case models.CycleHalfYear:
		return 6, 0
	case models.CycleYear:
		return 12, 0
	case models.Cycle2Year:
		return 24, 0
	case models.Cycle3Year:
		return 36, 0
	case models.Cycle4Year:
		return 48, 0
	case models.Cycle5Year:
		return 60, 0
	}
	// invalid cycles are rejected at input validation and never reach here
	return 1, 0
}

// AdvanceDate returns the next expiry strictly after d for the given cycle.
func AdvanceDate(d models.Date, c models.Cycle) models.Date {
	months, days := cycleStep(c)
	if days > 0 {
		return d.AddDays(days)
	}
	return d.AddMonths(months)
}

// RetreatDate walks one cycle backwards; used to measure the current cycle.
func RetreatDate(d models.Date, c models.Cycle) models.Date {
	months, days := cycleStep(c)
	if days > 0 {
		return d.AddDays(-days)
	}
	return d.AddMonths(-months)
}

// RollForwardIfOverdue advances an overdue expiry cycle by cycle until it is
// today or later, so a record unattended for several cycles catches up in one
// pass. Returns the new expiry and whether it changed. Idempotent: a current
// expiry is returned unchanged.
func RollForwardIfOverdue(expiry models.Date, c models.Cycle, today models.Date) (models.Date, bool) {
	if !expiry.Before(today.Time) {
		return expiry, false
	}
	if c == models.CycleDay || c == models.CycleWeek {
		// day-granular cycles admit a closed form
		_, cycleDays := cycleStep(c)
		diff := expiry.DaysUntil(today)
		steps := diff / cycleDays
		if diff%cycleDays != 0 {
			steps++
		}
		return expiry.AddDays(steps * cycleDays), true
	}
	for expiry.Before(today.Time) {
		expiry = AdvanceDate(expiry, c)
	}
	return expiry, true
}

// IsDueForReminder reports whether a reminder should fire on the given day:
// every day from leadDays before expiry through the expiry day itself, and
// never after.
func IsDueForReminder(expiry models.Date, leadDays int, today models.Date) bool {
	if leadDays < 0 {
		leadDays = 0
	}
	left := today.DaysUntil(expiry)
	return left >= 0 && left <= leadDays
}

// ManualRenew is the "renewed, push one cycle" action: the expiry is first
// normalized to the present, then advanced exactly one cycle.
func ManualRenew(expiry models.Date, c models.Cycle, today models.Date) models.Date {
	normalized, _ := RollForwardIfOverdue(expiry, c, today)
	return AdvanceDate(normalized, c)
}

// RemainingDays returns days until expiry, floored at zero.
func RemainingDays(expiry models.Date, today models.Date) int {
	left := today.DaysUntil(expiry)
	if left < 0 {
		return 0
	}
	return left
}

// CycleLengthDays measures the current cycle ending at expiry in days.
func CycleLengthDays(expiry models.Date, c models.Cycle) int {
	start := RetreatDate(expiry, c)
	days := start.DaysUntil(expiry)
	if days < 1 {
		return 1
	}
	return days
}

// RemainingValue prorates the home-currency amount over the days still ahead:
// full cycles beyond the current one count whole, the current cycle counts by
// its unused fraction. Zero once expiry has passed.
func RemainingValue(amountHome decimal.Decimal, expiry models.Date, c models.Cycle, today models.Date) decimal.Decimal {
	if !expiry.After(today.Time) {
		return decimal.Zero
	}

	if c == models.CycleDay || c == models.CycleWeek {
		_, cycleDays := cycleStep(c)
		left := today.DaysUntil(expiry)
		return amountHome.Mul(decimal.NewFromInt(int64(left))).
			Div(decimal.NewFromInt(int64(cycleDays)))
	}

	steps := 0
	cycleEnd := expiry
	cycleStart := RetreatDate(cycleEnd, c)
	for cycleStart.After(today.Time) {
		cycleEnd = cycleStart
		cycleStart = RetreatDate(cycleEnd, c)
		steps++
	}

	totalDays := cycleStart.DaysUntil(cycleEnd)
	if totalDays <= 0 {
		totalDays = 1
	}
	leftDays := today.DaysUntil(cycleEnd)
	fraction := decimal.NewFromInt(int64(leftDays)).Div(decimal.NewFromInt(int64(totalDays)))
	return amountHome.Mul(decimal.NewFromInt(int64(steps)).Add(fraction))
}

// MonthlyEquivalent normalizes an amount to a 30-day month for comparison
// across cycles; YearlyEquivalent does the same against 365 days.
func MonthlyEquivalent(amountHome decimal.Decimal, expiry models.Date, c models.Cycle) decimal.Decimal {
	days := CycleLengthDays(expiry, c)
	return amountHome.Div(decimal.NewFromInt(int64(days))).Mul(decimal.NewFromInt(30))
}

func YearlyEquivalent(amountHome decimal.Decimal, expiry models.Date, c models.Cycle) decimal.Decimal {
	days := CycleLengthDays(expiry, c)
	return amountHome.Div(decimal.NewFromInt(int64(days))).Mul(decimal.NewFromInt(365))
}
