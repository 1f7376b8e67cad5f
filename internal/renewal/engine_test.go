package renewal

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"renewalpulse/internal/models"
)

func d(year int, month time.Month, day int) models.Date {
	return models.NewDate(year, month, day)
}

func TestAdvanceDate_MonthClampsToShorterMonth(t *testing.T) {
	assert.Equal(t, d(2025, time.February, 28), AdvanceDate(d(2025, time.January, 31), models.CycleMonth))
	assert.Equal(t, d(2024, time.February, 29), AdvanceDate(d(2024, time.January, 31), models.CycleMonth))
}

func TestAdvanceDate_AllCycles(t *testing.T) {
	start := d(2025, time.March, 15)
	tests := []struct {
		cycle models.Cycle
		want  models.Date
	}{
		{models.CycleDay, d(2025, time.March, 16)},
		{models.CycleWeek, d(2025, time.March, 22)},
		{models.CycleMonth, d(2025, time.April, 15)},
		{models.CycleQuarter, d(2025, time.June, 15)},
		{models.CycleHalfYear, d(2025, time.September, 15)},
		{models.CycleYear, d(2026, time.March, 15)},
		{models.Cycle2Year, d(2027, time.March, 15)},
		{models.Cycle3Year, d(2028, time.March, 15)},
		{models.Cycle4Year, d(2029, time.March, 15)},
		{models.Cycle5Year, d(2030, time.March, 15)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AdvanceDate(start, tt.cycle), "cycle %s", tt.cycle)
	}
}

func TestAdvanceDate_LeapDayYearly(t *testing.T) {
	// Feb 29 + 1 year clamps to Feb 28
	assert.Equal(t, d(2025, time.February, 28), AdvanceDate(d(2024, time.February, 29), models.CycleYear))
}

func TestRollForwardIfOverdue_NoChangeWhenCurrent(t *testing.T) {
	today := d(2025, time.June, 1)

	got, changed := RollForwardIfOverdue(d(2025, time.June, 1), models.CycleMonth, today)
	assert.False(t, changed)
	assert.Equal(t, d(2025, time.June, 1), got)

	got, changed = RollForwardIfOverdue(d(2025, time.July, 10), models.CycleMonth, today)
	assert.False(t, changed)
	assert.Equal(t, d(2025, time.July, 10), got)
}

func TestRollForwardIfOverdue_CatchesUpMultipleCycles(t *testing.T) {
	today := d(2025, time.June, 1)

	got, changed := RollForwardIfOverdue(d(2025, time.January, 15), models.CycleMonth, today)
	assert.True(t, changed)
	assert.Equal(t, d(2025, time.June, 15), got)
}

func TestRollForwardIfOverdue_WeekClosedForm(t *testing.T) {
	today := d(2025, time.June, 2)

	// 2025-01-06 is a Monday; so is 2025-06-02
	got, changed := RollForwardIfOverdue(d(2025, time.January, 6), models.CycleWeek, today)
	assert.True(t, changed)
	assert.Equal(t, today, got)

	got, changed = RollForwardIfOverdue(d(2025, time.January, 7), models.CycleWeek, today)
	assert.True(t, changed)
	assert.Equal(t, d(2025, time.June, 3), got)
}

func TestRollForwardIfOverdue_Idempotent(t *testing.T) {
	today := d(2025, time.June, 1)

	first, changed := RollForwardIfOverdue(d(2024, time.November, 3), models.CycleMonth, today)
	assert.True(t, changed)

	second, changed := RollForwardIfOverdue(first, models.CycleMonth, today)
	assert.False(t, changed)
	assert.Equal(t, first, second)
}

func TestIsDueForReminder_Window(t *testing.T) {
	today := d(2025, time.June, 1)

	assert.True(t, IsDueForReminder(d(2025, time.June, 1), 7, today))
	assert.True(t, IsDueForReminder(d(2025, time.June, 5), 7, today))
	assert.True(t, IsDueForReminder(d(2025, time.June, 8), 7, today))
	assert.False(t, IsDueForReminder(d(2025, time.June, 9), 7, today))
	assert.False(t, IsDueForReminder(d(2025, time.May, 31), 7, today))
}

func TestIsDueForReminder_ZeroLeadFiresOnExpiryDay(t *testing.T) {
	today := d(2025, time.June, 1)

	assert.True(t, IsDueForReminder(d(2025, time.June, 1), 0, today))
	assert.False(t, IsDueForReminder(d(2025, time.June, 2), 0, today))
}

func TestManualRenew_AdvancesExactlyOneCycleFromPresent(t *testing.T) {
	today := d(2025, time.June, 1)

	// stale expiry normalizes to the present first
	got := ManualRenew(d(2025, time.February, 10), models.CycleMonth, today)
	assert.Equal(t, d(2025, time.July, 10), got)

	// current expiry just advances
	got = ManualRenew(d(2025, time.June, 10), models.CycleMonth, today)
	assert.Equal(t, d(2025, time.July, 10), got)
}

func TestCycleLengthDays(t *testing.T) {
	assert.Equal(t, 1, CycleLengthDays(d(2025, time.June, 1), models.CycleDay))
	assert.Equal(t, 7, CycleLengthDays(d(2025, time.June, 1), models.CycleWeek))
	assert.Equal(t, 31, CycleLengthDays(d(2025, time.June, 1), models.CycleMonth))
	assert.Equal(t, 365, CycleLengthDays(d(2025, time.June, 1), models.CycleYear))
	assert.Equal(t, 366, CycleLengthDays(d(2024, time.June, 1), models.CycleYear))
}

func TestRemainingDays_FlooredAtZero(t *testing.T) {
	today := d(2025, time.June, 10)
	assert.Equal(t, 5, RemainingDays(d(2025, time.June, 15), today))
	assert.Equal(t, 0, RemainingDays(d(2025, time.June, 10), today))
	assert.Equal(t, 0, RemainingDays(d(2025, time.June, 1), today))
}

func TestRemainingValue_ZeroPastExpiry(t *testing.T) {
	today := d(2025, time.June, 10)
	amount := decimal.NewFromInt(120)

	got := RemainingValue(amount, d(2025, time.June, 10), models.CycleMonth, today)
	assert.True(t, got.IsZero())
}

func TestRemainingValue_FractionOfCurrentCycle(t *testing.T) {
	today := d(2025, time.June, 1)
	amount := decimal.NewFromInt(70)

	// one week cycle, 3 of 7 days left
	got := RemainingValue(amount, d(2025, time.June, 4), models.CycleWeek, today)
	assert.True(t, got.Equal(decimal.NewFromInt(30)), "got %s", got)
}

func TestRemainingValue_WholeCyclesPlusFraction(t *testing.T) {
	today := d(2025, time.June, 1)
	amount := decimal.NewFromInt(7)

	// expiry two full weeks plus 3 days out: 2 + 3/7 cycles remain
	got := RemainingValue(amount, d(2025, time.June, 18), models.CycleWeek, today)
	want := decimal.NewFromInt(17) // 7*2 + 7*3/7
	assert.True(t, got.Equal(want), "got %s want %s", got, want)
}

func TestMonthlyAndYearlyEquivalents(t *testing.T) {
	amount := decimal.NewFromInt(365)
	expiry := d(2025, time.June, 1)

	yearly := YearlyEquivalent(amount, expiry, models.CycleYear)
	assert.True(t, yearly.Equal(decimal.NewFromInt(365)), "got %s", yearly)

	monthly := MonthlyEquivalent(amount, expiry, models.CycleYear)
	assert.True(t, monthly.Equal(decimal.NewFromInt(30)), "got %s", monthly)
}
