package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renewalpulse/internal/models"
	"renewalpulse/internal/structures"
	"renewalpulse/internal/testutil"
)

func testService() (*SubscriptionService, *models.SubscriptionStore) {
	store := models.NewSubscriptionStore()
	converter := testutil.NewMockConverter("CNY", map[string]decimal.Decimal{
		"USD": decimal.NewFromFloat(7.0),
	})
	conf := &structures.Config{
		Reminder: structures.ReminderConfig{DefaultLeadDays: 7},
	}
	svc := NewSubscriptionService(store, converter, conf).(*SubscriptionService)
	return svc, store
}

func validInput(name, expires string) *SubscriptionInput {
	return &SubscriptionInput{
		Name:      name,
		Amount:    decimal.NewFromInt(70),
		Currency:  "usd",
		Cycle:     "month",
		ExpiresAt: expires,
	}
}

func TestCreate_AppliesDefaults(t *testing.T) {
	svc, _ := testService()

	sub, err := svc.Create(validInput("netflix", "2025-07-01"))
	require.NoError(t, err)

	assert.Equal(t, "USD", sub.Currency)
	assert.Equal(t, models.CycleMonth, sub.Cycle)
	assert.Equal(t, models.FlowExpense, sub.Flow)
	assert.Equal(t, 7, sub.LeadDays)
	assert.True(t, sub.Enabled)
	assert.Equal(t, uint64(1), sub.Version)
}

func TestCreate_RejectsBadInput(t *testing.T) {
	svc, _ := testService()

	_, err := svc.Create(validInput("", "2025-07-01"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(validInput("x", "07/01/2025"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	in := validInput("x", "2025-07-01")
	in.Cycle = "fortnightly"
	_, err = svc.Create(in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	in = validInput("x", "2025-07-01")
	in.Amount = decimal.NewFromInt(-1)
	_, err = svc.Create(in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	in = validInput("x", "2025-07-01")
	bad := -3
	in.LeadDays = &bad
	_, err = svc.Create(in)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreate_AcceptsAliases(t *testing.T) {
	svc, _ := testService()

	in := validInput("aliyun", "2025-07-01")
	in.Cycle = "年"
	in.Flow = "收入"
	sub, err := svc.Create(in)
	require.NoError(t, err)
	assert.Equal(t, models.CycleYear, sub.Cycle)
	assert.Equal(t, models.FlowIncome, sub.Flow)
}

func TestUpdate_HonorsExplicitVersion(t *testing.T) {
	svc, _ := testService()

	created, err := svc.Create(validInput("netflix", "2025-07-01"))
	require.NoError(t, err)

	in := validInput("netflix hd", "2025-07-01")
	stale := uint64(99)
	in.Version = &stale
	_, err = svc.Update(created.ID, in)
	assert.ErrorIs(t, err, models.ErrVersionConflict)

	in.Version = &created.Version
	updated, err := svc.Update(created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "netflix hd", updated.Name)
	assert.Equal(t, uint64(2), updated.Version)
}

func TestUpdate_UnknownID(t *testing.T) {
	svc, _ := testService()
	_, err := svc.Update(uuid.New(), validInput("x", "2025-07-01"))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestToggle(t *testing.T) {
	svc, _ := testService()
	created, _ := svc.Create(validInput("netflix", "2025-07-01"))

	toggled, err := svc.Toggle(created.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Enabled)

	toggled, err = svc.Toggle(created.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Enabled)
}

func TestRenew_PushesOneCycle(t *testing.T) {
	svc, _ := testService()
	created, _ := svc.Create(validInput("netflix", "2025-02-10"))

	today := models.NewDate(2025, time.June, 1)
	renewed, err := svc.Renew(created.ID, today)
	require.NoError(t, err)
	assert.Equal(t, models.NewDate(2025, time.July, 10), renewed.ExpiresAt)
}

func TestRollForward_PersistsAndReportsChange(t *testing.T) {
	svc, _ := testService()
	created, _ := svc.Create(validInput("netflix", "2025-01-15"))

	today := models.NewDate(2025, time.June, 1)
	rolled, changed, err := svc.RollForward(created.ID, today)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.NewDate(2025, time.June, 15), rolled.ExpiresAt)

	// second pass is a no-op
	again, changed, err := svc.RollForward(created.ID, today)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, rolled.ExpiresAt, again.ExpiresAt)
}

func TestList_HydratesAndRolls(t *testing.T) {
	svc, _ := testService()
	svc.Create(validInput("overdue", "2025-01-15"))
	svc.Create(validInput("current", "2025-06-20"))

	today := models.NewDate(2025, time.June, 1)
	views := svc.List(ListQuery{}, today)
	require.Len(t, views, 2)

	byName := map[string]*models.SubscriptionView{}
	for _, v := range views {
		byName[v.Name] = v
	}

	assert.True(t, byName["overdue"].Rolled)
	assert.Equal(t, models.NewDate(2025, time.June, 15), byName["overdue"].ExpiresAt)
	assert.False(t, byName["current"].Rolled)

	// 70 USD at 7.0 = 490 CNY
	require.NotNil(t, byName["current"].AmountHome)
	assert.True(t, byName["current"].AmountHome.Equal(decimal.NewFromInt(490)))
	assert.True(t, byName["current"].RateKnown)
	assert.Equal(t, 19, byName["current"].RemainingDays)
}

func TestList_UnknownCurrencyLeavesHomeFieldsNil(t *testing.T) {
	svc, _ := testService()
	in := validInput("mystery", "2025-06-20")
	in.Currency = "CHF"
	svc.Create(in)

	views := svc.List(ListQuery{}, models.NewDate(2025, time.June, 1))
	require.Len(t, views, 1)
	assert.False(t, views[0].RateKnown)
	assert.Nil(t, views[0].AmountHome)
	assert.Nil(t, views[0].MonthlyEquivHome)
}

func TestList_FiltersAndSorts(t *testing.T) {
	svc, _ := testService()
	a := validInput("netflix", "2025-06-03")
	a.Category = "video"
	svc.Create(a)
	b := validInput("spotify", "2025-06-20")
	b.Category = "music"
	svc.Create(b)
	c := validInput("github", "2025-07-15")
	c.Category = "dev"
	svc.Create(c)

	today := models.NewDate(2025, time.June, 1)

	views := svc.List(ListQuery{Search: "net"}, today)
	require.Len(t, views, 1)
	assert.Equal(t, "netflix", views[0].Name)

	views = svc.List(ListQuery{Category: "music"}, today)
	require.Len(t, views, 1)
	assert.Equal(t, "spotify", views[0].Name)

	views = svc.List(ListQuery{Status: "soon"}, today)
	require.Len(t, views, 1)
	assert.Equal(t, "netflix", views[0].Name)

	views = svc.List(ListQuery{Sort: "name"}, today)
	require.Len(t, views, 3)
	assert.Equal(t, "github", views[0].Name)

	views = svc.List(ListQuery{Sort: "remaining"}, today)
	assert.Equal(t, "netflix", views[0].Name)
}

func TestSummary_SplitsFlows(t *testing.T) {
	svc, _ := testService()

	expense := validInput("netflix", "2025-06-10")
	expense.Category = "video"
	svc.Create(expense)

	income := validInput("rental", "2025-06-20")
	income.Flow = "income"
	income.Category = "property"
	svc.Create(income)

	paused := validInput("paused", "2025-06-15")
	enabled := false
	paused.Enabled = &enabled
	svc.Create(paused)

	today := models.NewDate(2025, time.June, 1)
	summary := svc.Summary(today)

	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, "CNY", summary.HomeCurrency)
	// paused records contribute to Count only
	assert.True(t, summary.ExpenseTotalHome.Equal(decimal.NewFromInt(490)))
	assert.True(t, summary.IncomeTotalHome.Equal(decimal.NewFromInt(490)))
	assert.True(t, summary.ExpenseUpcoming30Home.Equal(decimal.NewFromInt(490)))
	require.Len(t, summary.Categories, 1)
	assert.Equal(t, "video", summary.Categories[0].Category)
	assert.Len(t, summary.Upcoming, 2)
}

func TestCountDueSoon_SkipsDisabled(t *testing.T) {
	svc, _ := testService()

	soon := validInput("soon", models.Today().AddDays(3).String())
	svc.Create(soon)

	far := validInput("far", models.Today().AddDays(60).String())
	svc.Create(far)

	off := validInput("off", models.Today().AddDays(2).String())
	enabled := false
	off.Enabled = &enabled
	svc.Create(off)

	assert.Equal(t, 1, svc.CountDueSoon())
	assert.Equal(t, 3, svc.Count())
}
