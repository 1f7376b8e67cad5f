package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"renewalpulse/internal/models"
	"renewalpulse/internal/rates"
	"renewalpulse/internal/renewal"
	"renewalpulse/internal/structures"
)

// ErrInvalidInput marks payloads rejected before they reach the renewal
// engine: bad cycle, bad date, negative amount.
var ErrInvalidInput = errors.New("invalid subscription input")

// rollForwardAttempts bounds the optimistic-update retry when a sweep and a
// concurrent edit race on the same record.
const rollForwardAttempts = 3

type ListQuery struct {
	Search   string
	Category string
	Status   string
	Sort     string
}

type SubscriptionServiceInterface interface {
	Create(in *SubscriptionInput) (*models.Subscription, error)
	Update(id uuid.UUID, in *SubscriptionInput) (*models.Subscription, error)
	Get(id uuid.UUID) (*models.Subscription, error)
	Delete(id uuid.UUID) error
	Toggle(id uuid.UUID) (*models.Subscription, error)
	Renew(id uuid.UUID, today models.Date) (*models.Subscription, error)
	RollForward(id uuid.UUID, today models.Date) (*models.Subscription, bool, error)
	List(q ListQuery, today models.Date) []*models.SubscriptionView
	Summary(today models.Date) *models.Summary
	Records() []*models.Subscription
	Replace(subs []*models.Subscription)
	Count() int
	CountDueSoon() int
}

type SubscriptionService struct {
	store     *models.SubscriptionStore
	converter rates.ConverterInterface
	conf      *structures.Config
}

func NewSubscriptionService(store *models.SubscriptionStore, converter rates.ConverterInterface, conf *structures.Config) SubscriptionServiceInterface {
	return &SubscriptionService{
		store:     store,
		converter: converter,
		conf:      conf,
	}
}

func (ss *SubscriptionService) Create(in *SubscriptionInput) (*models.Subscription, error) {
	sub, err := in.toRecord(ss.conf.Reminder.DefaultLeadDays)
	if err != nil {
		return nil, err
	}
	return ss.store.Create(sub), nil
}

func (ss *SubscriptionService) Update(id uuid.UUID, in *SubscriptionInput) (*models.Subscription, error) {
	next, err := in.toRecord(ss.conf.Reminder.DefaultLeadDays)
	if err != nil {
		return nil, err
	}
	current, ok := ss.store.Get(id)
	if !ok {
		return nil, models.ErrNotFound
	}
	next.ID = current.ID
	next.Version = current.Version
	if in.Version != nil {
		next.Version = *in.Version
	}
	return ss.store.Update(next)
}

func (ss *SubscriptionService) Get(id uuid.UUID) (*models.Subscription, error) {
	sub, ok := ss.store.Get(id)
	if !ok {
		return nil, models.ErrNotFound
	}
	return sub, nil
}

func (ss *SubscriptionService) Delete(id uuid.UUID) error {
	return ss.store.Delete(id)
}

func (ss *SubscriptionService) Toggle(id uuid.UUID) (*models.Subscription, error) {
	sub, ok := ss.store.Get(id)
	if !ok {
		return nil, models.ErrNotFound
	}
	sub.Enabled = !sub.Enabled
	return ss.store.Update(sub)
}

// Renew is the explicit "renewed, push one cycle" action: normalize a stale
// expiry to the present, then advance exactly one cycle.
func (ss *SubscriptionService) Renew(id uuid.UUID, today models.Date) (*models.Subscription, error) {
	sub, ok := ss.store.Get(id)
	if !ok {
		return nil, models.ErrNotFound
	}
	sub.ExpiresAt = renewal.ManualRenew(sub.ExpiresAt, sub.Cycle, today)
	return ss.store.Update(sub)
}

// RollForward advances an overdue expiry to the present and persists the
// change through the store's version check, retrying a bounded number of
// times when it loses to a concurrent edit. No-op for current records.
func (ss *SubscriptionService) RollForward(id uuid.UUID, today models.Date) (*models.Subscription, bool, error) {
	for attempt := 0; attempt < rollForwardAttempts; attempt++ {
		sub, ok := ss.store.Get(id)
		if !ok {
			return nil, false, models.ErrNotFound
		}
		next, changed := renewal.RollForwardIfOverdue(sub.ExpiresAt, sub.Cycle, today)
		if !changed {
			return sub, false, nil
		}
		sub.ExpiresAt = next
		updated, err := ss.store.Update(sub)
		if err == nil {
			return updated, true, nil
		}
		if !errors.Is(err, models.ErrVersionConflict) {
			return nil, false, err
		}
	}
	return nil, false, fmt.Errorf("roll forward %s: %w", id, models.ErrVersionConflict)
}

// List hydrates all records for display, rolling overdue expiries forward on
// the way (so a freshly opened list never shows stale dates), then filters
// and sorts per the query.
func (ss *SubscriptionService) List(q ListQuery, today models.Date) []*models.SubscriptionView {
	views := make([]*models.SubscriptionView, 0, ss.store.Len())
	for _, sub := range ss.store.List() {
		view := ss.hydrate(sub, today)
		if !matches(view, q) {
			continue
		}
		views = append(views, view)
	}
	sortViews(views, q.Sort)
	return views
}

func (ss *SubscriptionService) hydrate(sub *models.Subscription, today models.Date) *models.SubscriptionView {
	rolled := false
	if updated, changed, err := ss.RollForward(sub.ID, today); err == nil && changed {
		sub = updated
		rolled = true
	}

	view := &models.SubscriptionView{
		Subscription: *sub,
		Rolled:       rolled,
	}

	converted, known := ss.converter.Convert(sub.Amount, sub.Currency)
	view.RateKnown = known
	view.RemainingDays = renewal.RemainingDays(sub.ExpiresAt, today)
	view.TotalDays = renewal.CycleLengthDays(sub.ExpiresAt, sub.Cycle)
	view.DueSoon = view.RemainingDays <= sub.LeadDays

	if known {
		monthly := renewal.MonthlyEquivalent(converted, sub.ExpiresAt, sub.Cycle)
		yearly := renewal.YearlyEquivalent(converted, sub.ExpiresAt, sub.Cycle)
		remaining := renewal.RemainingValue(converted, sub.ExpiresAt, sub.Cycle, today)
		view.AmountHome = &converted
		view.MonthlyEquivHome = &monthly
		view.YearlyEquivHome = &yearly
		view.RemainingValueHome = &remaining
	}

	if view.TotalDays > 0 {
		pct := float64(view.TotalDays-view.RemainingDays) / float64(view.TotalDays) * 100
		view.ProgressPct = min(max(pct, 0), 100)
	}
	return view
}

// Summary aggregates the dashboard numbers over enabled records: totals and
// monthly equivalents split by flow, amounts falling due inside 30 days, the
// five nearest renewals and the expense breakdown by category.
func (ss *SubscriptionService) Summary(today models.Date) *models.Summary {
	summary := &models.Summary{
		HomeCurrency: ss.converter.Home(),
		Categories:   []models.CategoryShare{},
		Upcoming:     []*models.SubscriptionView{},
	}

	categoryTotals := make(map[string]decimal.Decimal)
	var upcoming []*models.SubscriptionView

	for _, sub := range ss.store.List() {
		view := ss.hydrate(sub, today)
		summary.Count++
		if !view.Enabled {
			continue
		}
		if view.DueSoon {
			summary.DueSoon++
		}
		if view.RemainingDays <= 30 {
			upcoming = append(upcoming, view)
		}
		if view.AmountHome == nil {
			continue
		}
		if view.IsIncome() {
			summary.IncomeTotalHome = summary.IncomeTotalHome.Add(*view.AmountHome)
			summary.IncomeMonthlyHome = summary.IncomeMonthlyHome.Add(*view.MonthlyEquivHome)
			if view.RemainingDays <= 30 {
				summary.IncomeUpcoming30Home = summary.IncomeUpcoming30Home.Add(*view.AmountHome)
			}
		} else {
			summary.ExpenseTotalHome = summary.ExpenseTotalHome.Add(*view.AmountHome)
			summary.ExpenseMonthlyHome = summary.ExpenseMonthlyHome.Add(*view.MonthlyEquivHome)
			if view.RemainingDays <= 30 {
				summary.ExpenseUpcoming30Home = summary.ExpenseUpcoming30Home.Add(*view.AmountHome)
			}
			category := view.Category
			if category == "" {
				category = "uncategorized"
			}
			categoryTotals[category] = categoryTotals[category].Add(*view.MonthlyEquivHome)
		}
	}

	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].RemainingDays < upcoming[j].RemainingDays
	})
	if len(upcoming) > 5 {
		upcoming = upcoming[:5]
	}
	summary.Upcoming = upcoming

	summary.Categories = categoryBreakdown(categoryTotals)
	return summary
}

func categoryBreakdown(totals map[string]decimal.Decimal) []models.CategoryShare {
	grand := decimal.Zero
	for _, v := range totals {
		grand = grand.Add(v)
	}
	shares := make([]models.CategoryShare, 0, len(totals))
	for category, v := range totals {
		share := models.CategoryShare{Category: category, MonthlyHome: v}
		if grand.IsPositive() {
			pct, _ := v.Div(grand).Mul(decimal.NewFromInt(100)).Float64()
			share.Percent = pct
		}
		shares = append(shares, share)
	}
	sort.Slice(shares, func(i, j int) bool {
		return shares[i].MonthlyHome.GreaterThan(shares[j].MonthlyHome)
	})
	if len(shares) > 5 {
		shares = shares[:5]
	}
	return shares
}

func (ss *SubscriptionService) Records() []*models.Subscription {
	return ss.store.List()
}

func (ss *SubscriptionService) Replace(subs []*models.Subscription) {
	ss.store.Replace(subs)
}

func (ss *SubscriptionService) Count() int {
	return ss.store.Len()
}

func (ss *SubscriptionService) CountDueSoon() int {
	today := models.Today()
	count := 0
	for _, sub := range ss.store.List() {
		if !sub.Enabled {
			continue
		}
		if renewal.IsDueForReminder(sub.ExpiresAt, sub.LeadDays, today) {
			count++
		}
	}
	return count
}

func matches(view *models.SubscriptionView, q ListQuery) bool {
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(view.Name), needle) &&
			!strings.Contains(strings.ToLower(view.Category), needle) {
			return false
		}
	}
	if q.Category != "" && q.Category != "all" && view.Category != q.Category {
		return false
	}
	switch q.Status {
	case "soon":
		return view.DueSoon
	case "active":
		return view.Enabled
	case "paused":
		return !view.Enabled
	}
	return true
}

func sortViews(views []*models.SubscriptionView, key string) {
	less := func(i, j int) bool {
		return views[i].ExpiresAt.Before(views[j].ExpiresAt.Time)
	}
	switch key {
	case "remaining":
		less = func(i, j int) bool { return views[i].RemainingDays < views[j].RemainingDays }
	case "amount":
		less = byHomeValue(views, func(v *models.SubscriptionView) *decimal.Decimal { return v.AmountHome })
	case "monthly":
		less = byHomeValue(views, func(v *models.SubscriptionView) *decimal.Decimal { return v.MonthlyEquivHome })
	case "yearly":
		less = byHomeValue(views, func(v *models.SubscriptionView) *decimal.Decimal { return v.YearlyEquivHome })
	case "name":
		less = func(i, j int) bool {
			return strings.ToLower(views[i].Name) < strings.ToLower(views[j].Name)
		}
	}
	sort.SliceStable(views, less)
}

// byHomeValue sorts descending by a home-currency field, pushing records with
// no known rate to the end.
func byHomeValue(views []*models.SubscriptionView, pick func(*models.SubscriptionView) *decimal.Decimal) func(i, j int) bool {
	return func(i, j int) bool {
		a, b := pick(views[i]), pick(views[j])
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.GreaterThan(*b)
	}
}
