package scheduler

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"renewalpulse/internal/models"
	"renewalpulse/internal/notify"
	"renewalpulse/internal/providers"
	"renewalpulse/internal/rates"
	"renewalpulse/internal/renewal"
	"renewalpulse/internal/services"
)

// Sweeper runs the daily reminder pass: roll overdue expiries forward, then
// fire a reminder for every enabled record inside its lead window. Reminders
// repeat on every sweep while the record stays inside the window.
type Sweeper struct {
	service    services.SubscriptionServiceInterface
	converter  rates.ConverterInterface
	dispatcher notify.DispatcherInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewSweeper(service services.SubscriptionServiceInterface, converter rates.ConverterInterface, dispatcher notify.DispatcherInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *Sweeper {
	return &Sweeper{
		service:    service,
		converter:  converter,
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

func (sw *Sweeper) Run(ctx context.Context) error {
	return sw.RunAt(ctx, models.Today())
}

// RunAt sweeps against an explicit "today" so the pass is reproducible.
// A record failing to roll forward is logged and skipped, never aborting
// the rest of the pass.
func (sw *Sweeper) RunAt(ctx context.Context, today models.Date) error {
	start := time.Now()
	reminders := 0

	for _, sub := range sw.service.Records() {
		if !sub.Enabled {
			continue
		}

		current, changed, err := sw.service.RollForward(sub.ID, today)
		if err != nil {
			sw.logger.Errorf(providers.TypeApp, "Sweep: roll forward %q failed: %s", sub.Name, err)
			continue
		}
		if changed {
			sw.metrics.IncRolledForward()
			sw.logger.Infof(providers.TypeApp, "Sweep: rolled %q forward to %s", current.Name, current.ExpiresAt)
		}

		if !renewal.IsDueForReminder(current.ExpiresAt, current.LeadDays, today) {
			continue
		}

		converted, known := sw.converter.Convert(current.Amount, current.Currency)
		var homeAmount *decimal.Decimal
		if known {
			homeAmount = &converted
		}
		left := today.DaysUntil(current.ExpiresAt)

		msg := notify.RenderReminder(current, homeAmount, sw.converter.Home(), left)
		sw.dispatcher.Notify(ctx, msg)
		reminders++
	}

	sw.metrics.ObserveSweepDuration(time.Since(start))
	sw.logger.Infof(providers.TypeApp, "Sweep finished: %d reminders dispatched in %s", reminders, time.Since(start))
	return ctx.Err()
}
