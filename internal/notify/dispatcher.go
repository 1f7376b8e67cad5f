package notify

import (
	"context"
	"fmt"
	"time"

	"renewalpulse/internal/providers"
	"renewalpulse/internal/structures"
)

type DispatcherInterface interface {
	Notify(ctx context.Context, msg Message) map[Channel]Outcome
	TestChannel(ctx context.Context, ch Channel) Outcome
	Channels() []Channel
	History() []LogEntry
}

// Dispatcher fans a rendered message out to every enabled channel. Channels
// are independent: one failing never stops the attempt on the other, and a
// failed channel is only tried again on the next sweep or explicit test.
type Dispatcher struct {
	senders []Sender
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	history *history
}

func NewDispatcher(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) DispatcherInterface {
	d := &Dispatcher{
		logger:  logger,
		metrics: metrics,
		history: newHistory(conf.Notify.HistorySize),
	}
	if conf.Notify.Telegram.Enabled {
		d.senders = append(d.senders, NewTelegramSender(conf))
	}
	if conf.Notify.Email.Enabled {
		d.senders = append(d.senders, NewEmailSender(conf))
	}
	if len(d.senders) == 0 {
		logger.Infof(providers.TypeApp, "No notification channels enabled")
	}
	return d
}

func (d *Dispatcher) Channels() []Channel {
	out := make([]Channel, 0, len(d.senders))
	for _, s := range d.senders {
		out = append(out, s.Channel())
	}
	return out
}

func (d *Dispatcher) Notify(ctx context.Context, msg Message) map[Channel]Outcome {
	outcomes := make(map[Channel]Outcome, len(d.senders))
	for _, sender := range d.senders {
		outcomes[sender.Channel()] = d.attempt(ctx, sender, msg)
	}
	return outcomes
}

func (d *Dispatcher) TestChannel(ctx context.Context, ch Channel) Outcome {
	for _, sender := range d.senders {
		if sender.Channel() == ch {
			return d.attempt(ctx, sender, RenderTest())
		}
	}
	return Outcome{
		Channel:   ch,
		Delivered: false,
		Reason:    fmt.Sprintf("channel %s is not enabled", ch),
		SentAt:    time.Now().UTC(),
	}
}

func (d *Dispatcher) History() []LogEntry {
	return d.history.list()
}

func (d *Dispatcher) attempt(ctx context.Context, sender Sender, msg Message) Outcome {
	outcome := Outcome{
		Channel:   sender.Channel(),
		Delivered: true,
		SentAt:    time.Now().UTC(),
	}
	if err := sender.Send(ctx, msg); err != nil {
		outcome.Delivered = false
		outcome.Reason = err.Error()
		d.logger.Errorf(providers.TypeApp, "Delivery over %s failed for %q: %s", sender.Channel(), msg.Subscription, err)
	} else {
		d.logger.Infof(providers.TypeApp, "Delivered %q reminder over %s", msg.Subscription, sender.Channel())
	}
	d.metrics.IncReminder(string(sender.Channel()), outcome.Delivered)
	d.history.add(LogEntry{
		SubscriptionID: msg.SubscriptionID,
		Subscription:   msg.Subscription,
		Channel:        outcome.Channel,
		Delivered:      outcome.Delivered,
		Reason:         outcome.Reason,
		SentAt:         outcome.SentAt,
	})
	return outcome
}
