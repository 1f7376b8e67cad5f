package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Channel string

const (
	ChannelTelegram Channel = "telegram"
	ChannelEmail    Channel = "email"
)

func ParseChannel(s string) (Channel, bool) {
	switch Channel(s) {
	case ChannelTelegram:
		return ChannelTelegram, true
	case ChannelEmail:
		return ChannelEmail, true
	}
	// short forms kept for muscle memory from other tools
	switch s {
	case "tg":
		return ChannelTelegram, true
	case "mail":
		return ChannelEmail, true
	}
	return "", false
}

// Outcome is the per-channel result of one delivery attempt. Failures carry
// the reason string; there is no retry inside a dispatch call.
type Outcome struct {
	Channel   Channel   `json:"channel"`
	Delivered bool      `json:"delivered"`
	Reason    string    `json:"reason,omitempty"`
	SentAt    time.Time `json:"sent_at"`
}

// Message is a rendered notification, ready for any channel.
type Message struct {
	SubscriptionID uuid.UUID
	Subscription   string
	Subject        string
	Body           string
}

// Sender delivers a message over one concrete channel.
type Sender interface {
	Channel() Channel
	Send(ctx context.Context, msg Message) error
}
