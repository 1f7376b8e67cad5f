package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"renewalpulse/internal/structures"
)

// TelegramSender delivers via the Bot API sendMessage call: one POST per
// notification, no session state.
type TelegramSender struct {
	apiUrl   string
	botToken string
	chatID   string
	client   *http.Client
}

func NewTelegramSender(conf *structures.Config) *TelegramSender {
	timeout := conf.Notify.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	apiUrl := conf.Notify.Telegram.ApiUrl
	if apiUrl == "" {
		apiUrl = "https://api.telegram.org"
	}
	return &TelegramSender{
		apiUrl:   apiUrl,
		botToken: conf.Notify.Telegram.BotToken,
		chatID:   conf.Notify.Telegram.ChatID,
		client:   &http.Client{Timeout: timeout},
	}
}

func (t *TelegramSender) Channel() Channel {
	return ChannelTelegram
}

func (t *TelegramSender) Send(ctx context.Context, msg Message) error {
	if t.botToken == "" || t.chatID == "" {
		return fmt.Errorf("telegram: missing bot token or chat id")
	}

	body, err := json.Marshal(map[string]string{
		"chat_id": t.chatID,
		"text":    msg.Body,
	})
	if err != nil {
		return fmt.Errorf("telegram: encode payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiUrl, t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("telegram: send: status %d: %s", resp.StatusCode, snippet)
	}
	return nil
}
