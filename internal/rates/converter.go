package rates

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"go.uber.org/atomic"

	"renewalpulse/internal/models"
	"renewalpulse/internal/providers"
	"renewalpulse/internal/structures"
)

type ConverterInterface interface {
	Refresh(ctx context.Context) error
	Convert(amount decimal.Decimal, from string) (decimal.Decimal, bool)
	Snapshot() *models.RateSnapshot
	Put(snap *models.RateSnapshot)
	Home() string
}

// Converter holds the latest rate snapshot behind an atomic pointer: readers
// never block, and a failed refresh leaves the previous snapshot untouched.
type Converter struct {
	conf   *structures.Config
	logger providers.Logger
	client *http.Client
	snap   atomic.Pointer[models.RateSnapshot]
}

func NewConverter(conf *structures.Config, logger providers.Logger) ConverterInterface {
	timeout := conf.Rates.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Converter{
		conf:   conf,
		logger: logger,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *Converter) Home() string {
	return strings.ToUpper(c.conf.Rates.HomeCurrency)
}

func (c *Converter) Snapshot() *models.RateSnapshot {
	return c.snap.Load()
}

// Put installs a snapshot restored from persistence. A live snapshot from an
// earlier refresh wins over the persisted one.
func (c *Converter) Put(snap *models.RateSnapshot) {
	if snap == nil || c.snap.Load() != nil {
		return
	}
	c.snap.Store(snap)
}

// ratePayload accepts both response dialects of the common free rate APIs:
// {"base_code": "...", "rates": {...}} and {"base": "...", "conversion_rates": {...}}.
type ratePayload struct {
	Base            string             `json:"base"`
	BaseCode        string             `json:"base_code"`
	Rates           map[string]float64 `json:"rates"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// Refresh performs one fetch and replaces the snapshot wholesale on success.
// On any failure the previous snapshot stays authoritative and the error is
// returned for logging; the next scheduled refresh is the only retry.
func (c *Converter) Refresh(ctx context.Context) error {
	url := c.conf.Rates.ApiUrl
	if url == "" {
		return fmt.Errorf("rates: no api url configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("rates: build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("rates: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rates: fetch: unexpected status %d", resp.StatusCode)
	}

	var payload ratePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("rates: decode response: %w", err)
	}

	snap, err := c.normalize(&payload)
	if err != nil {
		return err
	}

	c.snap.Store(snap)
	c.logger.Infof(providers.TypeApp, "Exchange rates refreshed: %d currencies against %s", len(snap.Rates), snap.Home)
	return nil
}

// normalize converts whatever base the API quotes against into
// rate-to-home-currency per foreign unit.
func (c *Converter) normalize(payload *ratePayload) (*models.RateSnapshot, error) {
	quotes := payload.Rates
	if len(quotes) == 0 {
		quotes = payload.ConversionRates
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("rates: response carries no rates")
	}

	home := c.Home()
	base := strings.ToUpper(payload.BaseCode)
	if base == "" {
		base = strings.ToUpper(payload.Base)
	}
	if base == "" {
		base = home
	}

	homePerBase := decimal.NewFromInt(1)
	if base != home {
		v, ok := quotes[home]
		if !ok || v == 0 {
			return nil, fmt.Errorf("rates: response lacks a %s quote", home)
		}
		homePerBase = decimal.NewFromFloat(v)
	}

	rates := make(map[string]decimal.Decimal, len(quotes))
	for code, v := range quotes {
		if v == 0 {
			continue
		}
		code = strings.ToUpper(code)
		if code == home {
			rates[code] = decimal.NewFromInt(1)
			continue
		}
		// quotes are base→currency; invert into currency→home
		rates[code] = homePerBase.Div(decimal.NewFromFloat(v))
	}

	return &models.RateSnapshot{
		Home:      home,
		Rates:     rates,
		FetchedAt: time.Now().UTC(),
	}, nil
}

// Convert multiplies into the home currency using the current snapshot. The
// second return is false when no usable rate exists; the amount then comes
// back unchanged and the caller decides how to surface the stale value.
func (c *Converter) Convert(amount decimal.Decimal, from string) (decimal.Decimal, bool) {
	from = strings.ToUpper(strings.TrimSpace(from))
	if from == c.Home() {
		return amount, true
	}
	rate, ok := c.Snapshot().RateFor(from)
	if !ok {
		return amount, false
	}
	return amount.Mul(rate), true
}
