package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"renewalpulse/internal/models"
	"renewalpulse/internal/notify"
	"renewalpulse/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu            sync.Mutex
	Requests      int
	CacheHits     int
	CacheMisses   int
	Reminders     map[string]int // "channel:ok" / "channel:fail"
	RateRefreshes map[bool]int
	RolledForward int
	Sweeps        int
	Persists      int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Reminders:     make(map[string]int),
		RateRefreshes: make(map[bool]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(string, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(string, time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) IncReminder(channel string, delivered bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := channel + ":fail"
	if delivered {
		key = channel + ":ok"
	}
	m.Reminders[key]++
}
func (m *MockMetrics) IncRateRefresh(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RateRefreshes[success]++
}
func (m *MockMetrics) IncRolledForward() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RolledForward++
}
func (m *MockMetrics) ObserveSweepDuration(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sweeps++
}
func (m *MockMetrics) ObservePersistenceDuration(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persists++
}

// MockConverter implements rates.ConverterInterface over a fixed rate table.
type MockConverter struct {
	mu         sync.Mutex
	HomeCode   string
	Rates      map[string]decimal.Decimal
	RefreshErr error
	Refreshes  int
	snap       *models.RateSnapshot
}

func NewMockConverter(home string, rates map[string]decimal.Decimal) *MockConverter {
	return &MockConverter{HomeCode: home, Rates: rates}
}

func (m *MockConverter) Refresh(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Refreshes++
	return m.RefreshErr
}

func (m *MockConverter) Convert(amount decimal.Decimal, from string) (decimal.Decimal, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	from = strings.ToUpper(from)
	if from == m.HomeCode {
		return amount, true
	}
	rate, ok := m.Rates[from]
	if !ok {
		return amount, false
	}
	return amount.Mul(rate), true
}

func (m *MockConverter) Snapshot() *models.RateSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

func (m *MockConverter) Put(snap *models.RateSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		m.snap = snap
	}
}

func (m *MockConverter) Home() string {
	return m.HomeCode
}

// MockDispatcher implements notify.DispatcherInterface and records messages.
type MockDispatcher struct {
	mu       sync.Mutex
	Messages []notify.Message
	Outcome  notify.Outcome
}

func (m *MockDispatcher) Notify(_ context.Context, msg notify.Message) map[notify.Channel]notify.Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, msg)
	return map[notify.Channel]notify.Outcome{m.Outcome.Channel: m.Outcome}
}

func (m *MockDispatcher) TestChannel(_ context.Context, ch notify.Channel) notify.Outcome {
	out := m.Outcome
	out.Channel = ch
	return out
}

func (m *MockDispatcher) Channels() []notify.Channel {
	return []notify.Channel{notify.ChannelTelegram}
}

func (m *MockDispatcher) History() []notify.LogEntry {
	return nil
}

func (m *MockDispatcher) Sent() []notify.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]notify.Message, len(m.Messages))
	copy(out, m.Messages)
	return out
}

// MockScheduler implements interfaces.SchedulerInterface.
type MockScheduler struct {
	mu            sync.Mutex
	Inits         int
	Stops         int
	Restores      int
	Persists      int
	Sweeps        int
	RateRefreshes int
	RefreshErr    error
}

func (m *MockScheduler) Init() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Inits++
}
func (m *MockScheduler) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stops++
}
func (m *MockScheduler) Restore() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Restores++
	return nil
}
func (m *MockScheduler) Persist() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persists++
	return nil
}
func (m *MockScheduler) SweepNow() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sweeps++
	return nil
}
func (m *MockScheduler) RefreshRatesNow() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RateRefreshes++
	return m.RefreshErr
}
