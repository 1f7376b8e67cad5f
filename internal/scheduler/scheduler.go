package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/roylee0704/gron"
	"github.com/roylee0704/gron/xtime"
	"go.uber.org/atomic"

	"renewalpulse/internal/providers"
	"renewalpulse/internal/rates"
	"renewalpulse/internal/scheduler/interfaces"
	"renewalpulse/internal/structures"
)

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	converter   rates.ConverterInterface
	sweeper     *Sweeper
	fileManager *FileManager
	cron        *gron.Cron
	opsMu       sync.Mutex
	sweeping    atomic.Bool
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	interval := s.config.Persistence.SaveInterval

	s.cron.AddFunc(gron.Every(interval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
		if err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
			return
		}
		s.logger.Infof(providers.TypeApp, "Persisted data to file %s", s.config.Persistence.FilePath)
	})

	s.cron.AddFunc(gron.Every(1*xtime.Day).At(s.config.Reminder.SweepAt), func() {
		if err := s.SweepNow(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Reminder sweep failed: %s", err)
		}
	})

	s.cron.AddFunc(gron.Every(1*xtime.Day).At(s.config.Rates.RefreshAt), func() {
		if err := s.RefreshRatesNow(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Rate refresh failed: %s", err)
		}
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// SweepNow runs one reminder pass immediately. Overlapping passes are
// skipped rather than queued; a sweep takes far less than a day, a skip
// only happens when triggered by hand during the scheduled run.
func (s *Scheduler) SweepNow() error {
	if !s.sweeping.CompareAndSwap(false, true) {
		s.logger.Warnf(providers.TypeApp, "Sweep already running, skipping")
		return nil
	}
	defer s.sweeping.Store(false)

	s.logger.Infof(providers.TypeApp, "Starting reminder sweep...")
	return s.sweeper.Run(context.Background())
}

func (s *Scheduler) RefreshRatesNow() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.converter.Refresh(ctx)
	s.metrics.IncRateRefresh(err == nil)
	return err
}

// Restore loads the snapshot from disk and, when no rate table survived it,
// fetches a fresh one so conversions work on first start.
func (s *Scheduler) Restore() error {
	if err := s.fileManager.LoadFromFile(s.config.Persistence.FilePath); err != nil {
		return err
	}
	if s.converter.Snapshot() == nil {
		if err := s.RefreshRatesNow(); err != nil {
			s.logger.Warnf(providers.TypeApp, "Initial rate fetch failed, conversions unavailable until next refresh: %s", err)
		}
	}
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting records to file...")
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, converter rates.ConverterInterface, sweeper *Sweeper, fileManager *FileManager) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		metrics:     metrics,
		converter:   converter,
		sweeper:     sweeper,
		fileManager: fileManager,
	}
}
