package scheduler

import (
	"os"
	"time"

	json "github.com/goccy/go-json"

	"renewalpulse/internal/models"
	"renewalpulse/internal/providers"
	"renewalpulse/internal/rates"
	"renewalpulse/internal/scheduler/interfaces"
	"renewalpulse/internal/services"
)

// FileManager snapshots the whole in-memory state (records plus the rate
// table) into one zstd-compressed JSON file and restores it on startup.
type FileManager struct {
	service    services.SubscriptionServiceInterface
	converter  rates.ConverterInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewFileManager(compressor interfaces.CompressorInterface, service services.SubscriptionServiceInterface, converter rates.ConverterInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *FileManager {
	return &FileManager{
		compressor: compressor,
		service:    service,
		converter:  converter,
		logger:     logger,
		metrics:    metrics,
	}
}

func (f *FileManager) SaveToFile(fileName string) error {
	start := time.Now()
	snapshot := &models.Snapshot{
		Version:       models.SnapshotVersion,
		Subscriptions: f.service.Records(),
		Rates:         f.converter.Snapshot(),
		SavedAt:       time.Now().UTC(),
	}

	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	if err = os.Rename(tmpFile, fileName); err != nil {
		return err
	}
	f.metrics.ObservePersistenceDuration(time.Since(start))
	return nil
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	payload, err := f.compressor.Decompress(data)
	if err != nil {
		// files written before compression was introduced are plain JSON
		f.logger.Warnf(providers.TypeApp, "Snapshot is not compressed, trying plain JSON")
		payload = data
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(payload, &snapshot); err == nil && snapshot.Subscriptions != nil {
		f.service.Replace(snapshot.Subscriptions)
		f.converter.Put(snapshot.Rates)
		f.logger.Infof(providers.TypeApp, "Restored %d records from %s", len(snapshot.Subscriptions), fileName)
		return nil
	}

	// bare record array without the snapshot envelope
	f.logger.Warnf(providers.TypeApp, "Inconsistent DB found, try to migrate from old data format")
	var subs []*models.Subscription
	if err := json.Unmarshal(payload, &subs); err != nil {
		f.logger.Warnf(providers.TypeApp, "Migration failed")
		return err
	}
	f.service.Replace(subs)
	f.logger.Warnf(providers.TypeApp, "Migration successful, restored %d records", len(subs))
	return nil
}
