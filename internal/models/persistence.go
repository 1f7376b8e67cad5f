package models

import "time"

// SnapshotVersion identifies the on-disk envelope layout.
const SnapshotVersion = 1

// Snapshot is the persistence envelope written by the file manager: the full
// record set plus the last known rate snapshot, so conversions survive a
// restart even if the first refresh of the day fails.
type Snapshot struct {
	Version       int             `json:"version"`
	Subscriptions []*Subscription `json:"subscriptions"`
	Rates         *RateSnapshot   `json:"rates,omitempty"`
	SavedAt       time.Time       `json:"saved_at"`
}
