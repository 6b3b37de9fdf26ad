package domain

import "time"

// CacheEntry is one content-addressed generation result. Entries are
// immutable snapshots; the newest admissible entry wins on read.
type CacheEntry struct {
	Fingerprint string    `json:"fingerprint"`
	Stage       StageKind `json:"stage"`
	Output      string    `json:"output"`
	Score       float64   `json:"score"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}
