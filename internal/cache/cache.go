// Package cache implements the content-addressed result cache for stage
// outputs. Cache unavailability degrades to misses and dropped writes,
// never to pipeline errors.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"time"

	"github.com/inkwell/orchestrator/internal/domain"
	store "github.com/inkwell/orchestrator/internal/repository"
	"github.com/inkwell/orchestrator/policy"
)

// ResultCache maps (input fingerprint, stage kind) to high-scoring outputs
// with a freshness window. Admission is decided by the content policy on
// write and re-checked on read.
type ResultCache struct {
	store     store.Store
	policy    *policy.Engine
	ttl       time.Duration
	threshold float64
}

// New creates a ResultCache. threshold is the minimum admissible score and
// is also enforced at read time independent of write-time admission.
func New(st store.Store, engine *policy.Engine, ttl time.Duration, threshold float64) *ResultCache {
	return &ResultCache{store: st, policy: engine, ttl: ttl, threshold: threshold}
}

// Fingerprint derives the stable cache key for a stage input. Identical
// inputs for the same stage map to the same key regardless of run.
func Fingerprint(input string, stage domain.StageKind) string {
	h := sha256.New()
	h.Write([]byte(stage))
	h.Write([]byte{0})
	h.Write([]byte(input))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the newest fresh, admissible output for (input, stage).
// Any store or policy failure is logged and reported as a miss.
func (c *ResultCache) Get(ctx context.Context, input string, stage domain.StageKind) (string, float64, bool) {
	entry, err := c.store.GetCacheEntry(ctx, Fingerprint(input, stage), stage, c.threshold)
	if err != nil {
		log.Printf("WARN: cache read failed for stage %s: %v", stage, err)
		return "", 0, false
	}
	if entry == nil {
		return "", 0, false
	}

	admit, err := c.policy.Admit(ctx, string(stage), entry.Score, len(entry.Output))
	if err != nil {
		log.Printf("WARN: cache admission check failed on read: %v", err)
		return "", 0, false
	}
	if !admit {
		return "", 0, false
	}
	return entry.Output, entry.Score, true
}

// Put writes through an output. Outputs the content policy rejects are
// silently dropped; store failures are logged and dropped.
func (c *ResultCache) Put(ctx context.Context, input string, stage domain.StageKind, output string, score float64) {
	admit, err := c.policy.Admit(ctx, string(stage), score, len(output))
	if err != nil {
		log.Printf("WARN: cache admission check failed on write: %v", err)
		return
	}
	if !admit {
		return
	}

	now := time.Now()
	entry := &domain.CacheEntry{
		Fingerprint: Fingerprint(input, stage),
		Stage:       stage,
		Output:      output,
		Score:       score,
		CreatedAt:   now,
		ExpiresAt:   now.Add(c.ttl),
	}
	if err := c.store.PutCacheEntry(ctx, entry); err != nil {
		log.Printf("WARN: cache write failed for stage %s: %v", stage, err)
	}
}

// CleanupExpired purges expired entries. Expired entries are never served
// whether or not this runs.
func (c *ResultCache) CleanupExpired(ctx context.Context) {
	n, err := c.store.DeleteExpiredCache(ctx)
	if err != nil {
		log.Printf("WARN: cache cleanup failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("INFO: cache cleanup removed %d expired entries", n)
	}
}
