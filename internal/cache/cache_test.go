package cache

import (
	"context"
	"testing"
	"time"

	"github.com/inkwell/orchestrator/internal/domain"
	store "github.com/inkwell/orchestrator/internal/repository"
	"github.com/inkwell/orchestrator/policy"
	"github.com/inkwell/orchestrator/tests/helpers"
)

func newTestCache(t *testing.T) (*ResultCache, *store.SQLiteStore) {
	t.Helper()
	st := helpers.NewTestSQLiteStore(t)
	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("failed to create policy engine: %v", err)
	}
	return New(st, engine, 24*time.Hour, 9.5), st
}

func TestPutAndGetRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Put(ctx, "outline for chapter 1", domain.StageWriter, "chapter text", 9.7)

	output, score, ok := c.Get(ctx, "outline for chapter 1", domain.StageWriter)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if output != "chapter text" || score != 9.7 {
		t.Fatalf("unexpected hit: output=%q score=%.1f", output, score)
	}
}

func TestPutBelowThresholdIsDropped(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Put(ctx, "outline", domain.StageWriter, "mediocre text", 9.0)

	if _, _, ok := c.Get(ctx, "outline", domain.StageWriter); ok {
		t.Fatal("score below threshold must never be admitted")
	}
}

func TestGetMissesOnDifferentInputOrStage(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Put(ctx, "outline", domain.StageWriter, "chapter text", 9.8)

	if _, _, ok := c.Get(ctx, "different outline", domain.StageWriter); ok {
		t.Fatal("different input must miss")
	}
	if _, _, ok := c.Get(ctx, "outline", domain.StageEditor); ok {
		t.Fatal("different stage must miss")
	}
}

func TestGetNeverServesExpiredEntries(t *testing.T) {
	c, st := newTestCache(t)
	ctx := context.Background()
	now := time.Now()

	// Written directly so the entry can carry a past expiry.
	entry := &domain.CacheEntry{
		Fingerprint: Fingerprint("outline", domain.StageWriter),
		Stage:       domain.StageWriter,
		Output:      "stale text",
		Score:       9.9,
		CreatedAt:   now.Add(-25 * time.Hour),
		ExpiresAt:   now.Add(-time.Hour),
	}
	if err := st.PutCacheEntry(ctx, entry); err != nil {
		t.Fatalf("PutCacheEntry failed: %v", err)
	}

	if _, _, ok := c.Get(ctx, "outline", domain.StageWriter); ok {
		t.Fatal("expired entry must never be served")
	}
}

func TestFingerprintStableAndStageScoped(t *testing.T) {
	a := Fingerprint("input", domain.StageWriter)
	b := Fingerprint("input", domain.StageWriter)
	if a != b {
		t.Fatal("fingerprint must be deterministic")
	}
	if Fingerprint("input", domain.StageEditor) == a {
		t.Fatal("fingerprint must differ across stages")
	}
	if Fingerprint("other input", domain.StageWriter) == a {
		t.Fatal("fingerprint must differ across inputs")
	}
}
