// Package store defines the storage interface and implementations.
package store

import (
	"context"

	"github.com/inkwell/orchestrator/internal/domain"
)

// Store defines the interface for data persistence.
type Store interface {
	// Book operations
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, bookID string) (*domain.Book, error)
	UpdateBookStatus(ctx context.Context, bookID string, status domain.BookStatus) error
	UpdateBookCompleted(ctx context.Context, bookID string, content []byte) error
	UpdateBookFailed(ctx context.Context, bookID string, reason string) error

	// Generation cache operations
	PutCacheEntry(ctx context.Context, entry *domain.CacheEntry) error
	GetCacheEntry(ctx context.Context, fingerprint string, stage domain.StageKind, minScore float64) (*domain.CacheEntry, error)
	DeleteExpiredCache(ctx context.Context) (int64, error)

	// Analytics operations
	CreateAnalyticsEvent(ctx context.Context, event *domain.AnalyticsEvent) error
	CountAnalyticsEvents(ctx context.Context, bookID string, metric domain.MetricType) (int, error)

	// Lifecycle
	Close() error
}

// Ensure SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)
