package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/inkwell/orchestrator/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS books (
			book_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			genre TEXT NOT NULL DEFAULT '',
			target_audience TEXT NOT NULL DEFAULT '',
			style TEXT NOT NULL DEFAULT '',
			tone TEXT NOT NULL DEFAULT '',
			length TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			content TEXT,
			error TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_books_status ON books(status, created_at)`,
		`CREATE TABLE IF NOT EXISTS generation_cache (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			fingerprint TEXT NOT NULL,
			stage TEXT NOT NULL,
			output TEXT NOT NULL,
			score REAL NOT NULL,
			created_at DATETIME NOT NULL,
			expires_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cache_key ON generation_cache(fingerprint, stage, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_cache_expiry ON generation_cache(expires_at)`,
		`CREATE TABLE IF NOT EXISTS analytics_events (
			event_id TEXT PRIMARY KEY,
			book_id TEXT NOT NULL,
			run_id TEXT NOT NULL,
			stage TEXT NOT NULL,
			metric TEXT NOT NULL,
			value REAL NOT NULL,
			detail TEXT,
			ts INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analytics_book ON analytics_events(book_id, ts)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	// Add new columns for existing DBs (SQLite has limited ALTER TABLE support).
	if err := s.ensureColumn("books", "error", "ALTER TABLE books ADD COLUMN error TEXT"); err != nil {
		return err
	}

	return nil
}

func (s *SQLiteStore) ensureColumn(tableName, columnName, ddl string) error {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", tableName))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull int
		var dfltValue sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return err
		}
		if name == columnName {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	_, err = s.db.Exec(ddl)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateBook creates a new book.
func (s *SQLiteStore) CreateBook(ctx context.Context, book *domain.Book) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO books (book_id, title, description, genre, target_audience, style, tone, length, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.BookID, book.Title, book.Description, book.Genre, book.TargetAudience,
		book.Style, book.Tone, book.Length, book.Status, book.CreatedAt, book.UpdatedAt)
	return err
}

// GetBook retrieves a book by ID.
func (s *SQLiteStore) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	var book domain.Book
	var content, errMsg sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT book_id, title, description, genre, target_audience, style, tone, length, status, content, error, created_at, updated_at
		 FROM books WHERE book_id = ?`,
		bookID).Scan(&book.BookID, &book.Title, &book.Description, &book.Genre, &book.TargetAudience,
		&book.Style, &book.Tone, &book.Length, &book.Status, &content, &errMsg, &book.CreatedAt, &book.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if content.Valid {
		book.Content = []byte(content.String)
	}
	if errMsg.Valid {
		book.Error = errMsg.String
	}
	return &book, nil
}

// UpdateBookStatus updates the status of a book.
func (s *SQLiteStore) UpdateBookStatus(ctx context.Context, bookID string, status domain.BookStatus) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE books SET status = ?, updated_at = ? WHERE book_id = ?`,
		status, time.Now(), bookID)
	return err
}

// UpdateBookCompleted marks a book completed with its final content.
func (s *SQLiteStore) UpdateBookCompleted(ctx context.Context, bookID string, content []byte) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE books SET status = ?, content = ?, error = NULL, updated_at = ? WHERE book_id = ?`,
		domain.BookStatusCompleted, string(content), time.Now(), bookID)
	return err
}

// UpdateBookFailed marks a book failed with a human-readable reason.
func (s *SQLiteStore) UpdateBookFailed(ctx context.Context, bookID string, reason string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE books SET status = ?, error = ?, updated_at = ? WHERE book_id = ?`,
		domain.BookStatusFailed, reason, time.Now(), bookID)
	return err
}

// PutCacheEntry inserts a cache entry. Admission policy is the caller's
// concern; the store persists whatever it is given.
func (s *SQLiteStore) PutCacheEntry(ctx context.Context, entry *domain.CacheEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generation_cache (fingerprint, stage, output, score, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Fingerprint, entry.Stage, entry.Output, entry.Score, entry.CreatedAt, entry.ExpiresAt)
	return err
}

// GetCacheEntry returns the newest non-expired entry for (fingerprint,
// stage) with score at or above minScore, or nil on miss.
func (s *SQLiteStore) GetCacheEntry(ctx context.Context, fingerprint string, stage domain.StageKind, minScore float64) (*domain.CacheEntry, error) {
	var entry domain.CacheEntry
	err := s.db.QueryRowContext(ctx,
		`SELECT fingerprint, stage, output, score, created_at, expires_at
		 FROM generation_cache
		 WHERE fingerprint = ? AND stage = ? AND expires_at > ? AND score >= ?
		 ORDER BY created_at DESC, id DESC LIMIT 1`,
		fingerprint, stage, time.Now(), minScore).Scan(
		&entry.Fingerprint, &entry.Stage, &entry.Output, &entry.Score, &entry.CreatedAt, &entry.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteExpiredCache purges expired cache entries and reports how many rows
// were removed. Correctness never depends on this running.
func (s *SQLiteStore) DeleteExpiredCache(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM generation_cache WHERE expires_at <= ?`, time.Now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CreateAnalyticsEvent appends one analytics event.
func (s *SQLiteStore) CreateAnalyticsEvent(ctx context.Context, event *domain.AnalyticsEvent) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analytics_events (event_id, book_id, run_id, stage, metric, value, detail, ts)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.EventID, event.BookID, event.RunID, event.Stage, event.Metric, event.Value, event.Detail, event.Ts)
	return err
}

// CountAnalyticsEvents reports how many events of a metric type exist for a
// book. Used by tests and ops tooling, not the pipeline.
func (s *SQLiteStore) CountAnalyticsEvents(ctx context.Context, bookID string, metric domain.MetricType) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM analytics_events WHERE book_id = ? AND metric = ?`,
		bookID, metric).Scan(&n)
	return n, err
}
