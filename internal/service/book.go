package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell/orchestrator/internal/domain"
)

// CreateBookRequest carries the user-supplied book parameters.
type CreateBookRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Genre          string `json:"genre"`
	TargetAudience string `json:"target_audience"`
	Style          string `json:"style"`
	Tone           string `json:"tone"`
	Length         string `json:"length"`
}

// CreateBook persists a new draft book.
func (s *Service) CreateBook(ctx context.Context, req CreateBookRequest) (*domain.Book, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	now := time.Now()
	book := &domain.Book{
		BookID:         "book_" + uuid.New().String()[:8],
		Title:          req.Title,
		Description:    req.Description,
		Genre:          req.Genre,
		TargetAudience: req.TargetAudience,
		Style:          req.Style,
		Tone:           req.Tone,
		Length:         req.Length,
		Status:         domain.BookStatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	return book, nil
}

// GetBook retrieves a book by ID.
func (s *Service) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	return book, nil
}

// BookStatusView is the polling view of a book: content is only exposed
// once generation completed.
type BookStatusView struct {
	BookID  string            `json:"book_id"`
	Status  domain.BookStatus `json:"status"`
	Content interface{}       `json:"content,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// GetBookStatus returns the status view for a book.
func (s *Service) GetBookStatus(ctx context.Context, bookID string) (*BookStatusView, error) {
	book, err := s.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	view := &BookStatusView{BookID: book.BookID, Status: book.Status, Error: book.Error}
	if book.Status == domain.BookStatusCompleted && len(book.Content) > 0 {
		view.Content = book.Content
	}
	return view, nil
}

// StartGeneration launches the pipeline for a book and returns the run ID.
// The run proceeds asynchronously; progress is observable on the event bus
// and through the book's persisted status.
func (s *Service) StartGeneration(ctx context.Context, bookID string) (string, error) {
	book, err := s.GetBook(ctx, bookID)
	if err != nil {
		return "", err
	}
	if book.Status == domain.BookStatusGenerating {
		return "", ErrAlreadyGenerating
	}

	if err := s.store.UpdateBookStatus(ctx, bookID, domain.BookStatusGenerating); err != nil {
		return "", fmt.Errorf("failed to mark book generating: %w", err)
	}

	runID := "run_" + uuid.New().String()[:8]
	go s.runPipeline(runID, book)

	return runID, nil
}
