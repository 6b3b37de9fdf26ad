package v1

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"

	"github.com/inkwell/orchestrator/internal/domain"
	"github.com/inkwell/orchestrator/internal/service"
)

// CreateBook creates a new draft book.
// POST /v1/books
func (h *Handler) CreateBook(c echo.Context) error {
	var req service.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	book, err := h.service.CreateBook(c.Request().Context(), req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, book)
}

// GetBook retrieves a book.
// GET /v1/books/:book_id
func (h *Handler) GetBook(c echo.Context) error {
	book, err := h.service.GetBook(c.Request().Context(), c.Param("book_id"))
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "book not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, book)
}

// GenerateBook starts the generation pipeline for a book.
// POST /v1/books/:book_id/generate
func (h *Handler) GenerateBook(c echo.Context) error {
	bookID := c.Param("book_id")
	runID, err := h.service.StartGeneration(c.Request().Context(), bookID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "book not found"})
		case errors.Is(err, service.ErrAlreadyGenerating):
			return c.JSON(http.StatusConflict, map[string]string{"error": "generation already in progress"})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
	}

	return c.JSON(http.StatusAccepted, map[string]string{
		"book_id": bookID,
		"run_id":  runID,
	})
}

// GetBookStatus returns the polling status view of a book.
// GET /v1/books/:book_id/status
func (h *Handler) GetBookStatus(c echo.Context) error {
	view, err := h.service.GetBookStatus(c.Request().Context(), c.Param("book_id"))
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "book not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, view)
}

// ExportBook renders a completed book's content.
// GET /v1/books/:book_id/export?format=html|markdown
func (h *Handler) ExportBook(c echo.Context) error {
	book, err := h.service.GetBook(c.Request().Context(), c.Param("book_id"))
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "book not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if book.Status != domain.BookStatusCompleted || len(book.Content) == 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "book is not completed"})
	}

	var content domain.BookContent
	if err := json.Unmarshal(book.Content, &content); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "stored content is corrupt"})
	}

	if c.QueryParam("format") == "markdown" {
		return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(content.Content))
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(content.Content), &buf); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to render content"})
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}
