package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/inkwell/orchestrator/internal/domain"
)

func TestStreamBookEventsNotFound(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/books/book_missing/events/stream", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("book_id")
	c.SetParamValues("book_missing")

	if err := h.StreamBookEvents(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestStreamBookEventsDeliversSnapshotsUntilTerminal(t *testing.T) {
	e := echo.New()
	h, svc := newTestHandler(t)
	bookID := createBookViaAPI(t, e, h)

	req := httptest.NewRequest(http.MethodGet, "/v1/books/"+bookID+"/events/stream", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("book_id")
	c.SetParamValues(bookID)

	done := make(chan error, 1)
	go func() {
		done <- h.StreamBookEvents(c)
	}()

	// Wait for the handler's subscription before publishing.
	deadline := time.Now().Add(2 * time.Second)
	for svc.Bus().SubscriberCount(bookID) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("handler never subscribed")
		}
		time.Sleep(time.Millisecond)
	}

	running := domain.NewRunState("run_1", bookID)
	svc.Bus().Publish(bookID, running.Snapshot())

	terminal := domain.NewRunState("run_1", bookID)
	terminal.Status = domain.RunStatusDone
	terminal.FinalContent = "finished prose"
	svc.Bus().Publish(bookID, terminal.Snapshot())

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("handler error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not finish after terminal snapshot")
	}

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type: %s", ct)
	}

	body := rec.Body.String()
	frames := strings.Count(body, "data: ")
	if frames < 2 {
		t.Fatalf("expected at least 2 SSE frames, got %d:\n%s", frames, body)
	}
	if !strings.Contains(body, `"status":"running"`) {
		t.Fatalf("missing running snapshot:\n%s", body)
	}
	if !strings.Contains(body, `"status":"done"`) {
		t.Fatalf("missing terminal snapshot:\n%s", body)
	}
	if !strings.Contains(body, `"final_content":"finished prose"`) {
		t.Fatalf("terminal snapshot missing final content:\n%s", body)
	}
}

func TestStreamBookEventsIdleKeepAlive(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)
	bookID := createBookViaAPI(t, e, h)

	req := httptest.NewRequest(http.MethodGet, "/v1/books/"+bookID+"/events/stream", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("book_id")
	c.SetParamValues(bookID)

	// Idle timeout is 50ms; with nothing published the handler emits
	// keep-alives until the request context expires.
	if err := h.StreamBookEvents(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if !strings.Contains(rec.Body.String(), "data: {}") {
		t.Fatalf("expected keep-alive frames, got:\n%s", rec.Body.String())
	}
}
