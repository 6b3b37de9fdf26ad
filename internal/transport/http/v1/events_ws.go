package v1

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/inkwell/orchestrator/internal/eventbus"
	"github.com/inkwell/orchestrator/internal/service"
)

var upgrader = websocket.Upgrader{
	// Browser clients connect cross-origin from the web UI.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamBookEventsWS streams run snapshots for a book over a websocket.
// GET /v1/books/:book_id/events/ws
//
// Same feed as the SSE endpoint: JSON snapshots as text frames, `{}` as the
// idle keep-alive, connection closed after the terminal snapshot.
func (h *Handler) StreamBookEventsWS(c echo.Context) error {
	bookID := c.Param("book_id")

	if _, err := h.service.GetBook(c.Request().Context(), bookID); err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "book not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get book"})
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	// Read pump: we never expect client frames, but reading is the only
	// way to notice the peer going away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	sub := h.service.Bus().Subscribe(bookID)
	defer h.service.Bus().Unsubscribe(bookID, sub)

	for {
		snapshot, err := sub.Next(ctx, h.idleTimeout)
		switch {
		case err == nil:
			if err := conn.WriteJSON(snapshot); err != nil {
				return nil
			}
			if snapshot.Terminal() {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "run finished"))
				return nil
			}
		case errors.Is(err, eventbus.ErrIdleTimeout):
			if err := conn.WriteMessage(websocket.TextMessage, []byte("{}")); err != nil {
				return nil
			}
		default:
			if !errors.Is(err, context.Canceled) {
				log.Printf("WARN: websocket stream for book %s ended: %v", bookID, err)
			}
			return nil
		}
	}
}
