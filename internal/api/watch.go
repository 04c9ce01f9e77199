package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/vocamed/scriba/usecase"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Origin checks are handled by the surrounding deployment
	},
}

const watchPollInterval = time.Second

// watchStatus streams the status of one stage of a document over a
// WebSocket, pushing an update whenever it changes and closing once the
// stage reaches a terminal state. This mirrors the live status display of
// the caller-facing UI without it having to poll the REST endpoints.
func (h *Handler) watchStatus(c echo.Context) error {
	documentID := c.Param("id")
	stage := c.QueryParam("stage")
	if stage != "record" {
		stage = "transcript"
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("Failed to upgrade status watch connection", zap.Error(err))
		return err
	}
	defer conn.Close()

	// Drain client frames so closes are noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(watchPollInterval)
	defer ticker.Stop()

	ctx := c.Request().Context()
	var last *usecase.StageStatusView
	for {
		view, err := h.stageView(c, documentID, stage)
		if err != nil {
			h.logger.Error("Status watch query failed",
				zap.String("documentID", documentID), zap.Error(err))
			return nil
		}
		if view == nil {
			conn.WriteJSON(ErrorResponse{Error: "not_found", Message: "Document not found"})
			return nil
		}

		if last == nil || view.Status != last.Status || !view.LastModifiedAt.Equal(last.LastModifiedAt) {
			if err := conn.WriteJSON(view); err != nil {
				return nil
			}
			last = view
		}

		if view.Status.IsTerminal() {
			return nil
		}

		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (h *Handler) stageView(c echo.Context, documentID, stage string) (*usecase.StageStatusView, error) {
	if stage == "record" {
		return h.documents.ExtractionStatus(c.Request().Context(), documentID)
	}
	return h.documents.TranscriptStatus(c.Request().Context(), documentID)
}
