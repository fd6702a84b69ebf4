package handlers

import (
	"context"
	"net/http"

	"dd-planner/internal/api/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// StreamSimulation handles GET /api/v1/simulations/stream.
// The client sends one SimulationRequest; the server answers with progress frames
// and a final result or error frame, then closes.
func (h *SimulationHandler) StreamSimulation(upgrader *websocket.Upgrader) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the HTTP error.
			h.log.WithError(err).Warn("websocket upgrade failed")
			return
		}
		defer conn.Close()

		var req models.SimulationRequest
		if err := conn.ReadJSON(&req); err != nil {
			h.sendError(conn, models.ErrorDetail{Code: models.CodeInvalidRequest, Message: err.Error()})
			return
		}

		name, sim, err := h.resolve(req.Preset, req.Overrides())
		if err != nil {
			_, detail := errorDetail(err)
			h.sendError(conn, detail)
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()
		// Any further read (including a close frame) means the client went away.
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.NextReader(); err != nil {
					return
				}
			}
		}()

		// Progress calls are serialized by the engine and finish before RunBatch returns,
		// so this is the only writer until the final frame.
		progress := func(done, total int) {
			if err := conn.WriteJSON(models.StreamMessage{Type: "progress", Done: done, Total: total}); err != nil {
				cancel()
			}
		}

		entry, err := h.run(ctx, name, sim, progress)
		if err != nil {
			if ctx.Err() != nil {
				h.log.WithError(err).Debug("stream client disconnected")
				return
			}
			_, detail := errorDetail(err)
			h.sendError(conn, detail)
			return
		}

		resp := buildResponse(entry, req.IncludeSeries)
		if err := conn.WriteJSON(models.StreamMessage{Type: "result", Result: &resp}); err != nil {
			h.log.WithError(err).Warn("write stream result")
			return
		}
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
}

func (h *SimulationHandler) sendError(conn *websocket.Conn, detail models.ErrorDetail) {
	if err := conn.WriteJSON(models.StreamMessage{Type: "error", Error: &detail}); err != nil {
		h.log.WithError(err).Warn("write stream error")
	}
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// NewUpgrader returns a websocket upgrader that accepts the given origins ("*" for any).
func NewUpgrader(allowedOrigins []string) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, o := range allowedOrigins {
				if o == "*" || o == origin {
					return true
				}
			}
			return false
		},
	}
}
