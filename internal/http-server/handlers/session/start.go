package session

import (
	"FlowCS/internal/lib/api/response"
	"FlowCS/internal/lib/sl"
	"encoding/json"
	"fmt"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
)

type StartRequest struct {
	Domain string `json:"domain"`
}

type StartResponse struct {
	SessionID string   `json:"session_id"`
	Replies   []string `json:"replies"`
}

// Start opens a new dialogue session, optionally in a requested domain.
func Start(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.session"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req StartRequest
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				logger.Error("failed to decode request body", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("Invalid request body"))
				return
			}
		}

		id, replies, err := handler.StartSession(r.Context(), req.Domain)
		if err != nil {
			logger.Error("start session", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(fmt.Sprintf("Start failed: %v", err)))
			return
		}

		logger.Debug("session started", slog.String("session_id", id))
		render.JSON(w, r, response.Ok(StartResponse{SessionID: id, Replies: replies}))
	}
}
