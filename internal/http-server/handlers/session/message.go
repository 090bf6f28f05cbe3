package session

import (
	"FlowCS/entity"
	"FlowCS/internal/lib/api/response"
	"FlowCS/internal/lib/sl"
	"encoding/json"
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"log/slog"
	"net/http"
)

type MessageRequest struct {
	Message string `json:"message" validate:"required"`
}

type MessageResponse struct {
	Replies []string            `json:"replies"`
	Session entity.SessionState `json:"session"`
}

var validate = validator.New()

// Message runs one user turn against an existing session.
func Message(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.session"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		sessionID := chi.URLParam(r, "id")

		var req MessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("No message provided"))
			return
		}

		logger = logger.With(slog.String("session_id", sessionID))

		replies, state, err := handler.PostMessage(r.Context(), sessionID, req.Message)
		if err != nil {
			logger.Error("post message", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(fmt.Sprintf("Turn failed: %v", err)))
			return
		}

		logger.Debug("turn processed", slog.String("state", state.State))
		render.JSON(w, r, response.Ok(MessageResponse{Replies: replies, Session: state}))
	}
}
