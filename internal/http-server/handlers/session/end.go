package session

import (
	"FlowCS/internal/lib/api/response"
	"FlowCS/internal/lib/sl"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
)

// End closes a session regardless of its position in the flow.
func End(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.session"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		sessionID := chi.URLParam(r, "id")
		if err := handler.EndSession(sessionID); err != nil {
			logger.Error("end session", sl.Err(err))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Session not found"))
			return
		}

		logger.Debug("session ended", slog.String("session_id", sessionID))
		render.JSON(w, r, response.Ok(nil))
	}
}
