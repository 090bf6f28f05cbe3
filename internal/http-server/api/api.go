package api

import (
	"FlowCS/internal/config"
	serverrors "FlowCS/internal/http-server/handlers/errors"
	"FlowCS/internal/http-server/handlers/session"
	"FlowCS/internal/http-server/middleware/authenticate"
	"FlowCS/internal/http-server/middleware/timeout"
	"FlowCS/internal/lib/sl"
	"FlowCS/internal/ws"
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net"
	"net/http"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	session.Core
}

// New starts the blocking HTTP server exposing the session API and the
// dashboard websocket.
func New(conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.NotFound(serverrors.NotFound(log))
	router.MethodNotAllowed(serverrors.NotAllowed(log))

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(timeout.Timeout(30))
		v1.Use(render.SetContentType(render.ContentTypeJSON))
		v1.Use(authenticate.New(log, handler))

		v1.Route("/session", func(r chi.Router) {
			r.Post("/", session.Start(log, handler))
			r.Post("/{id}/message", session.Message(log, handler))
			r.Delete("/{id}", session.End(log, handler))
		})
	})

	if hub != nil {
		router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			ws.ServeWs(hub, log, w, r)
		})
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  router,
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
