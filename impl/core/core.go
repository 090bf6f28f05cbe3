package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"FlowCS/dialogue"
	"FlowCS/dialogue/flow"
	"FlowCS/entity"
	"FlowCS/internal/lib/sl"
)

// Broadcaster mirrors the conversation to live observers, e.g. a
// support dashboard over websockets.
type Broadcaster interface {
	BroadcastTranscript(sessionID, role, text string)
}

// terminationTokens end a session outside the state machine.
var terminationTokens = map[string]bool{
	"exit": true,
	"quit": true,
	"bye":  true,
	"退出":   true,
}

// IsTerminationToken reports whether the input is a literal exit phrase.
func IsTerminationToken(text string) bool {
	return terminationTokens[strings.ToLower(strings.TrimSpace(text))]
}

type session struct {
	id     string
	mu     sync.Mutex
	interp *dialogue.Interpreter
	buffer []string
}

// Handler owns the live dialogue sessions and wires each one to the
// shared collaborators. Sessions are independent; the handler only
// guards its own session table.
type Handler struct {
	flows       *flow.Registry
	recognizer  dialogue.Recognizer
	classifier  dialogue.DomainClassifier
	dispatcher  dialogue.ActionDispatcher
	broadcaster Broadcaster
	authKey     string

	mu       sync.RWMutex
	sessions map[string]*session

	log *slog.Logger
}

func New(
	flows *flow.Registry,
	recognizer dialogue.Recognizer,
	classifier dialogue.DomainClassifier,
	dispatcher dialogue.ActionDispatcher,
	log *slog.Logger,
) *Handler {
	return &Handler{
		flows:      flows,
		recognizer: recognizer,
		classifier: classifier,
		dispatcher: dispatcher,
		sessions:   make(map[string]*session),
		log:        log.With(sl.Module("core")),
	}
}

// SetAuthKey sets the bearer key expected by the HTTP API.
func (h *Handler) SetAuthKey(key string) {
	h.authKey = key
}

// SetBroadcaster attaches a transcript broadcaster.
func (h *Handler) SetBroadcaster(b Broadcaster) {
	h.broadcaster = b
}

// AuthenticateByToken validates an API bearer token.
func (h *Handler) AuthenticateByToken(token string) (*entity.UserAuth, error) {
	if h.authKey == "" || token != h.authKey {
		return nil, fmt.Errorf("invalid token")
	}
	return &entity.UserAuth{Username: "api", Token: token}, nil
}

// StartSession creates a new session in the given domain (the registry
// fallback when empty), runs the flow bootstrap, and returns the
// session id along with the opening prompts.
func (h *Handler) StartSession(ctx context.Context, domain string) (string, []string, error) {
	if domain == "" {
		domain = h.flows.Fallback()
	}

	s := &session{id: uuid.NewString()}
	messenger := dialogue.MessengerFunc(func(_ context.Context, text string) error {
		s.buffer = append(s.buffer, text)
		if h.broadcaster != nil {
			h.broadcaster.BroadcastTranscript(s.id, "bot", text)
		}
		return nil
	})

	interp, err := dialogue.NewInterpreter(h.flows, h.recognizer, h.classifier, h.dispatcher, messenger, domain, h.log)
	if err != nil {
		return "", nil, err
	}
	s.interp = interp

	if err := interp.Bootstrap(ctx); err != nil {
		return "", nil, fmt.Errorf("bootstrapping session: %w", err)
	}

	h.mu.Lock()
	h.sessions[s.id] = s
	h.mu.Unlock()

	h.log.Info("session started",
		slog.String("session_id", s.id),
		slog.String("domain", domain),
	)

	return s.id, s.drain(), nil
}

// PostMessage runs one user turn against a session and returns the
// replies it produced plus a state snapshot. Termination tokens close
// the session without entering the state machine.
func (h *Handler) PostMessage(ctx context.Context, sessionID, text string) ([]string, entity.SessionState, error) {
	h.mu.RLock()
	s, ok := h.sessions[sessionID]
	h.mu.RUnlock()
	if !ok {
		return nil, entity.SessionState{}, fmt.Errorf("session not found: %s", sessionID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if h.broadcaster != nil {
		h.broadcaster.BroadcastTranscript(sessionID, "user", text)
	}

	if IsTerminationToken(text) {
		s.interp.Deactivate()
	} else if err := s.interp.ProcessTurn(ctx, text); err != nil {
		return s.drain(), h.snapshot(s), err
	}

	snap := h.snapshot(s)
	if !snap.Active {
		h.drop(sessionID)
	}
	return s.drain(), snap, nil
}

// EndSession closes a session regardless of its state-machine position.
func (h *Handler) EndSession(sessionID string) error {
	h.mu.RLock()
	s, ok := h.sessions[sessionID]
	h.mu.RUnlock()
	if !ok {
		return fmt.Errorf("session not found: %s", sessionID)
	}
	s.interp.Deactivate()
	h.drop(sessionID)
	h.log.Info("session ended", slog.String("session_id", sessionID))
	return nil
}

func (h *Handler) snapshot(s *session) entity.SessionState {
	sctx := s.interp.Context()
	return entity.SessionState{
		Domain: sctx.Domain,
		State:  sctx.State,
		Active: sctx.Active,
	}
}

func (h *Handler) drop(sessionID string) {
	h.mu.Lock()
	delete(h.sessions, sessionID)
	h.mu.Unlock()
}

func (s *session) drain() []string {
	replies := s.buffer
	s.buffer = nil
	return replies
}
