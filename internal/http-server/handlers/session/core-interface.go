package session

import (
	"FlowCS/entity"
	"context"
)

// Core is the slice of the application facade the session handlers use.
type Core interface {
	StartSession(ctx context.Context, domain string) (string, []string, error)
	PostMessage(ctx context.Context, sessionID, text string) ([]string, entity.SessionState, error)
	EndSession(sessionID string) error
}
