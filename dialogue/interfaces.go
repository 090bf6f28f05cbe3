package dialogue

import (
	"FlowCS/entity"
	"context"
)

// Recognizer maps the user's raw text onto a declared intent and a set
// of extracted slot values. Implementations must return the reserved
// fallback intent rather than inventing intents; the interpreter
// coerces anything outside availableIntents regardless.
type Recognizer interface {
	Recognize(ctx context.Context, text, currentState string, requiredSlots, availableIntents []string) (entity.Recognition, error)
}

// DomainClassifier decides which configured domain a piece of free text
// belongs to. Implementations return an empty domain on any failure;
// the interpreter resolves that to the registry's fallback domain.
type DomainClassifier interface {
	Classify(ctx context.Context, text string, domains []string) (string, error)
}

// RecordStore is the persistence collaborator behind the action
// dispatcher. A not-found record is reported as (nil, nil) or
// (false, nil); a non-nil error always means a processing fault.
type RecordStore interface {
	GetOrder(ctx context.Context, orderID string) (*entity.Order, error)
	GetProduct(ctx context.Context, name string) (*entity.Product, error)
	ChangePassword(ctx context.Context, accountID, oldPassword, newPassword string) (bool, error)
	DeactivateAccount(ctx context.Context, accountID string) (bool, error)
	InsertComplaint(ctx context.Context, accountID, description string) (string, error)
	SetDeviceState(ctx context.Context, name, state string) (bool, error)
	GetQuote(ctx context.Context, symbol string) (*entity.Quote, error)
}

// Messenger delivers rendered prompts to wherever the session lives —
// a console, an HTTP response buffer, a websocket.
type Messenger interface {
	Send(ctx context.Context, text string) error
}

// MessengerFunc adapts a function to the Messenger interface.
type MessengerFunc func(ctx context.Context, text string) error

func (f MessengerFunc) Send(ctx context.Context, text string) error {
	return f(ctx, text)
}
