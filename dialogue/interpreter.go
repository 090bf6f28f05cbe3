package dialogue

import (
	"context"
	"fmt"
	"log/slog"

	"FlowCS/dialogue/flow"
	"FlowCS/internal/lib/sl"
)

// ActionDispatcher executes one named action against the record store
// and normalizes the outcome.
type ActionDispatcher interface {
	Execute(ctx context.Context, actionID string, slots map[string]string) (ActionResult, error)
}

// TurnFault is a processing fault raised while handling a turn — a
// collaborator was unreachable or misbehaved. It is distinct from a
// business failure, which travels through ActionResult and the
// transition table.
type TurnFault struct {
	Stage string
	Err   error
}

func (f *TurnFault) Error() string {
	return fmt.Sprintf("turn fault during %s: %v", f.Stage, f.Err)
}

func (f *TurnFault) Unwrap() error {
	return f.Err
}

// Interpreter drives one session's conversation over the loaded flow
// models. It owns the session Context exclusively; one turn runs to
// completion before the next may start.
type Interpreter struct {
	flows      *flow.Registry
	recognizer Recognizer
	classifier DomainClassifier
	dispatcher ActionDispatcher
	messenger  Messenger
	session    *Context
	log        *slog.Logger
}

// NewInterpreter creates a session interpreter positioned at the given
// domain's initial state. The domain must be configured.
func NewInterpreter(
	flows *flow.Registry,
	recognizer Recognizer,
	classifier DomainClassifier,
	dispatcher ActionDispatcher,
	messenger Messenger,
	domain string,
	log *slog.Logger,
) (*Interpreter, error) {
	model := flows.Get(domain)
	if model == nil {
		return nil, fmt.Errorf("domain not configured: %s", domain)
	}
	return &Interpreter{
		flows:      flows,
		recognizer: recognizer,
		classifier: classifier,
		dispatcher: dispatcher,
		messenger:  messenger,
		session:    NewContext(domain, model.InitialState),
		log:        log.With(sl.Module("dialogue.interpreter")),
	}, nil
}

// Context exposes the session context for inspection by the caller.
func (i *Interpreter) Context() *Context {
	return i.session
}

// Deactivate ends the session outside the state machine, e.g. on a
// termination token recognized by the harness.
func (i *Interpreter) Deactivate() {
	i.session.Active = false
}

// Bootstrap performs the one-time entry into the flow before the first
// user turn: it renders the initial state's prompt and, when that state
// declares an action, unconditionally takes its first transition rule
// (the welcome → menu jump).
func (i *Interpreter) Bootstrap(ctx context.Context) error {
	model := i.flows.Get(i.session.Domain)
	initial := model.State(i.session.State)

	if err := i.display(ctx, initial.EntryPrompt); err != nil {
		return err
	}

	if initial.ActionFulfilled != nil && len(initial.ActionFulfilled.Transitions) > 0 {
		target := initial.ActionFulfilled.Transitions[0].Goto
		i.session.State = target
		return i.display(ctx, model.State(target).EntryPrompt)
	}
	return nil
}

// ProcessTurn consumes one piece of user text, mutating the session
// context and emitting at most one rendered prompt. It is a no-op once
// the session is inactive.
func (i *Interpreter) ProcessTurn(ctx context.Context, text string) error {
	if !i.session.Active {
		return nil
	}

	model := i.flows.Get(i.session.Domain)
	current := model.State(i.session.State)

	// Free text may re-route the session to another domain, but only
	// while it sits in a menu state. Mid-flow input never re-routes.
	if current.Menu && i.classifier != nil {
		domain, err := i.classifier.Classify(ctx, text, i.flows.Domains())
		if err != nil || domain == "" {
			// The classification contract names the fallback domain on
			// any failure.
			if err != nil {
				i.log.Warn("domain classification failed", sl.Err(err))
			}
			domain = i.flows.Fallback()
		}
		if domain != i.session.Domain && i.flows.Has(domain) {
			i.log.Info("switching domain",
				slog.String("from", i.session.Domain),
				slog.String("to", domain),
			)
			i.session.Domain = domain
			model = i.flows.Get(domain)
			i.session.State = model.InitialState
			i.session.ClearSlots()
			i.session.LastResult = nil
			current = model.State(i.session.State)
		}
	}

	rec, err := i.recognizer.Recognize(ctx, text, i.session.State, current.RequiredSlots, model.Intents())
	if err != nil {
		return i.recoverFault(ctx, model, "recognition", err)
	}

	intent := rec.Intent
	if _, ok := model.IntentMap[intent]; !ok {
		intent = flow.FallbackIntent
	}

	i.log.Debug("turn recognized",
		slog.String("intent", intent),
		slog.Int("slots", len(rec.Slots)),
		slog.String("state", i.session.State),
	)

	i.session.MergeSlots(rec.Slots)

	if target, ok := model.IntentMap[intent]; ok {
		// Re-entry from a menu state is always a fresh transition,
		// even when the intent maps back to the same identifier.
		if target != i.session.State || current.Menu {
			targetDef := model.State(target)

			// Slot retention: a transition keeps the collected slots
			// only when they already satisfy the target. Anything less
			// starts a fresh slot-filling sequence.
			if !i.session.SlotsSatisfy(targetDef.RequiredSlots) {
				i.session.ClearSlots()
			}
			i.session.LastResult = nil
			i.session.State = target

			i.log.Info("intent transition",
				slog.String("intent", intent),
				slog.String("state", target),
			)

			if len(targetDef.RequiredSlots) > 0 || targetDef.ActionFulfilled != nil {
				return i.checkSlotsAndAct(ctx, model, targetDef)
			}
			return i.display(ctx, targetDef.EntryPrompt)
		}
	}

	return i.checkSlotsAndAct(ctx, model, current)
}

// checkSlotsAndAct either executes the state's action, asks for the
// missing slots, or re-renders the state's own prompt.
func (i *Interpreter) checkSlotsAndAct(ctx context.Context, model *flow.Model, def flow.StateDef) error {
	if !i.session.SlotsSatisfy(def.RequiredSlots) {
		if def.MissingSlotPrompt != "" {
			return i.display(ctx, def.MissingSlotPrompt)
		}
		return nil
	}

	if def.ActionFulfilled == nil || def.ActionFulfilled.Execute == "" {
		return i.display(ctx, def.EntryPrompt)
	}

	result, err := i.dispatcher.Execute(ctx, def.ActionFulfilled.Execute, i.session.Slots)
	if err != nil {
		return i.recoverFault(ctx, model, "action dispatch", err)
	}
	i.session.LastResult = &result

	for _, rule := range def.ActionFulfilled.Transitions {
		if !conditionMatches(rule.Condition, result.Status) {
			continue
		}
		i.session.State = rule.Goto

		// The target prompt still sees the collected slots and the
		// fresh result; both are discarded right after rendering.
		err := i.display(ctx, model.State(rule.Goto).EntryPrompt)
		i.session.ClearSlots()
		i.session.LastResult = nil
		return err
	}

	// No rule matched the outcome. The session stays in place and the
	// state's own prompt keeps the user from being left without any
	// response.
	return i.display(ctx, def.EntryPrompt)
}

// recoverFault routes a processing fault to the flow's fallback-mapped
// state when one exists; otherwise the typed fault goes to the caller.
func (i *Interpreter) recoverFault(ctx context.Context, model *flow.Model, stage string, err error) error {
	fallbackState, ok := model.FallbackState()
	if !ok {
		return &TurnFault{Stage: stage, Err: err}
	}
	i.log.Warn("recovering turn fault via fallback state",
		slog.String("stage", stage),
		slog.String("state", fallbackState),
		sl.Err(err),
	)
	i.session.State = fallbackState
	return i.display(ctx, model.State(fallbackState).EntryPrompt)
}

// display renders and emits a prompt template. The terminal sentinel
// deactivates the session instead of producing text; empty templates
// produce nothing.
func (i *Interpreter) display(ctx context.Context, template string) error {
	if template == flow.EndSession {
		i.log.Info("session terminated by flow")
		i.session.Active = false
		return nil
	}
	if template == "" {
		return nil
	}
	return i.messenger.Send(ctx, Render(template, i.session.Slots, i.session.LastResult))
}

func conditionMatches(condition, status string) bool {
	switch condition {
	case flow.OnSuccess:
		return status == StatusSuccess
	case flow.OnFailure:
		return status == StatusFailure
	case flow.OnAny:
		return true
	}
	return false
}
