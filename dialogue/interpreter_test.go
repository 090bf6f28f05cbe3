package dialogue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FlowCS/dialogue/flow"
	"FlowCS/entity"
)

type fakeRecognizer struct {
	responses map[string]entity.Recognition
	err       error
}

func (f *fakeRecognizer) Recognize(_ context.Context, text, _ string, _, _ []string) (entity.Recognition, error) {
	if f.err != nil {
		return entity.Recognition{}, f.err
	}
	if rec, ok := f.responses[text]; ok {
		return rec, nil
	}
	return entity.Recognition{Intent: "Fallback", Slots: map[string]string{}}, nil
}

type fakeClassifier struct {
	domain string
	err    error
	calls  int
}

func (f *fakeClassifier) Classify(_ context.Context, _ string, _ []string) (string, error) {
	f.calls++
	return f.domain, f.err
}

type capture struct {
	texts []string
}

func (c *capture) Send(_ context.Context, text string) error {
	c.texts = append(c.texts, text)
	return nil
}

func (c *capture) last() string {
	if len(c.texts) == 0 {
		return ""
	}
	return c.texts[len(c.texts)-1]
}

func testFlows() *flow.Registry {
	reg := flow.NewRegistry("Customer_Service")
	reg.Add(&flow.Model{
		FlowID:       "Customer_Service",
		InitialState: "WELCOME",
		IntentMap: map[string]string{
			"QueryOrder":     "ASK_ORDER",
			"ModifyPassword": "ASK_PASSWORD",
			"Deactivate":     "DEACT_DESK",
			"Greeting":       "MAIN_MENU",
			"Quit":           "CLOSED",
			"Fallback":       "FALLBACK",
		},
		States: map[string]flow.StateDef{
			"WELCOME": {
				EntryPrompt: "Welcome.",
				Menu:        true,
				ActionFulfilled: &flow.ActionSpec{
					Execute: "System.greet",
					Transitions: []flow.TransitionRule{
						{Condition: flow.OnSuccess, Goto: "MAIN_MENU"},
					},
				},
			},
			"MAIN_MENU": {EntryPrompt: "How can I help?", Menu: true},
			"ASK_ORDER": {
				EntryPrompt:       "Order lookup.",
				RequiredSlots:     []string{"order_id"},
				MissingSlotPrompt: "Please give your order id.",
				ActionFulfilled: &flow.ActionSpec{
					Execute: ActionQueryOrder,
					Transitions: []flow.TransitionRule{
						{Condition: flow.OnSuccess, Goto: "ORDER_RESULT"},
						{Condition: flow.OnFailure, Goto: "ORDER_NOT_FOUND"},
					},
				},
			},
			"ORDER_RESULT":    {EntryPrompt: "Order ${order_id} is ${api_result.status}."},
			"ORDER_NOT_FOUND": {EntryPrompt: "No such order."},
			"ASK_PASSWORD": {
				EntryPrompt:       "Password desk.",
				RequiredSlots:     []string{"account_id", "old_password", "new_password"},
				MissingSlotPrompt: "Need account, old and new password.",
				ActionFulfilled: &flow.ActionSpec{
					Execute: ActionChangePassword,
					Transitions: []flow.TransitionRule{
						{Condition: flow.OnSuccess, Goto: "PASSWORD_DONE"},
						{Condition: flow.OnFailure, Goto: "PASSWORD_FAILED"},
					},
				},
			},
			"PASSWORD_DONE":   {EntryPrompt: "Password updated for ${account_id}."},
			"PASSWORD_FAILED": {EntryPrompt: "Password change rejected."},
			"DEACT_DESK": {
				EntryPrompt:       "Deactivation desk.",
				RequiredSlots:     []string{"account_id"},
				MissingSlotPrompt: "Which account?",
				ActionFulfilled: &flow.ActionSpec{
					Execute: ActionDeactivate,
					Transitions: []flow.TransitionRule{
						{Condition: flow.OnSuccess, Goto: "DEACT_DONE"},
					},
				},
			},
			"DEACT_DONE": {EntryPrompt: "Account closed."},
			"FALLBACK":   {EntryPrompt: "Sorry, I did not understand."},
			"CLOSED":     {EntryPrompt: flow.EndSession},
		},
	})
	reg.Add(&flow.Model{
		FlowID:       "Smart_Home",
		InitialState: "HOME_MENU",
		IntentMap: map[string]string{
			"ControlDevice": "CONTROL_DEVICE",
			"Fallback":      "HOME_FALLBACK",
		},
		States: map[string]flow.StateDef{
			"HOME_MENU": {EntryPrompt: "Home menu.", Menu: true},
			"CONTROL_DEVICE": {
				EntryPrompt:       "Device control.",
				RequiredSlots:     []string{"device_name", "device_action"},
				MissingSlotPrompt: "Which device and what action?",
				ActionFulfilled: &flow.ActionSpec{
					Execute: ActionControlDevice,
					Transitions: []flow.TransitionRule{
						{Condition: flow.OnSuccess, Goto: "DEVICE_DONE"},
					},
				},
			},
			"DEVICE_DONE":   {EntryPrompt: "Done."},
			"HOME_FALLBACK": {EntryPrompt: "Pardon?"},
		},
	})
	return reg
}

func newTestInterpreter(t *testing.T, rec Recognizer, cls DomainClassifier, store RecordStore) (*Interpreter, *capture) {
	t.Helper()
	out := &capture{}
	interp, err := NewInterpreter(
		testFlows(), rec, cls, NewDispatcher(store, testLogger()), out,
		"Customer_Service", testLogger(),
	)
	require.NoError(t, err)
	return interp, out
}

func TestBootstrap_WelcomeMenuJump(t *testing.T) {
	interp, out := newTestInterpreter(t, &fakeRecognizer{}, nil, &fakeStore{})

	require.NoError(t, interp.Bootstrap(context.Background()))

	assert.Equal(t, []string{"Welcome.", "How can I help?"}, out.texts)
	assert.Equal(t, "MAIN_MENU", interp.Context().State)
	assert.True(t, interp.Context().Active)
}

func TestProcessTurn_OrderQueryShortCircuit(t *testing.T) {
	rec := &fakeRecognizer{responses: map[string]entity.Recognition{
		"check order O20240904": {Intent: "QueryOrder", Slots: map[string]string{"order_id": "O20240904"}},
	}}
	store := &fakeStore{orders: map[string]*entity.Order{
		"O20240904": {OrderID: "O20240904", Status: "shipped", Eta: "2025-12-05"},
	}}
	interp, out := newTestInterpreter(t, rec, nil, store)
	require.NoError(t, interp.Bootstrap(context.Background()))

	require.NoError(t, interp.ProcessTurn(context.Background(), "check order O20240904"))

	assert.Equal(t, "Order O20240904 is shipped.", out.last())
	assert.Equal(t, "ORDER_RESULT", interp.Context().State)
	assert.Empty(t, interp.Context().Slots)
	assert.Nil(t, interp.Context().LastResult)
}

func TestProcessTurn_TwoTurnPasswordChange(t *testing.T) {
	rec := &fakeRecognizer{responses: map[string]entity.Recognition{
		"change my password": {Intent: "ModifyPassword", Slots: map[string]string{}},
		"account user1001":   {Intent: "ModifyPassword", Slots: map[string]string{"account_id": "user1001"}},
		"old 123 new 456": {Intent: "ModifyPassword", Slots: map[string]string{
			"old_password": "123", "new_password": "456",
		}},
	}}
	interp, out := newTestInterpreter(t, rec, nil, &fakeStore{passwordOK: true})
	require.NoError(t, interp.Bootstrap(context.Background()))

	require.NoError(t, interp.ProcessTurn(context.Background(), "change my password"))
	assert.Equal(t, "Need account, old and new password.", out.last())
	assert.Equal(t, "ASK_PASSWORD", interp.Context().State)

	require.NoError(t, interp.ProcessTurn(context.Background(), "account user1001"))
	assert.Equal(t, "Need account, old and new password.", out.last())
	assert.Equal(t, "ASK_PASSWORD", interp.Context().State)
	assert.Equal(t, "user1001", interp.Context().Slots["account_id"])

	require.NoError(t, interp.ProcessTurn(context.Background(), "old 123 new 456"))
	assert.Equal(t, "Password updated for user1001.", out.last())
	assert.Equal(t, "PASSWORD_DONE", interp.Context().State)
	assert.Empty(t, interp.Context().Slots)
}

func TestProcessTurn_SlotRetentionLaw(t *testing.T) {
	rec := &fakeRecognizer{responses: map[string]entity.Recognition{
		"order please": {Intent: "QueryOrder", Slots: map[string]string{"order_id": "O1"}},
		"menu":         {Intent: "Greeting", Slots: map[string]string{}},
		"password":     {Intent: "ModifyPassword", Slots: map[string]string{}},
	}}
	store := &fakeStore{orders: map[string]*entity.Order{"O1": {OrderID: "O1", Status: "packed"}}}
	interp, _ := newTestInterpreter(t, rec, nil, store)
	require.NoError(t, interp.Bootstrap(context.Background()))

	// Satisfying slots survive the transition and short-circuit to the action.
	require.NoError(t, interp.ProcessTurn(context.Background(), "order please"))
	assert.Equal(t, "ORDER_RESULT", interp.Context().State)

	// A transition whose target is not yet satisfied starts fresh:
	// slots carried from the previous flow are dropped.
	require.NoError(t, interp.ProcessTurn(context.Background(), "menu"))
	interp.Context().Slots["stale"] = "value"
	require.NoError(t, interp.ProcessTurn(context.Background(), "password"))
	assert.Equal(t, "ASK_PASSWORD", interp.Context().State)
	assert.Empty(t, interp.Context().Slots)
}

func TestProcessTurn_DomainSwitchFromMenu(t *testing.T) {
	rec := &fakeRecognizer{responses: map[string]entity.Recognition{
		"turn on the bedroom light": {Intent: "ControlDevice", Slots: map[string]string{
			"device_name": "bedroom light", "device_action": "on",
		}},
	}}
	cls := &fakeClassifier{domain: "Smart_Home"}
	interp, out := newTestInterpreter(t, rec, cls, &fakeStore{deviceOK: true})
	require.NoError(t, interp.Bootstrap(context.Background()))

	require.NoError(t, interp.ProcessTurn(context.Background(), "turn on the bedroom light"))

	assert.Equal(t, 1, cls.calls)
	assert.Equal(t, "Smart_Home", interp.Context().Domain)
	assert.Equal(t, "DEVICE_DONE", interp.Context().State)
	assert.Equal(t, "Done.", out.last())
}

func TestProcessTurn_ClassifierFailureResolvesToFallbackDomain(t *testing.T) {
	out := &capture{}
	cls := &fakeClassifier{err: errors.New("upstream timeout")}
	interp, err := NewInterpreter(
		testFlows(), &fakeRecognizer{}, cls, NewDispatcher(&fakeStore{}, testLogger()), out,
		"Smart_Home", testLogger(),
	)
	require.NoError(t, err)

	require.NoError(t, interp.ProcessTurn(context.Background(), "anything"))

	assert.Equal(t, "Customer_Service", interp.Context().Domain)
}

func TestProcessTurn_NoDomainSwitchMidFlow(t *testing.T) {
	rec := &fakeRecognizer{responses: map[string]entity.Recognition{
		"order please": {Intent: "QueryOrder", Slots: map[string]string{}},
	}}
	cls := &fakeClassifier{domain: "Customer_Service"}
	interp, _ := newTestInterpreter(t, rec, cls, &fakeStore{})
	require.NoError(t, interp.Bootstrap(context.Background()))

	require.NoError(t, interp.ProcessTurn(context.Background(), "order please"))
	require.Equal(t, "ASK_ORDER", interp.Context().State)
	cls.domain = "Smart_Home"
	callsAfterMenu := cls.calls

	// ASK_ORDER is not a menu state: the classifier must not even run.
	require.NoError(t, interp.ProcessTurn(context.Background(), "gibberish"))
	assert.Equal(t, callsAfterMenu, cls.calls)
	assert.Equal(t, "Customer_Service", interp.Context().Domain)
}

func TestProcessTurn_TerminalSentinel(t *testing.T) {
	rec := &fakeRecognizer{responses: map[string]entity.Recognition{
		"goodbye": {Intent: "Quit", Slots: map[string]string{}},
	}}
	cls := &fakeClassifier{domain: "Customer_Service"}
	interp, out := newTestInterpreter(t, rec, cls, &fakeStore{})
	require.NoError(t, interp.Bootstrap(context.Background()))
	rendered := len(out.texts)

	require.NoError(t, interp.ProcessTurn(context.Background(), "goodbye"))
	assert.False(t, interp.Context().Active)
	assert.Len(t, out.texts, rendered) // the sentinel renders nothing

	// Subsequent turns are no-ops leaving the context unchanged.
	before := *interp.Context()
	require.NoError(t, interp.ProcessTurn(context.Background(), "hello again"))
	assert.Equal(t, before, *interp.Context())
	assert.Len(t, out.texts, rendered)
}

func TestProcessTurn_UnmatchedTransitionStaysPut(t *testing.T) {
	rec := &fakeRecognizer{responses: map[string]entity.Recognition{
		"close account x": {Intent: "Deactivate", Slots: map[string]string{"account_id": "missing"}},
	}}
	// accountOK=false: the action reports failure, and DEACT_DESK only
	// routes ON_SUCCESS.
	interp, out := newTestInterpreter(t, rec, nil, &fakeStore{accountOK: false})
	require.NoError(t, interp.Bootstrap(context.Background()))

	require.NoError(t, interp.ProcessTurn(context.Background(), "close account x"))

	assert.Equal(t, "DEACT_DESK", interp.Context().State)
	assert.Equal(t, "Deactivation desk.", out.last())
}

func TestProcessTurn_UnknownIntentFallsBack(t *testing.T) {
	rec := &fakeRecognizer{responses: map[string]entity.Recognition{
		"blah": {Intent: "NotDeclaredAnywhere", Slots: map[string]string{}},
	}}
	interp, out := newTestInterpreter(t, rec, nil, &fakeStore{})
	require.NoError(t, interp.Bootstrap(context.Background()))

	require.NoError(t, interp.ProcessTurn(context.Background(), "blah"))

	assert.Equal(t, "FALLBACK", interp.Context().State)
	assert.Equal(t, "Sorry, I did not understand.", out.last())
}

func TestProcessTurn_UnknownStateIsSilent(t *testing.T) {
	interp, out := newTestInterpreter(t, &fakeRecognizer{}, nil, &fakeStore{})
	require.NoError(t, interp.Bootstrap(context.Background()))
	rendered := len(out.texts)

	interp.Context().State = "GHOST"
	interp.Context().Slots["x"] = "1"

	// Fallback maps to FALLBACK here, so pick an input the recognizer
	// does not map at all and strip the fallback route first.
	interp.flows.Get("Customer_Service").IntentMap = map[string]string{
		"QueryOrder": "ASK_ORDER",
	}

	require.NoError(t, interp.ProcessTurn(context.Background(), "anything"))
	assert.Equal(t, "GHOST", interp.Context().State)
	assert.Len(t, out.texts, rendered)
}

func TestProcessTurn_RecognizerFaultRoutesToFallbackState(t *testing.T) {
	rec := &fakeRecognizer{err: errors.New("upstream timeout")}
	interp, out := newTestInterpreter(t, rec, nil, &fakeStore{})
	require.NoError(t, interp.Bootstrap(context.Background()))

	require.NoError(t, interp.ProcessTurn(context.Background(), "anything"))
	assert.Equal(t, "FALLBACK", interp.Context().State)
	assert.Equal(t, "Sorry, I did not understand.", out.last())
}

func TestProcessTurn_RecognizerFaultWithoutFallbackMapping(t *testing.T) {
	rec := &fakeRecognizer{err: errors.New("upstream timeout")}
	interp, _ := newTestInterpreter(t, rec, nil, &fakeStore{})
	require.NoError(t, interp.Bootstrap(context.Background()))

	delete(interp.flows.Get("Customer_Service").IntentMap, "Fallback")

	err := interp.ProcessTurn(context.Background(), "anything")
	var fault *TurnFault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, "recognition", fault.Stage)
}

func TestProcessTurn_MenuReentryIsFreshTransition(t *testing.T) {
	rec := &fakeRecognizer{responses: map[string]entity.Recognition{
		"hello": {Intent: "Greeting", Slots: map[string]string{}},
	}}
	cls := &fakeClassifier{domain: "Customer_Service"}
	interp, out := newTestInterpreter(t, rec, cls, &fakeStore{})
	require.NoError(t, interp.Bootstrap(context.Background()))

	// Greeting maps MAIN_MENU onto itself; from a menu state that still
	// counts as a transition and re-renders the menu prompt.
	require.NoError(t, interp.ProcessTurn(context.Background(), "hello"))
	assert.Equal(t, "MAIN_MENU", interp.Context().State)
	assert.Equal(t, "How can I help?", out.last())
}

func TestMergeSlots_EmptyValuesNeverStored(t *testing.T) {
	sctx := NewContext("Customer_Service", "MAIN_MENU")
	sctx.MergeSlots(map[string]string{"a": "1", "b": ""})

	assert.Equal(t, map[string]string{"a": "1"}, sctx.Slots)
	_, present := sctx.Slots["b"]
	assert.False(t, present)
}
