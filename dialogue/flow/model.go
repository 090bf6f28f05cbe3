package flow

// Transition conditions evaluated against an action result status.
const (
	OnSuccess = "ON_SUCCESS"
	OnFailure = "ON_FAILURE"
	OnAny     = "ON_ANY"
)

// EndSession is the sentinel entry prompt that terminates a session
// instead of rendering text.
const EndSession = "END_SESSION"

// FallbackIntent is the reserved intent the recognizer falls back to
// when it cannot map the user's text to a declared intent.
const FallbackIntent = "Fallback"

// TransitionRule routes the dialogue after an action ran, based on the
// normalized result status. Rules are evaluated in declared order.
type TransitionRule struct {
	Condition string `yaml:"condition"`
	Goto      string `yaml:"goto"`
}

// ActionSpec names a side-effecting operation and the transitions taken
// on its outcome. Execute is opaque here; the dispatcher owns its meaning.
type ActionSpec struct {
	Execute     string           `yaml:"execute"`
	Transitions []TransitionRule `yaml:"transitions"`
}

// StateDef describes one conversational state.
type StateDef struct {
	EntryPrompt       string      `yaml:"entry_prompt"`
	RequiredSlots     []string    `yaml:"required_slots"`
	ActionFulfilled   *ActionSpec `yaml:"action_fulfilled"`
	MissingSlotPrompt string      `yaml:"missing_slot_prompt"`

	// Menu marks a state as domain-switch eligible. Only while the
	// session sits in a menu state may free text re-route it to
	// another domain.
	Menu bool `yaml:"menu"`
}

// Model is the full declarative definition of one domain's dialogue,
// immutable after loading.
type Model struct {
	FlowID       string              `yaml:"flow_id"`
	InitialState string              `yaml:"initial_state"`
	IntentMap    map[string]string   `yaml:"intent_map"`
	States       map[string]StateDef `yaml:"states"`
}

// State resolves a state identifier. Unknown identifiers yield the zero
// StateDef, so a dangling reference produces a silent turn rather than
// a crash.
func (m *Model) State(id string) StateDef {
	if m == nil {
		return StateDef{}
	}
	return m.States[id]
}

// Intents lists the intents declared in the intent map.
func (m *Model) Intents() []string {
	intents := make([]string, 0, len(m.IntentMap))
	for intent := range m.IntentMap {
		intents = append(intents, intent)
	}
	return intents
}

// FallbackState returns the state mapped to the reserved fallback
// intent, if the flow declares one.
func (m *Model) FallbackState() (string, bool) {
	if m == nil {
		return "", false
	}
	state, ok := m.IntentMap[FallbackIntent]
	return state, ok
}
