package dialogue

// Action result statuses. A failure is a business outcome (record not
// found, credential mismatch), never a transport error.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// ActionResult is the normalized outcome of a dispatched action.
type ActionResult struct {
	Status  string            `json:"status"`
	Payload map[string]string `json:"payload"`
}

// Succeeded reports whether the result carries a success status.
func (r *ActionResult) Succeeded() bool {
	return r != nil && r.Status == StatusSuccess
}

// Context holds the mutable per-session dialogue state. It is owned
// exclusively by one Interpreter and never shared between sessions.
type Context struct {
	Domain     string            `json:"domain"`
	State      string            `json:"state"`
	Slots      map[string]string `json:"slots"`
	LastResult *ActionResult     `json:"last_result,omitempty"`
	Active     bool              `json:"active"`
}

// NewContext creates a session context positioned at a domain's initial
// state.
func NewContext(domain, initialState string) *Context {
	return &Context{
		Domain: domain,
		State:  initialState,
		Slots:  make(map[string]string),
		Active: true,
	}
}

// MergeSlots overwrites or inserts the extracted slot values. Empty
// values are never stored; a slot is either present and non-empty or
// absent.
func (c *Context) MergeSlots(slots map[string]string) {
	if c.Slots == nil {
		c.Slots = make(map[string]string)
	}
	for name, value := range slots {
		if value == "" {
			continue
		}
		c.Slots[name] = value
	}
}

// SlotsSatisfy reports whether every required slot has a non-empty value.
func (c *Context) SlotsSatisfy(required []string) bool {
	for _, name := range required {
		if c.Slots[name] == "" {
			return false
		}
	}
	return true
}

// ClearSlots discards all collected slot values.
func (c *Context) ClearSlots() {
	c.Slots = make(map[string]string)
}
