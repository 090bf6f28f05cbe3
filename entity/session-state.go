package entity

// SessionState is the externally visible slice of a dialogue session.
type SessionState struct {
	Domain string `json:"domain"`
	State  string `json:"state"`
	Active bool   `json:"active"`
}
