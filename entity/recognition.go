package entity

// Recognition is the normalized output of the intent recognizer:
// one intent plus the slot values extracted from the user's text.
type Recognition struct {
	Intent string            `json:"intent"`
	Slots  map[string]string `json:"slots"`
}
