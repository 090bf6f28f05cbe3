package dialogue

import "strings"

const (
	placeholderOpen  = "${"
	placeholderClose = "}"
	resultPrefix     = "api_result."
)

// Render substitutes ${slot} and ${api_result.field} placeholders in a
// prompt template. It is pure and total: unresolved placeholders are
// left verbatim and result fields resolve only for a successful last
// result.
//
// The template is consumed in a single left-to-right scan, so a slot
// whose name is a prefix of another slot's placeholder cannot corrupt
// the output.
func Render(template string, slots map[string]string, last *ActionResult) string {
	if !strings.Contains(template, placeholderOpen) {
		return template
	}

	var out strings.Builder
	out.Grow(len(template))

	rest := template
	for {
		open := strings.Index(rest, placeholderOpen)
		if open < 0 {
			out.WriteString(rest)
			return out.String()
		}
		out.WriteString(rest[:open])

		end := strings.Index(rest[open:], placeholderClose)
		if end < 0 {
			out.WriteString(rest[open:])
			return out.String()
		}
		end += open

		token := rest[open+len(placeholderOpen) : end]
		if value, ok := resolve(token, slots, last); ok {
			out.WriteString(value)
		} else {
			out.WriteString(rest[open : end+1])
		}
		rest = rest[end+1:]
	}
}

func resolve(token string, slots map[string]string, last *ActionResult) (string, bool) {
	if field, ok := strings.CutPrefix(token, resultPrefix); ok {
		if !last.Succeeded() {
			return "", false
		}
		value, ok := last.Payload[field]
		return value, ok
	}
	value, ok := slots[token]
	return value, ok
}
