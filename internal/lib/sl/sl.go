package sl

import (
	"log/slog"
	"strings"
)

// Err wraps an error into a slog attribute.
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Module tags log records with the component that produced them.
func Module(name string) slog.Attr {
	return slog.Attr{
		Key:   "module",
		Value: slog.StringValue(name),
	}
}

// Secret logs a value with everything but a short prefix masked.
func Secret(key, value string) slog.Attr {
	masked := value
	if len(masked) > 4 {
		masked = masked[:4] + strings.Repeat("*", len(masked)-4)
	}
	return slog.Attr{
		Key:   key,
		Value: slog.StringValue(masked),
	}
}
