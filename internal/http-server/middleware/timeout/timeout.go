package timeout

import (
	"context"
	"net/http"
	"time"
)

// Timeout caps the lifetime of a request's context at the given number
// of seconds. Collaborator calls made while handling the request (the
// recognition service, the record store) inherit the deadline.
func Timeout(seconds int) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), time.Duration(seconds)*time.Second)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}
