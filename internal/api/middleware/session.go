package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type sessionKeyType string

const SessionIDKey sessionKeyType = "session_id"

// SessionHeader carries the caller's session identity. There are no accounts;
// a session owns the projects it created and nothing else.
const SessionHeader = "X-Session-ID"

// Session resolves the session id from the request, minting one for first-time
// callers. The id is echoed in the response header so the client can persist
// it and send it back on the next request.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(SessionHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(SessionHeader, id)
		ctx := context.WithValue(r.Context(), SessionIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionID returns the session id from context.
func GetSessionID(ctx context.Context) string {
	if v := ctx.Value(SessionIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
