package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/skai-it/trello-mcp-server/internal/transport/transportcore"
)

// HeaderRequestID is the header carrying the request correlation ID.
const HeaderRequestID = "X-Request-ID"

// NewRequestIDMiddleware creates middleware that assigns each request a
// correlation ID. A client-supplied X-Request-ID is kept; otherwise a new
// UUID is generated. The ID is stored in the request context and echoed
// in the response header.
func NewRequestIDMiddleware() transportcore.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
			}

			w.Header().Set(HeaderRequestID, id)
			ctx := transportcore.ContextWithRequestID(r.Context(), id)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
