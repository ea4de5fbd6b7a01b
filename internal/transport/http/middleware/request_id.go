package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"perftrack/internal/requestctx"
)

// RequestID tags every request with a correlation id, honouring one supplied
// by the client and minting a UUID otherwise. The id is echoed back in the
// response header and made available to handlers via the context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(requestctx.WithRequestID(r.Context(), id)))
	})
}

func GetRequestID(ctx context.Context) string {
	return requestctx.GetRequestID(ctx)
}
