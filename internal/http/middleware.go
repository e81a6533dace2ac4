package http

import (
	"net/http"

	"github.com/djibygass/trade-datahub/pkg/util"
)

// RequestID injects a request id into the request context, reusing the
// X-Request-Id header when the caller supplies one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := util.WithRequestID(r.Context(), r.Header.Get("X-Request-Id"))
		ctx = util.WithClientIP(ctx, r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
