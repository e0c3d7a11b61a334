// internal/app/system/jsonapi/middleware.go
package jsonapi

import (
	"net/http"

	"go.uber.org/zap"
)

// AllowAllOrigins advertises the fixed CORS policy for GET-capable
// endpoints: any origin, GET, and the standard request headers.
func AllowAllOrigins(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Request-Method", "GET")
		h.Set("Access-Control-Request-Headers", "Origin, X-Requested-With, Content-Type, Accept")
		next.ServeHTTP(w, r)
	})
}

// Recoverer converts a panicking handler into an opaque 500 error
// document. Expected domain errors never reach this boundary; anything
// that does is logged with the request path and swallowed.
func Recoverer(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("handler panic",
						zap.Any("panic", rec),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path))
					InternalServerError(w)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
