// internal/middleware/request_id.go
// X-Request-ID: pakai id klien kalau aman, selain itu generate; disimpan juga di context.

package middleware

import (
	"context"
	"net/http"

	"dca-reserves/internal/util"
)

type reqIDKey int

const requestIDKey reqIDKey = iota

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := util.CleanID(r.Header.Get("X-Request-ID"))
		if reqID == "" {
			reqID = util.NewID()
		}
		r.Header.Set("X-Request-ID", reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, reqID)))
	})
}

// RequestIDFrom "" kalau request tidak lewat RequestID.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
