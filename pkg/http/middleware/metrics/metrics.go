package metrics

import (
	"net/http"
	"time"

	"github.com/corray333/backend-labs/commerce/pkg/http/middleware/trace"
	"github.com/go-chi/chi/v5/middleware"
)

// Observer receives one observation per served request.
type Observer interface {
	ObserveHTTPRequest(route, method string, status int, duration time.Duration)
}

// NewMetricsMiddleware reports requests labelled by chi route pattern, so ids
// in paths do not create new series. Unmatched requests are reported as "unmatched".
func NewMetricsMiddleware(observer Observer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			route := trace.RoutePattern(r)
			if route == "" {
				route = "unmatched"
			}

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			observer.ObserveHTTPRequest(route, r.Method, status, time.Since(start))
		})
	}
}
