package middleware

import (
	"net/http"
	"time"

	"bookshelf/internal/metrics"

	"github.com/gorilla/mux"
)

// Metrics пишет RED-метрики; path — шаблон маршрута, чтобы не плодить метки по isbn.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		metrics.InFlightInc()
		defer metrics.InFlightDec()

		sw := newStatusWriter(w)
		next.ServeHTTP(sw, r)

		path := "unmatched"
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}
		metrics.RecordHTTPRequest(r.Method, path, sw.status, time.Since(start))
	})
}
