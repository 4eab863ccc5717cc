package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// HTTPMetrics интерфейс счетчиков HTTP запросов
type HTTPMetrics interface {
	IncHTTPRequest(method, path string, status int)
	ObserveHTTPDuration(method, path string, duration time.Duration)
}

// statusRecorder перехватывает статус ответа
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Metrics пишет счетчик и длительность каждого HTTP запроса
// Путь берется из шаблона маршрута mux, чтобы не плодить кардинальность
func Metrics(m HTTPMetrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			path := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tmpl, err := route.GetPathTemplate(); err == nil {
					path = tmpl
				}
			}

			m.IncHTTPRequest(r.Method, path, rec.status)
			m.ObserveHTTPDuration(r.Method, path, time.Since(start))
		})
	}
}
