package api

import (
	"net/http"
	"time"

	"github.com/pitwall/strategy-engine/log"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func withLogging(next http.Handler) http.Handler {
	l := log.Default().Named("http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the live feed hijacks the connection, a recorder would break it
		if r.URL.Path == basePath+"/live" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		l.Debug("request",
			log.String("method", r.Method),
			log.String("path", r.URL.Path),
			log.Int("status", rec.status),
			log.Duration("duration", time.Since(start)))
	})
}

func withRecovery(next http.Handler) http.Handler {
	l := log.Default().Named("http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				l.Error("handler panic",
					log.String("path", r.URL.Path),
					log.Any("panic", err))
				http.Error(w, "internal server error",
					http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
