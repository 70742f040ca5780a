package server

import (
	"log/slog"
	"net/http"
	"time"
)

// APIKeyAuth guards the ingest endpoints. Clients send the configured key in
// the X-API-Key header; failures come back as JSON like every other response.
func APIKeyAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Header.Get("X-API-Key") {
			case apiKey:
				next.ServeHTTP(w, r)
			case "":
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing API key"})
			default:
				writeJSON(w, http.StatusForbidden, map[string]string{"error": "invalid API key"})
			}
		})
	}
}

// RequestLogging logs method, path, status and elapsed time for every
// request.
func RequestLogging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			started := time.Now()
			next.ServeHTTP(rec, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"elapsed", time.Since(started).Round(time.Millisecond).String(),
			)
		})
	}
}

// CORS lets the web client, served from a different origin during
// development, call the API. Only the methods and headers this API actually
// accepts are advertised.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST")
		h.Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by the wrapped handler so
// RequestLogging can report it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}
