package server

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// withRequestID tags the request and the response with a request ID, either
// propagated from the client or freshly minted.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// withAccessLog logs every request with its duration and status.
func (s *Server) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"remote", clientKey(r),
			"duration", time.Since(start),
		)
	})
}

// withRateLimit rejects requests once the client's budget is spent. The
// client identity is the remote IP.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(clientKey(r)) {
			msg := fmt.Sprintf("limit of %d requests per %v was reached",
				s.limiter.Capacity(), s.limiter.Period())
			writeError(w, s.logger, http.StatusTooManyRequests, msg)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey extracts the bucket identity from the request: the remote IP
// without the ephemeral port.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
