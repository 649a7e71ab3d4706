package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/socialmedia/internal/logging"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const headerRequestID = "X-Request-ID"

type ctxKey string

const requestIDKey ctxKey = "requestID"

// requestID propagates the caller's X-Request-ID or assigns a fresh one.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := lo.CoalesceOrEmpty(r.Header.Get(headerRequestID), uuid.NewString())

		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// log returns the server logger bound to the request id of r.
func (s *Server) log(r *http.Request) logging.Logger {
	return s.logger.With("request_id", requestIDFrom(r.Context()))
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.log(r).Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
