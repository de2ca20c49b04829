package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ShivanshKaul/ai-task-backend/internal/logging"
	"github.com/ShivanshKaul/ai-task-backend/internal/model"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

type contextKey string

const ctxIdentity contextKey = "identity"

// IdentityFromContext returns the identity attached by the auth gate.
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	id, ok := ctx.Value(ctxIdentity).(model.Identity)
	return id, ok
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}

func loggingMiddleware(log logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}

func recoverMiddleware(log logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error(r.Context(), "panic", "recovered", rec)
				writeError(w, http.StatusInternalServerError, "panic", "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware allows browser calls from a single configured origin and
// answers preflight requests.
func corsMiddleware(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqOrigin := r.Header.Get("Origin")
		if origin != "" && reqOrigin != "" && (origin == "*" || strings.EqualFold(reqOrigin, origin)) {
			w.Header().Set("Access-Control-Allow-Origin", reqOrigin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken returns the second space-separated field of the
// Authorization header, or "" when there is none.
func bearerToken(r *http.Request) string {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// requireAuth is the gate in front of protected handlers: no token is 401,
// any verification failure is 403, otherwise the identity is attached to
// the request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "missing bearer token")
			return
		}

		id, err := s.tokens.Verify(token)
		if err != nil {
			s.log.Debug(r.Context(), "token rejected", "err", err)
			writeError(w, http.StatusForbidden, "forbidden", "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ctxIdentity, id)
		next(w, r.WithContext(ctx))
	}
}

// maybeAuth gates next only when strict auth is configured.
func (s *Server) maybeAuth(next http.HandlerFunc) http.HandlerFunc {
	if s.cfg.StrictAuth {
		return s.requireAuth(next)
	}
	return next
}
