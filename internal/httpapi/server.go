package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ShivanshKaul/ai-task-backend/internal/auth"
	"github.com/ShivanshKaul/ai-task-backend/internal/chat"
	"github.com/ShivanshKaul/ai-task-backend/internal/config"
	"github.com/ShivanshKaul/ai-task-backend/internal/logging"
	"github.com/ShivanshKaul/ai-task-backend/internal/store"
)

type Server struct {
	cfg    config.Config
	store  store.Store
	creds  *auth.Credentials
	tokens *auth.Authority
	chat   *chat.Bridge
	log    logging.Logger
	mux    *http.ServeMux
}

type options struct {
	transcript store.TranscriptStore
	log        logging.Logger
	now        func() time.Time
}

type Option func(*options)

// WithTranscriptStore keeps the chat transcript somewhere other than the
// main store.
func WithTranscriptStore(ts store.TranscriptStore) Option {
	return func(o *options) { o.transcript = ts }
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithClock sets the time source used for token issue and verification.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func NewServer(cfg config.Config, st store.Store, gen chat.Generator, opts ...Option) (*Server, error) {
	o := options{transcript: st, log: logging.Discard(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	tokens, err := auth.NewAuthority([]byte(cfg.JWTSecret), cfg.TokenTTL, o.now)
	if err != nil {
		return nil, fmt.Errorf("token authority: %w", err)
	}

	s := &Server{
		cfg:    cfg,
		store:  st,
		creds:  auth.NewCredentials(st, cfg.BcryptCost),
		tokens: tokens,
		chat:   chat.NewBridge(st, o.transcript, gen, cfg.UpstreamTimeout, o.log),
		log:    o.log,
		mux:    http.NewServeMux(),
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = corsMiddleware(s.cfg.CORSOrigin, h)
	h = recoverMiddleware(s.log, h)
	h = loggingMiddleware(s.log, h)
	h = requestIDMiddleware(h)
	return h
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleRoot)
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /signup", s.handleSignup)
	s.mux.HandleFunc("POST /login", s.handleLogin)

	s.mux.HandleFunc("POST /tasks", s.requireAuth(s.handleTasksCreate))
	s.mux.HandleFunc("GET /tasks", s.requireAuth(s.handleTasksList))
	s.mux.HandleFunc("PATCH /tasks/{id}/complete", s.maybeAuth(s.handleTaskComplete))

	s.mux.HandleFunc("POST /chat", s.requireAuth(s.handleChat))
	s.mux.HandleFunc("GET /chat/history", s.requireAuth(s.handleChatHistory))
	s.mux.HandleFunc("POST /chat/reset", s.maybeAuth(s.handleChatReset))
}
