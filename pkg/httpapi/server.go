package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/harunnryd/callpanel/pkg/logging"
	"github.com/harunnryd/callpanel/pkg/panel"
	"github.com/harunnryd/callpanel/pkg/session"
)

// SessionCookie carries the session token for browsers.
const SessionCookie = "callpanel_session"

// maxUploadBytes caps a knowledge-base upload.
const maxUploadBytes = 32 << 20

type Config struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
	AllowedOrigins    []string
}

// Server exposes the panel over HTTP and a selection websocket.
type Server struct {
	cfg      Config
	svc      *panel.Service
	sessions *session.Manager
	log      *slog.Logger
	server   *http.Server
	upgrader websocket.Upgrader
	handler  http.Handler
	draining atomic.Bool
	addr     net.Addr

	drainOnce sync.Once
	drainErr  error
}

func New(cfg Config, svc *panel.Service, sessions *session.Manager, log *slog.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = 5 * time.Second
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{
		cfg:      cfg,
		svc:      svc,
		sessions: sessions,
		log:      logging.NewComponentLogger(log, "httpapi"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	s.upgrader.CheckOrigin = s.checkOrigin
	s.handler = s.recoverer(s.logRequests(s.routes()))
	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.handleLogout)
	mux.HandleFunc("GET /api/selection", s.authed(s.handleSelection))
	mux.HandleFunc("POST /api/selection/events", s.authed(s.handleSelectionEvent))
	mux.HandleFunc("GET /api/selection/ws", s.authed(s.handleSelectionSocket))
	mux.HandleFunc("PUT /api/form", s.authed(s.handleForm))
	mux.HandleFunc("GET /api/cost", s.authed(s.handleCost))
	mux.HandleFunc("POST /api/calls", s.authed(s.handlePlaceCall))
	mux.HandleFunc("POST /api/calls/{id}/dispatch", s.authed(s.handleRedispatch))
	mux.HandleFunc("GET /api/documents", s.authed(s.handleListDocuments))
	mux.HandleFunc("POST /api/documents", s.authed(s.handleUploadDocument))
	mux.HandleFunc("DELETE /api/documents/{id}", s.authed(s.handleDeleteDocument))
	return mux
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Start listens in the background until ctx is done or Drain is called.
// Ending ctx begins a drain; callers that need it finished call Drain.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.addr = ln.Addr()
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
	}
	go func() {
		<-ctx.Done()
		_ = s.Drain()
	}()
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("http_server_error", "error", err.Error())
		}
	}()
	s.log.Info("http_server_started", "addr", ln.Addr().String())
	return nil
}

// Addr is the bound listener address once Start has returned.
func (s *Server) Addr() net.Addr { return s.addr }

// Drain refuses new requests and waits for in-flight ones to finish. Every
// caller blocks until the single shutdown completes and sees its result.
func (s *Server) Drain() error {
	s.drainOnce.Do(func() {
		s.draining.Store(true)
		if s.server == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.drainErr = s.server.Shutdown(ctx)
	})
	return s.drainErr
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := strings.TrimRight(strings.TrimSpace(r.Header.Get("Origin")), "/")
	if origin == "" {
		return true
	}
	originHost := strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://")
	for _, allowed := range s.cfg.AllowedOrigins {
		a := strings.TrimRight(strings.TrimSpace(allowed), "/")
		if a == "" {
			continue
		}
		if strings.HasPrefix(a, "http://") || strings.HasPrefix(a, "https://") {
			if strings.EqualFold(a, origin) {
				return true
			}
			continue
		}
		if strings.EqualFold(a, originHost) {
			return true
		}
	}
	return false
}
