// Package engine provides the mock responder engine: the request
// dispatcher, the response renderer, and the HTTP server that hosts them.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/mocklet/mocklet/pkg/logging"
	"github.com/mocklet/mocklet/pkg/metrics"
	"github.com/mocklet/mocklet/pkg/rule"
)

// DefaultPort is the port served when none is configured.
const DefaultPort = 5000

// Config holds the transport configuration for a Server.
type Config struct {
	// Port to listen on, all interfaces. 0 picks an ephemeral port.
	Port int

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	TLSCertFile string
	TLSKeyFile  string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns the default transport configuration.
func DefaultConfig() Config {
	return Config{
		Port:         DefaultPort,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// TLSEnabled reports whether both TLS files are configured.
func (c Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// Server hosts the dispatcher over HTTP. The rule set it serves is fixed
// at construction; requests are handled concurrently without locking
// because nothing in the match-render path mutates shared state.
type Server struct {
	cfg        Config
	rules      *rule.Set
	log        *slog.Logger
	metricSet  *metrics.Set
	accessLog  bool
	httpServer *http.Server
	listener   net.Listener
	mu         sync.Mutex
	running    bool
}

// ServerOption is a functional option for configuring a Server.
type ServerOption func(*Server)

// WithLogger sets the operational logger for the server.
func WithLogger(log *slog.Logger) ServerOption {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetrics attaches a metrics set; requests are then counted and the
// samples exposed on the metrics introspection endpoint.
func WithMetrics(m *metrics.Set) ServerOption {
	return func(s *Server) {
		s.metricSet = m
	}
}

// WithAccessLog enables per-request access logging on the operational
// logger.
func WithAccessLog() ServerOption {
	return func(s *Server) {
		s.accessLog = true
	}
}

// NewServer creates a Server for the given immutable rule set.
func NewServer(rules *rule.Set, cfg Config, opts ...ServerOption) *Server {
	s := &Server{
		cfg:   cfg,
		rules: rules,
		log:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start binds the listener and begins serving in the background. Use
// Stop to shut down.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("server is already running")
	}

	handler := NewHandler(s.rules)
	handler.SetOperationalLogger(s.log)
	if s.metricSet != nil {
		handler.SetMetrics(s.metricSet)
	}

	var chain http.Handler = handler
	if s.metricSet != nil {
		chain = MetricsMiddleware(s.metricSet)(chain)
	}
	if s.accessLog {
		chain = AccessLogMiddleware(s.log)(chain)
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("failed to bind port %d: %w", s.cfg.Port, err)
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:      chain,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	serve := func() error { return s.httpServer.Serve(listener) }
	if s.cfg.TLSEnabled() {
		serve = func() error {
			return s.httpServer.ServeTLS(listener, s.cfg.TLSCertFile, s.cfg.TLSKeyFile)
		}
	}

	go func() {
		if err := serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("server error", "error", err)
		}
	}()

	s.running = true
	s.log.Info("mock server started",
		"addr", listener.Addr().String(),
		"routes", s.rules.Len(),
		"tls", s.cfg.TLSEnabled(),
	)
	return nil
}

// Addr returns the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.log.Info("mock server stopped")
	return nil
}
