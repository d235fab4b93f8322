package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/stubd/stubd/pkg/config"
	"github.com/stubd/stubd/pkg/logging"
	"github.com/stubd/stubd/pkg/metrics"
	"github.com/stubd/stubd/pkg/requestlog"
)

// Server accepts connections and answers each with one response.
type Server struct {
	cfg      *config.ServerConfig
	handler  *Handler
	log      *slog.Logger
	requests requestlog.Store
	registry *metrics.Registry
	metrics  *metrics.ServerMetrics
	readFile ReadFileFunc

	mu       sync.Mutex
	running  bool
	listener net.Listener
	conns    map[net.Conn]struct{}
	wg       sync.WaitGroup

	// ctx is cancelled by Stop; pending delays watch it.
	ctx    context.Context
	cancel context.CancelFunc

	startTime time.Time
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

// WithRequestLog replaces the in-memory request log.
func WithRequestLog(store requestlog.Store) ServerOption {
	return func(s *Server) {
		if store != nil {
			s.requests = store
		}
	}
}

// WithRegistry records metrics on r instead of a private registry.
func WithRegistry(r *metrics.Registry) ServerOption {
	return func(s *Server) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithFileReader replaces os.ReadFile for file-backed payloads.
func WithFileReader(fn ReadFileFunc) ServerOption {
	return func(s *Server) {
		s.readFile = fn
	}
}

// NewServer creates a Server for cfg. The config is copied and completed
// with defaults; the route table is built once here and never changes.
func NewServer(cfg *config.ServerConfig, opts ...ServerOption) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	c := *cfg
	c.ApplyDefaults()
	if c.ReadBufferSize <= 0 {
		c.ReadBufferSize = config.DefaultReadBufferSize
	}

	s := &Server{
		cfg:   &c,
		log:   logging.Nop(),
		conns: make(map[net.Conn]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.requests == nil {
		s.requests = requestlog.NewMemoryStore(requestlog.DefaultCapacity)
	}
	if s.registry == nil {
		s.registry = metrics.NewRegistry()
	}
	s.metrics = metrics.NewServerMetrics(s.registry)

	h := NewHandler(s.cfg, s.readFile)
	h.log = s.log
	h.metrics = s.metrics
	if s.cfg.InternalEndpoints {
		h.internal = &internalEndpoints{cors: s.cfg.CORS, registry: s.registry, requests: s.requests}
	}
	s.handler = h
	return s
}

// Start binds the configured address and serves in the background.
func (s *Server) Start() error {
	addr := s.cfg.Addr()
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", addr, err)
	}
	if err := s.begin(l); err != nil {
		_ = l.Close()
		return err
	}
	go func() {
		if err := s.acceptLoop(l); err != nil {
			s.log.Error("accept loop stopped", "error", err)
		}
	}()
	return nil
}

// Serve accepts connections on l until Stop is called or l fails. It
// returns nil after Stop.
func (s *Server) Serve(l net.Listener) error {
	if err := s.begin(l); err != nil {
		return err
	}
	return s.acceptLoop(l)
}

func (s *Server) begin(l net.Listener) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrServerRunning
	}
	if s.ctx != nil {
		return ErrServerClosed
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.listener = l
	s.running = true
	s.startTime = time.Now()
	s.log.Info("stub server listening",
		"addr", l.Addr().String(),
		"routes", s.handler.RouteCount(),
		"base", s.cfg.Base,
		"cors", s.cfg.CORS,
	)
	return nil
}

func (s *Server) acceptLoop(l net.Listener) error {
	var backoff time.Duration
	for {
		conn, err := l.Accept()
		if err != nil {
			if !s.IsRunning() {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				backoff = min(max(2*backoff, 5*time.Millisecond), time.Second)
				s.log.Warn("accept failed, retrying", "error", err, "backoff", backoff)
				time.Sleep(backoff)
				continue
			}
			return fmt.Errorf("accept: %w", err)
		}
		backoff = 0

		// armed before tracking so Stop's deadline always wins
		if s.cfg.ReadTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(time.Duration(s.cfg.ReadTimeout) * time.Second))
		}
		if !s.track(conn) {
			_ = conn.Close()
			return nil
		}
		go s.handleConn(conn)
	}
}

// track registers conn with the server. It returns false once Stop began,
// so no goroutine is added to the wait group while Stop waits on it.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return false
	}
	s.conns[conn] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	s.wg.Done()
}

// Stop closes the listener, cancels pending delays and waits for in-flight
// connections until ctx is done. Connections still waiting for their
// request are interrupted.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.cancel()
	err := s.listener.Close()
	now := time.Now()
	for c := range s.conns {
		_ = c.SetReadDeadline(now)
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn("stop timed out, closing connections", "error", ctx.Err())
		s.mu.Lock()
		for c := range s.conns {
			_ = c.Close()
		}
		s.mu.Unlock()
		return ctx.Err()
	}

	s.log.Info("stub server stopped", "uptime", time.Since(s.startTime).Round(time.Millisecond))
	if err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("closing listener: %w", err)
	}
	return nil
}

// IsRunning reports whether the server is accepting connections.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// URL returns the http:// URL of the bound address, or "".
func (s *Server) URL() string {
	addr := s.Addr()
	if addr == nil {
		return ""
	}
	return "http://" + addr.String()
}

// Config returns the effective configuration, defaults applied.
func (s *Server) Config() *config.ServerConfig {
	return s.cfg
}

// Handler returns the request handler.
func (s *Server) Handler() *Handler {
	return s.handler
}

// RequestLog returns the request history.
func (s *Server) RequestLog() requestlog.Store {
	return s.requests
}

// Registry returns the metrics registry.
func (s *Server) Registry() *metrics.Registry {
	return s.registry
}
