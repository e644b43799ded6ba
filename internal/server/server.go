// Package server assembles the route tables, forwarding engine, and HTTP
// surface into a complete wsgate server.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/vivars7/wsgate/internal/config"
	"github.com/vivars7/wsgate/internal/health"
	"github.com/vivars7/wsgate/internal/metrics"
	"github.com/vivars7/wsgate/internal/proxy"
	"github.com/vivars7/wsgate/internal/route"
	"github.com/vivars7/wsgate/internal/source"
)

// Server is the wsgate HTTP server. Both route tables are built in New,
// before Start listens, so no request can observe a partially built table.
type Server struct {
	cfg           *config.Config
	mu            sync.Mutex
	httpServer    *http.Server
	listener      net.Listener // if non-nil, Start uses this instead of creating one
	dynamic       *route.Table
	fixed         *route.Table
	forwarder     *proxy.Forwarder
	healthHandler *health.Handler
	metrics       *metrics.Metrics
	logger        *slog.Logger
	version       string
}

// New creates a Server from configuration. It loads the URL source,
// builds the dynamic and fixed route tables, and logs every route
// collision at WARN (last writer wins, per the table contract).
func New(cfg *config.Config, version string) (*Server, error) {
	logger := buildLogger(cfg)

	urls, err := source.LoadCSV(cfg.Source.File)
	if err != nil {
		return nil, fmt.Errorf("loading url source: %w", err)
	}

	dynamic, collisions := route.Build(urls)
	for _, c := range collisions {
		logger.Warn("route collision, keeping later entry",
			"route", c.Route,
			"replaced", c.Previous.Target(),
			"kept", c.Replacement.Target(),
		)
	}

	entries := make([]route.FixedEndpoint, len(cfg.Endpoints))
	for i, e := range cfg.Endpoints {
		entries[i] = route.FixedEndpoint{Path: e.Path, URL: e.URL}
	}
	fixed, err := route.NewFixedTable(entries)
	if err != nil {
		return nil, fmt.Errorf("building fixed endpoints: %w", err)
	}

	m := metrics.New()
	m.SetBuildInfo(version)

	forwarder := proxy.NewForwarder(proxy.NewTransport(), cfg.Relay.Timeout.Duration, logger)

	logger.Info("route tables built",
		"source", cfg.Source.File,
		"routes", dynamic.Len(),
		"collisions", len(collisions),
		"fixed_endpoints", fixed.Len(),
	)

	return &Server{
		cfg:           cfg,
		dynamic:       dynamic,
		fixed:         fixed,
		forwarder:     forwarder,
		healthHandler: health.NewHandler(version),
		metrics:       m,
		logger:        logger,
		version:       version,
	}, nil
}

// Start begins listening and serving. It blocks until the context is
// canceled or an unrecoverable error occurs.
func (s *Server) Start(ctx context.Context) error {
	if s.cfg.Source.Watch {
		err := source.Watch(ctx, s.cfg.Source.File, s.cfg.Source.Debounce.Duration,
			s.logger, s.metrics.RecordSourceChange)
		if err != nil {
			s.logger.Warn("url source watcher unavailable", "error", err)
		}
	}

	handler := s.handler()

	listenAddr := fmt.Sprintf("%s:%d", s.cfg.Listen.Host, s.cfg.Listen.Port)

	// Use injected listener or create one
	ln := s.listener
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", listenAddr)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", listenAddr, err)
		}

		if s.cfg.Listen.MaxConnections > 0 {
			ln = newLimitedListener(ln, s.cfg.Listen.MaxConnections)
		}
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", listenAddr)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Shutdown.Timeout.Duration)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	s.logger.Info("server stopped gracefully")
	return nil
}

// Shutdown performs graceful shutdown of the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	hs := s.httpServer
	s.mu.Unlock()

	if hs != nil {
		if err := hs.Shutdown(ctx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}
	return nil
}

// handler builds the complete HTTP handler. Health and metrics bypass the
// rate limiter and access log; the proxy surfaces go through both.
func (s *Server) handler() http.Handler {
	proxyMux := http.NewServeMux()
	proxyMux.HandleFunc("/ws", s.handleIndex)
	proxyMux.HandleFunc("/ws/", s.handleDynamic)
	proxyMux.HandleFunc("/api", s.handleFixedIndex)
	proxyMux.HandleFunc("/api/", s.handleFixed)

	var proxied http.Handler = proxyMux
	if s.cfg.Listen.GlobalRateLimit > 0 {
		proxied = newGlobalRateLimiter(s.cfg.Listen.GlobalRateLimit, s.metrics).wrap(proxied)
	}
	proxied = accessLog(proxied, s.logger)

	mux := http.NewServeMux()
	mux.Handle("/health", s.healthHandler)
	mux.HandleFunc("/metrics", s.metrics.Handler())
	mux.Handle("/ws", proxied)
	mux.Handle("/ws/", proxied)
	mux.Handle("/api", proxied)
	mux.Handle("/api/", proxied)

	return mux
}

// handleDynamic dispatches a request on a derived route. One generic
// handler serves every table entry: the RouteSpec is looked up at dispatch
// time, not captured per route.
func (s *Server) handleDynamic(w http.ResponseWriter, r *http.Request) {
	// Inbound paths normalize the same way derived routes do, so
	// /ws/8080/x/ and /ws/8080/x hit the same entry.
	path := strings.TrimRight(r.URL.Path, "/")
	if path == "" {
		path = "/"
	}

	spec, ok := s.dynamic.Lookup(path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	rec := newStatusRecorder(w)
	start := time.Now()
	if err := s.forwarder.Relay(rec, r, spec); err != nil {
		s.metrics.RecordUpstreamError(spec.Route)
	}
	s.metrics.RecordRequest(spec.Route, r.Method, rec.status, time.Since(start))
}

// handleFixed dispatches a request on a hand-declared device route.
// Only GET is exposed per entry.
func (s *Server) handleFixed(w http.ResponseWriter, r *http.Request) {
	spec, ok := s.fixed.Lookup(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rec := newStatusRecorder(w)
	start := time.Now()
	if err := s.forwarder.RelayFixed(rec, r, spec); err != nil {
		s.metrics.RecordUpstreamError(spec.Route)
	}
	s.metrics.RecordRequest(spec.Route, r.Method, rec.status, time.Since(start))
}

// handleIndex lists every registered dynamic route in table order.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"routes": s.dynamic.Routes()})
}

// handleFixedIndex lists the declared device endpoints in declaration order.
func (s *Server) handleFixedIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"endpoints": s.fixed.Routes()})
}

// buildLogger creates an slog.Logger based on configuration.
func buildLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var output *os.File
	switch cfg.Logging.Output {
	case "stderr":
		output = os.Stderr
	default:
		output = os.Stdout
	}

	var handler slog.Handler
	switch cfg.Logging.Format {
	case "text":
		handler = slog.NewTextHandler(output, opts)
	default:
		handler = slog.NewJSONHandler(output, opts)
	}

	return slog.New(handler)
}
