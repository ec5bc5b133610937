// Package web serves collected reports over HTTP, websocket and prometheus.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ramborogers/netninja/report"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const authHeader = "X-API-Token"

// Collector produces reports
type Collector interface {
	Collect(ctx context.Context) (*report.Report, error)
}

// Options configures the server
type Options struct {
	Addr           string
	AuthToken      string
	Interval       time.Duration
	AllowedOrigins []string
}

// Server represents the web interface server
type Server struct {
	opts      Options
	collector Collector
	upgrader  websocket.Upgrader
	registry  *prometheus.Registry
	logger    zerolog.Logger

	clients      map[*websocket.Conn]*sync.Mutex
	clientsMutex sync.RWMutex

	latest       *report.Report
	latestMutex  sync.RWMutex
	collectedOK  int
	collectedErr int

	subscribers []func(*report.Report)
}

// NewServer creates a new web interface server
func NewServer(opts Options, collector Collector) *Server {
	if opts.Interval <= 0 {
		opts.Interval = 10 * time.Second
	}
	s := &Server{
		opts:      opts,
		collector: collector,
		clients:   make(map[*websocket.Conn]*sync.Mutex),
		registry:  prometheus.NewRegistry(),
		logger:    log.With().Str("component", "web").Logger(),
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	s.registry.MustRegister(newReportCollector(s))
	return s
}

// Subscribe registers fn to receive every newly collected report
func (s *Server) Subscribe(fn func(*report.Report)) {
	s.subscribers = append(s.subscribers, fn)
}

// Latest returns the most recent report, or nil before the first collection
func (s *Server) Latest() *report.Report {
	s.latestMutex.RLock()
	defer s.latestMutex.RUnlock()
	return s.latest
}

func (s *Server) collectionCounts() (ok, failed int) {
	s.latestMutex.RLock()
	defer s.latestMutex.RUnlock()
	return s.collectedOK, s.collectedErr
}

// Handler builds the routed, logged HTTP handler
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/").Subrouter()
	api.Use(s.authMiddleware)
	api.HandleFunc("/api/status", s.handleStatus).Methods(http.MethodGet)
	api.HandleFunc("/api/security", s.handleSecurity).Methods(http.MethodGet)
	api.HandleFunc("/ws", s.handleWebSocket)
	api.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	var h http.Handler = r
	if len(s.opts.AllowedOrigins) > 0 {
		h = handlers.CORS(
			handlers.AllowedOrigins(s.opts.AllowedOrigins),
			handlers.AllowedMethods([]string{http.MethodGet}),
			handlers.AllowedHeaders([]string{authHeader}),
		)(h)
	}
	return handlers.CombinedLoggingHandler(zerologWriter{s.logger}, h)
}

// Run collects reports on the configured interval and serves HTTP until ctx
// is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.collectLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.opts.Addr).Msg("web server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.closeClients()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) collectLoop(ctx context.Context) {
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		s.CollectOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// CollectOnce collects a report, stores it and pushes it to websocket
// clients and subscribers.
func (s *Server) CollectOnce(ctx context.Context) {
	r, err := s.collector.Collect(ctx)
	if err != nil {
		s.latestMutex.Lock()
		s.collectedErr++
		s.latestMutex.Unlock()
		if ctx.Err() == nil {
			s.logger.Error().Err(err).Msg("report collection failed")
		}
		return
	}

	s.latestMutex.Lock()
	s.latest = r
	s.collectedOK++
	s.latestMutex.Unlock()

	s.BroadcastUpdate(r)
	for _, fn := range s.subscribers {
		fn(r)
	}
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.opts.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}

// authMiddleware checks the token from the auth query parameter or header
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.AuthToken == "" {
			next.ServeHTTP(w, r)
			return
		}
		token := r.URL.Query().Get("auth")
		if token == "" {
			token = r.Header.Get(authHeader)
		}
		if token != s.opts.AuthToken {
			s.logger.Warn().Str("remote", clientIP(r)).Str("path", r.URL.Path).Msg("access denied")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	latest := s.Latest()
	if latest == nil {
		http.Error(w, "no report collected yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, latest)
}

func (s *Server) handleSecurity(w http.ResponseWriter, r *http.Request) {
	latest := s.Latest()
	if latest == nil {
		http.Error(w, "no report collected yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary":  latest.Security.Summary(),
		"security": latest.Security,
	})
}

// handleWebSocket sends the latest report and then every new one
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Str("remote", clientIP(r)).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	writeMutex := &sync.Mutex{}
	s.clientsMutex.Lock()
	s.clients[conn] = writeMutex
	s.clientsMutex.Unlock()
	s.logger.Info().Str("remote", clientIP(r)).Msg("websocket client connected")

	defer func() {
		s.clientsMutex.Lock()
		delete(s.clients, conn)
		s.clientsMutex.Unlock()
		s.logger.Info().Str("remote", clientIP(r)).Msg("websocket client disconnected")
	}()

	if latest := s.Latest(); latest != nil {
		writeMutex.Lock()
		err := conn.WriteJSON(message{Type: "report", Report: latest})
		writeMutex.Unlock()
		if err != nil {
			return
		}
	}

	// Clients only send control frames; reading drives close detection
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug().Err(err).Msg("websocket read error")
			}
			return
		}
	}
}

type message struct {
	Type   string         `json:"type"`
	Report *report.Report `json:"report"`
}

// BroadcastUpdate sends a report to all connected websocket clients
func (s *Server) BroadcastUpdate(r *report.Report) {
	s.clientsMutex.RLock()
	var failed []*websocket.Conn
	for client, writeMutex := range s.clients {
		writeMutex.Lock()
		client.SetWriteDeadline(time.Now().Add(5 * time.Second))
		err := client.WriteJSON(message{Type: "report", Report: r})
		writeMutex.Unlock()
		if err != nil {
			s.logger.Debug().Err(err).Msg("failed to send update to client")
			failed = append(failed, client)
		}
	}
	s.clientsMutex.RUnlock()

	if len(failed) == 0 {
		return
	}
	s.clientsMutex.Lock()
	for _, client := range failed {
		delete(s.clients, client)
		client.Close()
	}
	s.clientsMutex.Unlock()
}

func (s *Server) closeClients() {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()
	for client := range s.clients {
		client.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		client.Close()
		delete(s.clients, client)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("failed to encode response")
	}
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// zerologWriter adapts a logger to the io.Writer used by the access log
type zerologWriter struct {
	logger zerolog.Logger
}

func (w zerologWriter) Write(p []byte) (int, error) {
	n := len(p)
	if n > 0 && p[n-1] == '\n' {
		p = p[:n-1]
	}
	w.logger.Info().Str("access", string(p)).Send()
	return n, nil
}
