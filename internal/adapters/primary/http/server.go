package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/fredcamaral/vidspot/internal/adapters/secondary/monitoring"
	"github.com/fredcamaral/vidspot/internal/domain/entities"
	"github.com/fredcamaral/vidspot/internal/domain/ports"
)

// Server is the loopback bridge between the browser editing UI and the editor session
type Server struct {
	server   *http.Server
	listener net.Listener
	connMgr  *ConnectionManager
	session  ports.EditorSession
	renderer ports.Renderer
	media    http.Handler
	page     entities.EditorPage
	config   *entities.ServerConfig // Store server configuration
	logger   *HTTPLogger            // Structured logger
	monitor  *monitoring.ActivityMonitor
	limiter  *rateLimiter
	mu       sync.RWMutex
	running  bool
	url      string
}

// NewServer creates a new HTTP server
// config must not be nil - use config.GetDefaultConfig().Server if needed
func NewServer(session ports.EditorSession, renderer ports.Renderer, config *entities.ServerConfig) *Server {
	if config == nil {
		panic("server config cannot be nil - provide a valid ServerConfig")
	}
	return &Server{
		session:  session,
		renderer: renderer,
		connMgr:  NewConnectionManager(),
		config:   config,
		logger:   NewHTTPLogger("server", false),
		monitor:  monitoring.NewActivityMonitor(),
		limiter:  newRateLimiter(requestsPerWindow, rateWindow),
	}
}

// NewServerWithLogging creates a new HTTP server with logging configuration
func NewServerWithLogging(session ports.EditorSession, renderer ports.Renderer, config *entities.ServerConfig, loggingConfig *entities.LoggingConfig) *Server {
	s := NewServer(session, renderer, config)
	s.logger = NewHTTPLoggerFromConfig("server", loggingConfig)
	return s
}

// SetLogger sets the HTTP logger
func (s *Server) SetLogger(logger *HTTPLogger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
}

// SetMedia mounts the video source under /media/ and records how the shell page refers to it
func (s *Server) SetMedia(media http.Handler, page entities.EditorPage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.media = media
	s.page = page
}

// Page returns the editor page description
func (s *Server) Page() entities.EditorPage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

// Start listens on host:port and serves the bridge until Stop or ctx is done.
// Port 0 picks a free port; URL reports the address actually bound.
func (s *Server) Start(ctx context.Context, port int, host string) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	bridgeID := "bridge-" + uuid.NewString()
	events := s.session.Subscribe(bridgeID)

	go s.connMgr.Run(ctx)
	go s.forwardEvents(ctx, bridgeID, events)

	s.listener = listener
	s.url = listenURL(listener.Addr(), host)
	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.GetReadTimeout(),
		WriteTimeout: s.config.GetWriteTimeout(),
		IdleTimeout:  s.config.GetReadTimeout() * 2,
	}
	s.running = true
	server, logger, url := s.server, s.logger, s.url
	s.mu.Unlock()

	go func() {
		logger.Info("Editor bridge listening on %s", url)
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return errors.New("server not running")
	}

	// Close all WebSocket connections
	s.connMgr.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.GetShutdownTimeout())
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.running = false
	return nil
}

// IsRunning returns whether the server is currently running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// URL returns the base URL of the running server, "" before Start
func (s *Server) URL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.url
}

// Monitor returns the bridge activity counters
func (s *Server) Monitor() *monitoring.ActivityMonitor {
	return s.monitor
}

// Connections returns the number of connected editor tabs
func (s *Server) Connections() int {
	return s.connMgr.Count()
}

// Handler returns the complete handler chain: routes, middleware and CORS
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.config.GetCORSOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	})
	return c.Handler(s.setupRoutes())
}

// forwardEvents relays session events to every websocket client until the
// session closes or ctx is done
func (s *Server) forwardEvents(ctx context.Context, id string, events <-chan entities.SessionEvent) {
	for {
		select {
		case <-ctx.Done():
			s.session.Unsubscribe(id)
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			s.connMgr.Broadcast(sanitizeEvent(event))
		}
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() http.Handler {
	router := mux.NewRouter()

	// WebSocket endpoint
	router.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)
	api.HandleFunc("/session", s.handleCloseSession).Methods(http.MethodDelete)
	api.HandleFunc("/device", s.handleSetDevice).Methods(http.MethodPut)
	api.HandleFunc("/selection", s.handleSelect).Methods(http.MethodPost)

	api.HandleFunc("/hotspots", s.handleListHotspots).Methods(http.MethodGet)
	api.HandleFunc("/hotspots", s.handleCreateHotspot).Methods(http.MethodPost)
	api.HandleFunc("/hotspots/{id}", s.handleUpdateHotspot).Methods(http.MethodPatch)
	api.HandleFunc("/hotspots/{id}", s.handleDeleteHotspot).Methods(http.MethodDelete)
	api.HandleFunc("/hotspots/{id}/time/{field}", s.handleSetTime).Methods(http.MethodPut)

	api.HandleFunc("/hotspots/{id}/ctas", s.handleCreateCTA).Methods(http.MethodPost)
	api.HandleFunc("/hotspots/{id}/ctas/{ctaId}", s.handleUpdateCTA).Methods(http.MethodPatch)
	api.HandleFunc("/hotspots/{id}/ctas/{ctaId}", s.handleDeleteCTA).Methods(http.MethodDelete)
	api.HandleFunc("/hotspots/{id}/ctas/{ctaId}/click", s.handleClickCTA).Methods(http.MethodPost)

	// Video source
	router.HandleFunc("/media/{file}", s.handleMedia).Methods(http.MethodGet, http.MethodHead)

	// Editor shell
	router.HandleFunc("/", s.handleEditor).Methods(http.MethodGet)

	// Apply middleware in order: security -> rate limiting -> metrics -> logging -> recovery
	handler := securityHeadersMiddleware(router)
	handler = rateLimitMiddleware(handler, s.limiter)
	handler = metricsMiddleware(handler, s.monitor)
	handler = createLoggingMiddleware(handler, s.logger.WithComponent("http"))
	handler = createRecoveryMiddleware(handler, s.logger)

	return handler
}

// listenURL turns the bound address into a browsable URL; wildcard hosts become localhost
func listenURL(addr net.Addr, host string) string {
	port := 0
	if tcp, ok := addr.(*net.TCPAddr); ok {
		port = tcp.Port
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port))
}

// Ensure Server implements ports.HTTPServer
var _ ports.HTTPServer = (*Server)(nil)
