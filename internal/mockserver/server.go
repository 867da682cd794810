// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mockserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/util"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultPort is the default port for the mock server.
	DefaultPort = 8787

	// MaxRequestBodySize caps request bodies (64KB).
	MaxRequestBodySize = 64 * 1024

	// DefaultRate is the sustained requests per second allowed per server.
	DefaultRate = 20

	// maxEcho is the widest quoted message in a reply, in terminal cells.
	maxEcho = 83
)

// Shape names a response form.
type Shape string

const (
	ShapeOutput     Shape = "output"
	ShapeReply      Shape = "reply"
	ShapeArray      Shape = "array"
	ShapeText       Shape = "text"
	ShapeMislabeled Shape = "mislabeled"
	ShapeError      Shape = "error"
	ShapeCycle      Shape = "cycle"
)

// cycleOrder is the rotation used by ShapeCycle.
var cycleOrder = []Shape{ShapeOutput, ShapeReply, ShapeArray, ShapeText, ShapeMislabeled, ShapeError}

// Shapes lists every accepted shape name.
func Shapes() []Shape {
	return append(append([]Shape(nil), cycleOrder...), ShapeCycle)
}

// ParseShape validates a shape name.
func ParseShape(s string) (Shape, error) {
	shape := Shape(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Shapes() {
		if shape == known {
			return shape, nil
		}
	}
	return "", errors.Errorf("unknown shape %q", s)
}

// ============================================================================
// SERVER
// ============================================================================

// Options configures a Server.
type Options struct {
	Port    int
	Shape   Shape
	Latency time.Duration // artificial delay before answering
	Rate    float64       // requests per second, 0 = DefaultRate
	Origins []string      // CORS allowed origins, default localhost
}

// Server is the mock conversational endpoint.
type Server struct {
	opts    Options
	router  *chi.Mux
	limiter *rate.Limiter
	logger  zerolog.Logger
	counter atomic.Uint64

	mu     sync.Mutex
	server *http.Server
}

// New creates a server. Zero-valued options take defaults.
func New(opts Options) *Server {
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	if opts.Shape == "" {
		opts.Shape = ShapeCycle
	}
	if opts.Rate <= 0 {
		opts.Rate = DefaultRate
	}
	if len(opts.Origins) == 0 {
		opts.Origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}

	s := &Server{
		opts:    opts,
		router:  chi.NewRouter(),
		limiter: rate.NewLimiter(rate.Limit(opts.Rate), burstFor(opts.Rate)),
		logger:  log.With().Str("component", "mockserver").Logger(),
	}
	s.setupRoutes()
	return s
}

// burstFor lets at least one request through at any positive rate.
func burstFor(r float64) int {
	return max(1, int(math.Ceil(r)))
}

// Handler returns the HTTP handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Port returns the configured port.
func (s *Server) Port() int {
	return s.opts.Port
}

// ============================================================================
// ROUTES
// ============================================================================

func (s *Server) setupRoutes() {
	s.router.Use(
		middleware.RequestID,
		RecoveryMiddleware(s.logger),
		LoggingMiddleware(s.logger),
		cors.Handler(cors.Options{
			AllowedOrigins: s.opts.Origins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}),
		RateLimitMiddleware(s.limiter),
	)

	s.router.Get("/health", s.handleHealth)
	s.router.Post("/", s.handleChat)
	s.router.Post("/{shape}", s.handleChat)
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "shape": string(s.opts.Shape)})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	var env model.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		s.writeError(w, http.StatusBadRequest, "body must be a JSON object with session and message")
		return
	}
	if strings.TrimSpace(env.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	shape := s.opts.Shape
	if forced := chi.URLParam(r, "shape"); forced != "" {
		shape, err = ParseShape(forced)
		if err != nil {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
	}
	n := s.counter.Add(1)
	if shape == ShapeCycle {
		shape = cycleOrder[(n-1)%uint64(len(cycleOrder))]
	}

	if s.opts.Latency > 0 {
		select {
		case <-time.After(s.opts.Latency):
		case <-r.Context().Done():
			return
		}
	}

	reply := Reply(env, n)
	s.logger.Debug().Str("session", env.Session).Str("shape", string(shape)).Msg("answering")
	s.writeShape(w, shape, reply)
}

// Reply builds the canned reply text for a request.
func Reply(env model.Envelope, n uint64) string {
	msg := util.TruncateWidth(strings.TrimSpace(env.Message), maxEcho)
	return fmt.Sprintf("Reply #%d: you said **%s**.", n, msg)
}

func (s *Server) writeShape(w http.ResponseWriter, shape Shape, reply string) {
	switch shape {
	case ShapeOutput:
		s.writeJSON(w, http.StatusOK, map[string]string{"output": reply})
	case ShapeReply:
		s.writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
	case ShapeArray:
		s.writeJSON(w, http.StatusOK, []string{reply, "ignored"})
	case ShapeText:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, reply)
	case ShapeMislabeled:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, reply)
	default:
		s.writeError(w, http.StatusInternalServerError, "simulated failure")
	}
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Start listens on 127.0.0.1:<port> and serves until Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", s.opts.Port))
	if err != nil {
		return errors.Wrap(err, "listen")
	}
	return s.Serve(ln)
}

// Serve serves on an existing listener until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2*time.Minute + s.opts.Latency,
		IdleTimeout:  120 * time.Second,
	}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	s.logger.Info().Str("addr", ln.Addr().String()).Str("shape", string(s.opts.Shape)).Msg("mock server listening")
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	s.logger.Info().Msg("mock server shutting down")
	return srv.Shutdown(ctx)
}

// ============================================================================
// HELPERS
// ============================================================================

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
