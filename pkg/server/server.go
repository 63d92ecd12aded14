// Package server exposes a Workspace over a JSON HTTP API and streams
// committed changes to renderers over WebSocket.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/haivivi/kgview/pkg/persist"
	"github.com/haivivi/kgview/pkg/session"
)

// Server serves one Workspace.
type Server struct {
	ws       *persist.Workspace
	sessions *session.Store
	log      *zap.Logger
	origins  []string
	upgrader websocket.Upgrader
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSessions enables the /sessions endpoints and the session query
// parameter of /records.
func WithSessions(st *session.Store) Option {
	return func(s *Server) { s.sessions = st }
}

// WithAllowedOrigins sets the origins allowed by CORS and by the
// WebSocket handshake. Empty allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// New returns a Server for ws.
func New(ws *persist.Workspace, opts ...Option) *Server {
	s := &Server{ws: ws, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.log))

	origins := s.origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/stats", s.stats)
		r.Route("/vertices", func(r chi.Router) {
			r.Get("/", s.listVertices)
			r.Post("/", s.insertVertex)
			r.Get("/{label}", s.getVertex)
			r.Delete("/{label}", s.removeVertex)
		})
		r.Route("/edges", func(r chi.Router) {
			r.Get("/", s.listEdges)
			r.Post("/", s.insertEdge)
			r.Delete("/", s.removeEdge)
		})
		r.Get("/adjacent", s.adjacent)
		r.Get("/relations", s.relations)
		r.Get("/records", s.records)
		r.Route("/sessions", func(r chi.Router) {
			r.Use(s.requireSessions)
			r.Get("/", s.listSessions)
			r.Post("/", s.createSession)
			r.Get("/{id}", s.getSession)
			r.Put("/{id}", s.putSession)
			r.Delete("/{id}", s.deleteSession)
		})
		r.Get("/ws", s.feed)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.origins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range s.origins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			)
		})
	}
}
