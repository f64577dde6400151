package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/goliatone/go-churnform/internal/metrics"
	"github.com/goliatone/go-churnform/pkg/lifecycle"
	pkgmodel "github.com/goliatone/go-churnform/pkg/model"
	"github.com/goliatone/go-churnform/pkg/predict"
	"github.com/goliatone/go-churnform/pkg/render"
	"github.com/goliatone/go-churnform/pkg/renderers/vanilla"
)

const (
	// SessionCookie carries the session id.
	SessionCookie = "churnform_session"
	// CSRFField is the hidden input holding the per-session token.
	CSRFField = "_csrf"
)

// PageRenderer renders a view with a named renderer. It is satisfied by
// *orchestrator.Orchestrator.
type PageRenderer interface {
	Render(ctx context.Context, rendererName string, view render.View, options render.RenderOptions) ([]byte, string, error)
}

// LocaleNegotiator picks a locale from an Accept-Language header.
type LocaleNegotiator interface {
	Negotiate(acceptLanguage string) string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and lifecycle logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics enables collectors and the /metrics endpoint.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithTranslator localizes rendered pages.
func WithTranslator(translator render.Translator) Option {
	return func(s *Server) {
		s.translator = translator
	}
}

// WithLocale sets the fallback locale used when the request carries none.
func WithLocale(locale string) Option {
	return func(s *Server) {
		if locale != "" {
			s.locale = locale
		}
	}
}

// WithCORSOrigins allows cross-origin calls to the JSON API.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.corsOrigins = append(s.corsOrigins, origins...)
	}
}

// WithSessionTTL sets the idle session lifetime.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithControllerOptions forwards options to every session controller.
func WithControllerOptions(options ...lifecycle.Option) Option {
	return func(s *Server) {
		s.controllerOptions = append(s.controllerOptions, options...)
	}
}

// Server exposes the churn form over HTTP, one controller per browser
// session.
type Server struct {
	form      pkgmodel.FormModel
	predictor predict.Predictor
	pages     PageRenderer

	logger            *zap.Logger
	metrics           *metrics.Metrics
	translator        render.Translator
	locale            string
	corsOrigins       []string
	sessionTTL        time.Duration
	controllerOptions []lifecycle.Option

	sessions *SessionStore
	router   chi.Router
}

// New wires the routes. form is the decorated form model, pages renders the
// HTML page.
func New(form pkgmodel.FormModel, predictor predict.Predictor, pages PageRenderer, options ...Option) (*Server, error) {
	if predictor == nil {
		return nil, eris.New("server: predictor is required")
	}
	if pages == nil {
		return nil, eris.New("server: page renderer is required")
	}

	s := &Server{
		form:       form,
		predictor:  predictor,
		pages:      pages,
		logger:     zap.NewNop(),
		locale:     "en",
		sessionTTL: 30 * time.Minute,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	s.sessions = NewSessionStore(s.newController, s.sessionTTL)
	if s.metrics != nil {
		s.sessions.onOpen = s.metrics.SessionOpened
		s.sessions.onClose = s.metrics.SessionClosed
	}

	// Fail early on a form the controller cannot seed.
	if _, err := s.newController(); err != nil {
		return nil, eris.Wrap(err, "server: build controller")
	}

	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions exposes the session store.
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

func (s *Server) newController() (*lifecycle.Controller, error) {
	options := []lifecycle.Option{
		lifecycle.WithLogger(s.logger),
	}
	if s.metrics != nil {
		options = append(options, lifecycle.WithObserver(s.metrics.Observer()))
	}
	options = append(options, s.controllerOptions...)
	return lifecycle.New(s.form, s.predictor, options...)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(vanilla.AssetsFS()))))
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Get("/", s.handlePage)
	r.Post("/", s.handlePageSubmit)

	r.Route("/api", func(r chi.Router) {
		if len(s.corsOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   s.corsOrigins,
				AllowedMethods:   []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodOptions},
				AllowedHeaders:   []string{"Accept", "Content-Type"},
				AllowCredentials: true,
				MaxAge:           300,
			}))
		}
		r.Get("/state", s.handleState)
		r.Put("/fields/{name}", s.handleSetField)
		r.Post("/submit", s.handleSubmit)
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(started)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// Serve listens on addr until ctx is canceled, then shuts down within
// shutdownTimeout. Idle sessions are swept while serving.
func (s *Server) Serve(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return eris.Wrap(err, "server: listen")
	}
	return s.serveListener(ctx, listener, shutdownTimeout)
}

func (s *Server) serveListener(ctx context.Context, listener net.Listener, shutdownTimeout time.Duration) error {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go s.sessions.Janitor(janitorCtx, 0)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()
	s.logger.Info("starting server", zap.String("addr", listener.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return eris.Wrap(err, "server: serve")
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "server: shutdown")
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "server: serve")
	}
	return nil
}

// Addr formats a listen address for port.
func Addr(port int) string {
	return fmt.Sprintf(":%d", port)
}
