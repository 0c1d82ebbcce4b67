package webserver

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/blankbase/blankbase/internal/infrastructure/config"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Server is the page-serving frontend.
type Server struct {
	config    *config.Config
	logger    *zap.Logger
	server    *http.Server
	router    *chi.Mux
	store     Store
	templates *templateSet
	limiter   *ipLimiter
}

// NewServer creates the web frontend server.
func NewServer(cfg *config.Config, log *zap.Logger, store Store) (*Server, error) {
	parsed, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		config:    cfg,
		logger:    log.Named("web"),
		store:     store,
		templates: &templateSet{templates: parsed},
		limiter:   newIPLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
	}

	if cfg.UI.TemplateHotReload && cfg.UI.TemplateDir != "" {
		diskSet, err := template.ParseGlob(cfg.UI.TemplateDir + "/*.html")
		if err != nil {
			return nil, fmt.Errorf("parse templates from %s: %w", cfg.UI.TemplateDir, err)
		}
		s.templates.replace(diskSet)
		if err := s.watchTemplates(cfg.UI.TemplateDir); err != nil {
			return nil, fmt.Errorf("watch templates: %w", err)
		}
	}

	s.router = s.setupRoutes()
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.WebPort),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.rateLimitMiddleware)
	r.Use(s.sessionMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleHealth)
	r.Get("/live", s.handleHealth)

	r.Get("/", s.handleHome)
	r.Get("/members", s.handleMembersPage)
	r.Post("/members/notify", s.handleDemoToast)

	return r
}

// sessionMiddleware resolves the visitor's session, creating one on
// first contact, and persists it after the handler runs so toast
// mutations survive the redirect.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := s.loadOrCreateSession(w, r)
		ctx := context.WithValue(r.Context(), sessionContextKey{}, session)
		next.ServeHTTP(w, r.WithContext(ctx))

		if err := s.store.Save(r.Context(), session); err != nil {
			s.logger.Error("session save failed", zap.Error(err))
		}
	})
}

func (s *Server) loadOrCreateSession(w http.ResponseWriter, r *http.Request) *Session {
	if cookie, err := r.Cookie(s.config.Session.CookieName); err == nil {
		if session, err := s.store.Load(r.Context(), cookie.Value); err == nil {
			return session
		}
	}

	session := newSession(s.config.Session.TTL)
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.Session.CookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
	})
	return session
}

// pageData is the payload every page template receives.
type pageData struct {
	Title   string
	AppName string
	Version string
	Toasts  []Toast
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, name, title string) {
	data := pageData{
		Title:   title,
		AppName: s.config.App.Name,
		Version: s.config.App.Version,
	}
	if session := sessionFrom(r); session != nil {
		data.Toasts = session.PopToasts()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.current().ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("template render failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "home.html", "Home")
}

func (s *Server) handleMembersPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "members.html", "Members")
}

// handleDemoToast queues a flash message and redirects, exercising the
// POST-redirect-GET temp-data flow.
func (s *Server) handleDemoToast(w http.ResponseWriter, r *http.Request) {
	level := r.FormValue("level")
	switch level {
	case ToastSuccess, ToastInfo, ToastWarning, ToastError:
	default:
		level = ToastInfo
	}
	message := r.FormValue("message")
	if message == "" {
		message = "Hello from the server."
	}

	if session := sessionFrom(r); session != nil {
		session.EnqueueToast(level, message)
	}
	http.Redirect(w, r, "/members", http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"healthy","service":"%s","timestamp":%d}`,
		s.config.App.Name, time.Now().Unix())
}

// Router exposes the mux for tests.
func (s *Server) Router() *chi.Mux { return s.router }

// Start begins serving and blocks until the listener closes.
func (s *Server) Start() error {
	s.logger.Info("starting web server", zap.String("address", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down web server")
	return s.server.Shutdown(ctx)
}
