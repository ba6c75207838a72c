package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"signin/internal/auth"
	"signin/internal/config"
	"signin/internal/http/handler"
	mw "signin/internal/http/middleware"
	"signin/internal/http/views"
	"signin/internal/metrics"
	"signin/internal/session"
	"signin/internal/user"
)

func NewRouter(cfg config.Config, users user.Store, sessions *session.Manager, m *metrics.Metrics, logger *slog.Logger) (http.Handler, error) {
	v, err := views.New(logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.AccessLog(logger))
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", m.Handler())
	r.Handle("/static/*", views.Static())

	svc := auth.NewService(users, auth.NewBcryptHasher(cfg.BcryptCost), logger)
	ah := &handler.AuthHandler{Svc: svc, Sessions: sessions, Views: v, Metrics: m, Logger: logger}
	home := &handler.HomeHandler{Users: users, Sessions: sessions, Views: v, Logger: logger}

	r.Group(func(r chi.Router) {
		r.Use(sessions.Middleware)

		r.With(session.RequireAuthenticated(http.HandlerFunc(home.LoginPrompt))).Get("/", home.Index)

		r.Group(func(r chi.Router) {
			r.Use(session.RequireAnonymous("/"))

			r.Get("/register", ah.RegisterForm)
			r.Post("/register", ah.Register)
			r.Get("/login", ah.LoginForm)
			r.Post("/login", ah.Login)
		})

		r.Post("/logout", ah.Logout)
	})

	return r, nil
}
