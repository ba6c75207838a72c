package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"signin/internal/auth"
	"signin/internal/http/views"
	"signin/internal/metrics"
	"signin/internal/session"
)

type AuthHandler struct {
	Svc      *auth.Service
	Sessions *session.Manager
	Views    *views.Renderer
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, views.PageRegister, views.RegisterData{})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, views.PageRegister, views.RegisterData{Errors: []string{"Malformed form submission"}})
		return
	}
	form := auth.RegisterForm{
		Email:     r.PostFormValue("email"),
		FirstName: r.PostFormValue("firstname"),
		LastName:  r.PostFormValue("lastname"),
		Password:  r.PostFormValue("password"),
		DOB:       r.PostFormValue("DOB"),
	}

	res, err := h.Svc.Register(r.Context(), form)
	if err != nil {
		h.Metrics.Registrations.WithLabelValues(metrics.OutcomeError).Inc()
		serverError(w, r, h.Views, h.Logger, "registration failed", err)
		return
	}
	if len(res.Errors) > 0 {
		h.Metrics.Registrations.WithLabelValues(metrics.OutcomeInvalid).Inc()
		h.render(w, r, views.PageRegister, views.RegisterData{
			Errors:    res.Errors,
			Email:     strings.TrimSpace(form.Email),
			FirstName: strings.TrimSpace(form.FirstName),
			LastName:  strings.TrimSpace(form.LastName),
			DOB:       strings.TrimSpace(form.DOB),
		})
		return
	}

	h.Metrics.Registrations.WithLabelValues(metrics.OutcomeSuccess).Inc()
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, views.PageLogin, views.LoginData{})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, views.PageLogin, views.LoginData{Errors: []string{"Malformed form submission"}})
		return
	}
	form := auth.LoginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	res, err := h.Svc.Login(r.Context(), form)
	if err != nil {
		h.Metrics.Logins.WithLabelValues(metrics.OutcomeError).Inc()
		serverError(w, r, h.Views, h.Logger, "login failed", err)
		return
	}
	if !res.OK() {
		h.Metrics.Logins.WithLabelValues(metrics.OutcomeInvalid).Inc()
		h.render(w, r, views.PageLogin, views.LoginData{
			Errors: res.Errors,
			Email:  strings.TrimSpace(form.Email),
		})
		return
	}

	if err := h.Sessions.Establish(w, session.FromContext(r.Context()), res.UserID); err != nil {
		h.Metrics.Logins.WithLabelValues(metrics.OutcomeError).Inc()
		serverError(w, r, h.Views, h.Logger, "session establish failed", err)
		return
	}

	h.Metrics.Logins.WithLabelValues(metrics.OutcomeSuccess).Inc()
	h.Logger.InfoContext(r.Context(), "user logged in", "user_id", res.UserID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Destroy(w, session.FromContext(r.Context()))
	h.Metrics.Logouts.Inc()
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) render(w http.ResponseWriter, r *http.Request, page string, data any) {
	if err := h.Views.Render(w, http.StatusOK, page, data); err != nil {
		serverError(w, r, h.Views, h.Logger, "render failed", err)
	}
}
