package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"signin/internal/http/views"
	"signin/internal/session"
	"signin/internal/user"
)

type HomeHandler struct {
	Users    user.Store
	Sessions *session.Manager
	Views    *views.Renderer
	Logger   *slog.Logger
}

// Index expects an authenticated session; anonymous visitors are routed
// to LoginPrompt by the router.
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	u, err := h.Users.FindByID(r.Context(), sess.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// signed cookie for a user that no longer exists
			h.Sessions.Destroy(w, sess)
			h.LoginPrompt(w, r)
			return
		}
		serverError(w, r, h.Views, h.Logger, "load current user failed", err)
		return
	}

	data := views.IndexData{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
	if err := h.Views.Render(w, http.StatusOK, views.PageIndex, data); err != nil {
		serverError(w, r, h.Views, h.Logger, "render failed", err)
	}
}

func (h *HomeHandler) LoginPrompt(w http.ResponseWriter, r *http.Request) {
	if err := h.Views.Render(w, http.StatusOK, views.PageLogin, views.LoginData{}); err != nil {
		serverError(w, r, h.Views, h.Logger, "render failed", err)
	}
}
