package handler

import (
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"signin/internal/http/views"
	"signin/internal/logging"
)

// serverError logs err and answers with the generic error page.
func serverError(w http.ResponseWriter, r *http.Request, v *views.Renderer, logger *slog.Logger, msg string, err error) {
	reqID := chimw.GetReqID(r.Context())
	logging.LogError(logger, msg, err, "request_id", reqID, "path", r.URL.Path)

	if v != nil {
		if rerr := v.Render(w, http.StatusInternalServerError, views.PageError, views.ErrorData{RequestID: reqID}); rerr == nil {
			return
		}
	}
	http.Error(w, "server error", http.StatusInternalServerError)
}
