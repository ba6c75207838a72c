// Package views renders the HTML pages.
package views

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/samber/oops"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names.
const (
	PageIndex    = "index.html"
	PageLogin    = "login.html"
	PageRegister = "register.html"
	PageError    = "error.html"
)

type IndexData struct {
	FirstName string
	LastName  string
	Email     string
}

type LoginData struct {
	Errors []string
	Email  string
}

// RegisterData carries the submitted values back to the form. It has no
// password field on purpose.
type RegisterData struct {
	Errors    []string
	Email     string
	FirstName string
	LastName  string
	DOB       string
}

type ErrorData struct {
	RequestID string
}

type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

func New(logger *slog.Logger) (*Renderer, error) {
	r := &Renderer{pages: map[string]*template.Template{}, logger: logger}
	for _, name := range []string{PageIndex, PageLogin, PageRegister, PageError} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, oops.Code("VIEW_PARSE_FAILED").With("page", name).Wrap(err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes page into a buffer first, so a template error never
// leaves a half-written response behind. Once the status is written,
// failures are logged rather than returned.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return oops.Code("VIEW_NOT_FOUND").With("page", page).Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return oops.Code("VIEW_RENDER_FAILED").With("page", page).Wrap(err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Warn("write response failed", "page", page, "error", err.Error())
	}
	return nil
}

// Static serves the embedded assets. Mount it under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
