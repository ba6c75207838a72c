package session

import "net/http"

// Middleware loads the session once per request and threads it through
// the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := m.Load(r)
		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), s)))
	})
}

// RequireAnonymous sends logged-in users to target instead of serving
// the login and registration pages.
func RequireAnonymous(target string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsAuthenticated(FromContext(r.Context())) {
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthenticated serves fallback in place of next for anonymous
// users. No redirect is issued.
func RequireAuthenticated(fallback http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAuthenticated(FromContext(r.Context())) {
				fallback.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
