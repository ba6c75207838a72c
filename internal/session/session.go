// Package session keeps login state in a signed, client-held cookie.
// The server stores nothing; a cookie whose signature verifies and which
// has not expired is trusted as presented.
package session

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/samber/oops"
)

const (
	CookieName = "session"
	DefaultTTL = 30 * time.Minute
)

// Session is the per-request login state. The zero value is anonymous.
type Session struct {
	IsLoggedIn bool
	UserID     uint64
	IssuedAt   time.Time
}

// IsAuthenticated reports whether s belongs to a logged-in user.
func IsAuthenticated(s *Session) bool {
	return s != nil && s.IsLoggedIn && s.UserID != 0
}

type Options struct {
	// Secrets sign and verify cookies. Secrets[0] signs new cookies.
	Secrets [][]byte
	TTL     time.Duration
	Secure  bool
	Logger  *slog.Logger
}

type Manager struct {
	keys   [][]byte
	ttl    time.Duration
	secure bool
	logger *slog.Logger
	now    func() time.Time
}

func NewManager(opts Options) (*Manager, error) {
	var keys [][]byte
	for _, k := range opts.Secrets {
		if len(k) > 0 {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil, oops.Code("SESSION_CONFIG_INVALID").Errorf("at least one session secret is required")
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		keys:   keys,
		ttl:    ttl,
		secure: opts.Secure,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Load returns the session carried by r. A missing, tampered, or expired
// cookie yields an anonymous session; Load never fails.
func (m *Manager) Load(r *http.Request) *Session {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return &Session{}
	}
	s, err := m.decode(c.Value)
	if err != nil {
		m.logger.DebugContext(r.Context(), "ignoring session cookie", "error", err.Error())
		return &Session{}
	}
	return s
}

// Establish marks s as logged in as userID and writes a freshly signed
// cookie. Call it only after the user's password has been verified.
func (m *Manager) Establish(w http.ResponseWriter, s *Session, userID uint64) error {
	if userID == 0 {
		return oops.Code("SESSION_ESTABLISH_FAILED").Errorf("user id is required")
	}

	next := Session{IsLoggedIn: true, UserID: userID, IssuedAt: m.now()}
	token, err := m.encode(&next)
	if err != nil {
		return oops.Code("SESSION_ESTABLISH_FAILED").
			With("user_id", userID).
			Wrap(err)
	}

	*s = next
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		Expires:  next.IssuedAt.Add(m.ttl),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Destroy resets s to anonymous and tells the client to drop the cookie.
func (m *Manager) Destroy(w http.ResponseWriter, s *Session) {
	*s = Session{}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the request's session, or an anonymous one if the
// middleware did not run.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(ctxKey{}).(*Session); ok && s != nil {
		return s
	}
	return &Session{}
}
