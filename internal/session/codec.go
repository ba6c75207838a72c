package session

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// claims is the cookie payload, carried as an HS256 JWS.
type claims struct {
	LoggedIn bool   `json:"logged_in"`
	UserID   uint64 `json:"uid,omitempty"`
	jwt.RegisteredClaims
}

func (m *Manager) encode(s *Session) (string, error) {
	c := claims{
		LoggedIn: s.IsLoggedIn,
		UserID:   s.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(s.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(s.IssuedAt.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.keys[0])
}

// decode verifies raw against every key in turn. Only a signature
// mismatch moves on to the next key.
func (m *Manager) decode(raw string) (*Session, error) {
	var lastErr error
	for _, key := range m.keys {
		var c claims
		_, err := jwt.ParseWithClaims(raw, &c,
			func(*jwt.Token) (any, error) { return key, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
			jwt.WithTimeFunc(m.now),
		)
		if err == nil {
			s := &Session{IsLoggedIn: c.LoggedIn, UserID: c.UserID}
			if c.IssuedAt != nil {
				s.IssuedAt = c.IssuedAt.Time.UTC()
			}
			return s, nil
		}
		if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}
