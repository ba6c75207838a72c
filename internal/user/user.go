// Package user holds the registered-user model and the credential store.
package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already in use")
)

type User struct {
	ID           uint64    `gorm:"primaryKey"`
	Email        string    `gorm:"type:text;not null"`
	FirstName    string    `gorm:"type:text;not null"`
	LastName     string    `gorm:"type:text;not null"`
	PasswordHash string    `gorm:"type:text;not null"`
	DateOfBirth  time.Time `gorm:"type:date;not null"`
	RegisteredAt time.Time `gorm:"type:timestamptz;not null;default:now()"`
}

// Store is the credential store. Lookups take canonical emails
// (see CanonicalEmail).
type Store interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint64) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// Create inserts u and sets u.ID. It returns ErrEmailTaken when the
	// email is already registered.
	Create(ctx context.Context, u *User) error
}

// CanonicalEmail trims and lowercases an address so that addresses
// differing only in case map to one account.
func CanonicalEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
