package user

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/samber/oops"
	"gorm.io/gorm"
)

type GormStore struct {
	DB *gorm.DB
}

// emailMatch is the expression uq_users_email is built on, so email
// lookups are index scans.
const emailMatch = "lower(email) = ?"

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := s.DB.WithContext(ctx).Where(emailMatch, CanonicalEmail(email)).Take(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, oops.Code("USER_QUERY_FAILED").
			With("operation", "find by email").
			Wrap(err)
	}
	return &u, nil
}

func (s *GormStore) FindByID(ctx context.Context, id uint64) (*User, error) {
	var u User
	if err := s.DB.WithContext(ctx).Where("id = ?", id).Take(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, oops.Code("USER_QUERY_FAILED").
			With("operation", "find by id").
			With("user_id", id).
			Wrap(err)
	}
	return &u, nil
}

func (s *GormStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&User{}).Where(emailMatch, CanonicalEmail(email)).Count(&n).Error; err != nil {
		return false, oops.Code("USER_QUERY_FAILED").
			With("operation", "email exists").
			Wrap(err)
	}
	return n > 0, nil
}

func (s *GormStore) Create(ctx context.Context, u *User) error {
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			Wrap(err)
	}
	return nil
}

// isUniqueViolation recognizes a duplicate key from either driver,
// or from gorm when TranslateError is on.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgerrcode.UniqueViolation
	}
	return false
}
