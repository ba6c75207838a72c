package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"signin/internal/logging"
	"signin/internal/user"
)

// Service runs the registration and login flows. Validation failures are
// returned as messages in the result; the error return is reserved for
// collaborator faults (store, hasher).
type Service struct {
	users     user.Store
	hasher    PasswordHasher
	validator *Validator
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(users user.Store, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		users:     users,
		hasher:    hasher,
		validator: NewValidator(users),
		logger:    logger,
		now:       time.Now,
	}
}

type RegisterResult struct {
	User   *user.User
	Errors []string
}

type LoginResult struct {
	UserID uint64
	Errors []string
}

// OK reports whether the credentials were accepted.
func (r LoginResult) OK() bool {
	return len(r.Errors) == 0 && r.UserID != 0
}

func (s *Service) Register(ctx context.Context, f RegisterForm) (RegisterResult, error) {
	reg, msgs, err := s.validator.Registration(ctx, f)
	if err != nil {
		return RegisterResult{}, oops.Code("AUTH_REGISTER_FAILED").Wrap(err)
	}
	if len(msgs) > 0 {
		return RegisterResult{Errors: msgs}, nil
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return RegisterResult{}, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	u := &user.User{
		Email:        reg.Email,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		PasswordHash: hash,
		DateOfBirth:  reg.DateOfBirth,
		RegisteredAt: s.now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		// lost a race with a concurrent registration for the same email
		if errors.Is(err, user.ErrEmailTaken) {
			return RegisterResult{Errors: []string{MsgEmailTaken}}, nil
		}
		return RegisterResult{}, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "insert user").
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", u.ID)
	return RegisterResult{User: u}, nil
}

func (s *Service) Login(ctx context.Context, f LoginForm) (LoginResult, error) {
	creds, msgs, err := s.validator.Login(ctx, f)
	if err != nil {
		return LoginResult{}, oops.Code("AUTH_LOGIN_FAILED").Wrap(err)
	}
	if len(msgs) > 0 {
		return LoginResult{Errors: msgs}, nil
	}

	invalid := LoginResult{Errors: []string{MsgInvalidPassword}}

	u, err := s.users.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return invalid, nil
		}
		return LoginResult{}, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}

	ok, err := s.hasher.Verify(creds.Password, u.PasswordHash)
	if err != nil {
		// A broken stored hash is our fault, but the client still only
		// learns that the login failed.
		logging.LogError(s.logger, "stored password hash unusable", err, "user_id", u.ID)
		return invalid, nil
	}
	if !ok {
		return invalid, nil
	}

	return LoginResult{UserID: u.ID}, nil
}
