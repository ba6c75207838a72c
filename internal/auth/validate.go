package auth

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"

	"signin/internal/user"
)

// User-facing validation messages.
const (
	MsgEmailInvalid    = "Please enter a valid E-mail address!"
	MsgEmailTaken      = "This E-mail already in use!"
	MsgFirstNameEmpty  = "Firstname is empty"
	MsgLastNameEmpty   = "Lastname is empty"
	MsgPasswordShort   = "The password must be a minimum length of 6 characters"
	MsgPasswordLong    = "The password must be at most 72 bytes"
	MsgDateOfBirth     = "Date of birth must be a valid date"
	MsgLoginEmail      = "Invalid Email Address!"
	MsgLoginPassword   = "Password is empty!"
	MsgInvalidPassword = "Invalid password!"
)

const (
	dateLayout = "2006-01-02"

	// bcrypt ignores input past 72 bytes
	maxPasswordBytes = 72
)

// RegisterForm is the raw registration form.
type RegisterForm struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
	DOB       string
}

// Registration is a validated, normalized RegisterForm.
type Registration struct {
	Email       string
	FirstName   string
	LastName    string
	Password    string
	DateOfBirth time.Time
}

// LoginForm is the raw login form.
type LoginForm struct {
	Email    string
	Password string
}

// Credentials is a validated LoginForm.
type Credentials struct {
	Email    string
	Password string
}

// Validator applies the form rules. Each rule is checked independently
// and every failure is reported, in field order. A non-nil error means
// the store could not be queried; it is never a validation failure.
type Validator struct {
	users user.Store
	v     *validator.Validate
}

func NewValidator(users user.Store) *Validator {
	return &Validator{users: users, v: validator.New()}
}

// Registration returns either the normalized fields or the messages,
// never both.
func (val *Validator) Registration(ctx context.Context, f RegisterForm) (*Registration, []string, error) {
	var msgs []string
	out := &Registration{
		Email:     user.CanonicalEmail(f.Email),
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
		Password:  strings.TrimSpace(f.Password),
	}

	if val.v.Var(out.Email, "required,email") != nil {
		msgs = append(msgs, MsgEmailInvalid)
	} else {
		taken, err := val.users.EmailExists(ctx, out.Email)
		if err != nil {
			return nil, nil, oops.Code("AUTH_VALIDATION_FAILED").
				With("operation", "email uniqueness check").
				Wrap(err)
		}
		if taken {
			msgs = append(msgs, MsgEmailTaken)
		}
	}

	if out.FirstName == "" {
		msgs = append(msgs, MsgFirstNameEmpty)
	}
	if out.LastName == "" {
		msgs = append(msgs, MsgLastNameEmpty)
	}

	if val.v.Var(out.Password, "min=6") != nil {
		msgs = append(msgs, MsgPasswordShort)
	} else if len(out.Password) > maxPasswordBytes {
		msgs = append(msgs, MsgPasswordLong)
	}

	dob := strings.TrimSpace(f.DOB)
	if val.v.Var(dob, "required,datetime="+dateLayout) != nil {
		msgs = append(msgs, MsgDateOfBirth)
	} else {
		// datetime already accepted the layout
		out.DateOfBirth, _ = time.Parse(dateLayout, dob)
	}

	if len(msgs) > 0 {
		return nil, msgs, nil
	}
	return out, nil, nil
}

// Login checks that the email belongs to a registered user and that a
// password was given. Malformed and unknown emails get the same message.
func (val *Validator) Login(ctx context.Context, f LoginForm) (*Credentials, []string, error) {
	var msgs []string
	out := &Credentials{
		Email:    user.CanonicalEmail(f.Email),
		Password: strings.TrimSpace(f.Password),
	}

	if val.v.Var(out.Email, "required,email") != nil {
		msgs = append(msgs, MsgLoginEmail)
	} else {
		found, err := val.users.EmailExists(ctx, out.Email)
		if err != nil {
			return nil, nil, oops.Code("AUTH_VALIDATION_FAILED").
				With("operation", "email existence check").
				Wrap(err)
		}
		if !found {
			msgs = append(msgs, MsgLoginEmail)
		}
	}

	if out.Password == "" {
		msgs = append(msgs, MsgLoginPassword)
	}

	if len(msgs) > 0 {
		return nil, msgs, nil
	}
	return out, nil, nil
}
