// internal/app/system/authutil/authutil.go

// Package authutil resolves admin account input (email, display name and
// password) into the values stored on a user, and checks passwords.
package authutil

import (
	"errors"
	"strings"

	"github.com/dalemusser/elaspodem/internal/app/system/normalize"
)

// Common validation errors
var (
	ErrEmailRequired    = errors.New("Email is required.")
	ErrInvalidEmail     = errors.New("Please enter a valid email address.")
	ErrPasswordRequired = errors.New("Password is required.")
)

// IsValidEmail performs a basic email format validation: one @ with a
// non-empty local part and a dotted domain.
func IsValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" {
		return false
	}
	domain := parts[1]
	dotIdx := strings.LastIndex(domain, ".")
	return dotIdx >= 1 && dotIdx < len(domain)-1
}

// AccountInput holds the raw values for a new or edited admin account.
type AccountInput struct {
	Email       string
	DisplayName string
	Password    string
	// PasswordOptional allows an empty password (editing an account, or
	// one that signs in with Google only).
	PasswordOptional bool
}

// Account holds validated fields ready for storage.
type Account struct {
	Email        string
	DisplayName  string
	PasswordHash *string
}

// ResolveAccount validates in and hashes its password. The email is
// normalised to lowercase; an empty display name falls back to the local
// part of the email.
func ResolveAccount(in AccountInput) (*Account, error) {
	email := normalize.Email(in.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if !IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	acc := &Account{Email: email, DisplayName: normalize.Name(in.DisplayName)}
	if acc.DisplayName == "" {
		acc.DisplayName = email[:strings.Index(email, "@")]
	}

	if in.Password == "" {
		if !in.PasswordOptional {
			return nil, ErrPasswordRequired
		}
		return acc, nil
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	acc.PasswordHash = &hash
	return acc, nil
}
