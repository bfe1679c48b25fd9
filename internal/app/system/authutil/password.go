// internal/app/system/authutil/password.go
package authutil

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Password limits. bcrypt reads at most 72 bytes, so longer passwords are
// refused rather than silently truncated.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
	BcryptCost        = 12
)

var (
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters.")
	ErrPasswordTooLong  = errors.New("Password must be at most 72 bytes.")
	ErrPasswordCommon   = errors.New("This password is too common. Please choose a different one.")
)

// common holds passwords refused whatever their length. Keys are lower case.
var common = func() map[string]struct{} {
	words := strings.Fields(`
		123456 1234567 12345678 123456789 111111 000000 123123 654321
		password password1 qwerty qwerty123 abc123 iloveyou letmein welcome
		admin admin123 senha senha123 mudar123 brasil flamengo elaspodem`)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}()

// PasswordRules describes what ValidatePassword accepts, for form hints.
func PasswordRules() string {
	return `Password must be 6 to 72 characters and cannot be a common password like "123456" or "senha".`
}

// ValidatePassword returns nil for an acceptable new password, or one of the
// ErrPassword errors, whose text is fit to show the user.
func ValidatePassword(password string) error {
	switch n := len(password); {
	case n < MinPasswordLength:
		return ErrPasswordTooShort
	case n > MaxPasswordLength:
		return ErrPasswordTooLong
	}
	if _, ok := common[strings.ToLower(password)]; ok {
		return ErrPasswordCommon
	}
	return nil
}

// HashPassword returns the bcrypt hash of a validated password.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	return string(b), err
}

// CheckPassword reports whether password matches hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// noAccountHash stands in for a missing hash so that sign-in against an
// account without a password takes as long as a wrong password.
var noAccountHash, _ = bcrypt.GenerateFromPassword([]byte("elaspodem-no-account"), BcryptCost)

// VerifyPassword checks password against an optional stored hash. A nil or
// empty hash never matches.
func VerifyPassword(hash *string, password string) bool {
	if hash != nil && *hash != "" {
		return CheckPassword(password, *hash)
	}
	_ = bcrypt.CompareHashAndPassword(noAccountHash, []byte(password))
	return false
}
