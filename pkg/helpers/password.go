package helpers

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is where bcrypt stops reading input.
const maxPasswordBytes = 72

var ErrPasswordTooLong = errors.New("password is longer than 72 bytes")

// PasswordCost is the bcrypt work factor used by HashPassword.
var PasswordCost = bcrypt.DefaultCost

// HashPassword hashes an account password. Passwords over 72 bytes are
// rejected rather than silently truncated.
func HashPassword(plain string) (string, error) {
	if len(plain) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword reports whether plain matches the stored hash. An
// empty or malformed hash never matches.
func CompareHashAndPassword(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
