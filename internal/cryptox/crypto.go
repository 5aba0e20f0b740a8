// Package cryptox wraps the password hashing used by the credential store.
package cryptox

import "golang.org/x/crypto/bcrypt"

// PasswordCost is the bcrypt work factor for stored password hashes.
const PasswordCost = 10

// ErrPasswordTooLong is returned for passwords bcrypt cannot hash (> 72 bytes).
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// hashFunc is a seam for tests that need a failing hasher.
var hashFunc = bcrypt.GenerateFromPassword

// HashPassword returns a salted bcrypt hash of password.
func HashPassword(password []byte) (string, error) {
	h, err := hashFunc(password, PasswordCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword reports whether password matches the stored hash. A
// malformed hash is treated as a mismatch.
func CheckPassword(hash string, password []byte) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), password) == nil
}
