package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword applies bcrypt with a server-side pepper, used for both
// tenant Users and platform Admins.
func HashPassword(raw, pepper string) (string, error) {
	salted := fmt.Sprintf("%s%s", raw, pepper)
	hash, err := bcrypt.GenerateFromPassword([]byte(salted), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a stored hash against a candidate password.
func CheckPassword(hash, raw, pepper string) error {
	salted := fmt.Sprintf("%s%s", raw, pepper)
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(salted))
}
