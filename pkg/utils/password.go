package utils

import "golang.org/x/crypto/bcrypt"

// bcrypt cost 10 keeps hashing around ~100ms on current hardware.
const bcryptCost = 10

// HashPassword hashes a password with bcrypt. The salt is embedded in the
// returned digest.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored digest.
// Any mismatch, including a malformed digest, is false rather than an error.
func CheckPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
