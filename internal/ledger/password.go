package ledger

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the longest input bcrypt accepts
const maxPasswordBytes = 72

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// checkPassword compares against a bcrypt hash, or byte-for-byte when the
// stored value predates hashing.
func checkPassword(stored, password string) bool {
	if _, err := bcrypt.Cost([]byte(stored)); err == nil {
		// bcrypt ignores input past the limit, so a longer password would
		// match its own prefix
		if len(password) > maxPasswordBytes {
			return false
		}
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}
