package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// CompareDummy spends the same bcrypt work as a real comparison. Login calls it
// for unknown emails so response timing does not reveal which accounts exist.
func CompareDummy(plain string, cost int) {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password"), cost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
}
