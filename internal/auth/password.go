package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when no account matches so that unknown
// emails cost the same bcrypt work as wrong passwords.
var (
	dummyHash     []byte
	dummyHashOnce sync.Once
)

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
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

// BurnPasswordCheck performs a comparison whose result is discarded.
func BurnPasswordCheck(plain string, cost int) {
	dummyHashOnce.Do(func() {
		hashed, err := HashPassword("not-a-real-password", cost)
		if err == nil {
			dummyHash = []byte(hashed)
		}
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
}
