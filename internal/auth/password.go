package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// DummyHash is a bcrypt hash at the default cost that no account uses.
// Comparing against it makes a login for an unknown user cost as much as
// one with a wrong password.
func DummyHash() string {
	dummyOnce.Do(func() {
		dummyHash, _ = HashPassword("snapshoot unknown account")
	})
	return dummyHash
}
