package password

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the bcrypt work factor used for every stored credential.
	DefaultCost = bcrypt.DefaultCost
)

var (
	ErrEmptyPassword   = errors.New("password cannot be empty")
	ErrHashingPassword = errors.New("error hashing password")
)

var (
	dummyOnce sync.Once
	dummyHash string
)

// Hash returns a salted bcrypt hash of password. Two calls with the same input never return the same hash.
func Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHashingPassword, err)
	}

	return string(bytes), nil
}

// Verify reports whether password matches hash. Malformed hashes and empty input never match.
func Verify(password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// DummyHash returns a process-wide bcrypt hash at DefaultCost that matches no real credential.
func DummyHash() string {
	dummyOnce.Do(func() {
		bytes, err := bcrypt.GenerateFromPassword([]byte("tasktrack:no-such-account"), DefaultCost)
		if err == nil {
			dummyHash = string(bytes)
		}
	})

	return dummyHash
}

// Discard compares password against DummyHash so a lookup miss costs the same as a wrong password.
func Discard(password string) {
	_ = Verify(password, DummyHash())
}
