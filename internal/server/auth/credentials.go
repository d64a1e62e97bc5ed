// Package auth is the credential manager: bcrypt password hashes and HS256
// bearer tokens. It holds no global state; the signing key and lifetimes come
// from the config passed to NewManager.
package auth

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/blogmirror/internal/common"
	"github.com/dmitrijs2005/blogmirror/internal/server/config"
)

// temporaryPasswordBytes gives 11 URL-safe characters.
const temporaryPasswordBytes = 8

type Manager struct {
	secretKey      []byte
	cost           int
	accessTokenTTL time.Duration
	now            func() time.Time
}

type Option func(*Manager)

// WithClock replaces time.Now for token issue and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(cfg *config.Config, opts ...Option) *Manager {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	m := &Manager{
		secretKey:      []byte(cfg.SecretKey),
		cost:           cost,
		accessTokenTTL: cfg.AccessTokenValidityDuration,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Hash returns a salted bcrypt hash of password. Two calls with the same
// password give different hashes that both verify.
func (m *Manager) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password too long", common.ErrValidationFailed)
		}
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. A malformed hash is a
// mismatch, never an error.
func (m *Manager) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// TemporaryPassword generates a random password for reset flows.
func (m *Manager) TemporaryPassword() (string, error) {
	return common.MakeRandURLString(temporaryPasswordBytes)
}
