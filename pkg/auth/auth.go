package auth

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/harunnryd/callpanel/pkg/errorsx"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both unknown users and wrong passwords.
var ErrInvalidCredentials = errorsx.Wrap(errors.New("invalid username or password"), errorsx.ReasonAuth)

// Users checks operator credentials against bcrypt hashes.
type Users struct {
	hashes map[string][]byte
	// dummy is compared for unknown users. Its cost matches the most
	// expensive configured hash so lookups for unknown names take as long.
	dummy []byte
}

// NewUsers takes username -> bcrypt hash, as written in config.
func NewUsers(hashes map[string]string) (*Users, error) {
	u := &Users{hashes: make(map[string][]byte, len(hashes))}
	var bad []string
	maxCost := 0
	for name, hash := range hashes {
		name = normalizeUser(name)
		if name == "" {
			continue
		}
		cost, err := bcrypt.Cost([]byte(hash))
		if err != nil {
			bad = append(bad, name)
			continue
		}
		maxCost = max(maxCost, cost)
		u.hashes[name] = []byte(hash)
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return nil, fmt.Errorf("auth.users: not a bcrypt hash for %s", strings.Join(bad, ", "))
	}
	if maxCost == 0 {
		maxCost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("callpanel"), maxCost)
	if err != nil {
		return nil, fmt.Errorf("auth: dummy hash: %w", err)
	}
	u.dummy = dummy
	return u, nil
}

// Authenticate returns ErrInvalidCredentials unless password matches.
func (u *Users) Authenticate(username, password string) error {
	hash, ok := u.hashes[normalizeUser(username)]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(u.dummy, []byte(password))
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Usernames are case-insensitive; config loaders lowercase map keys anyway.
func normalizeUser(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Len reports how many operators are configured.
func (u *Users) Len() int { return len(u.hashes) }

// HashPassword produces a config-ready hash.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is empty")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
