// Package auth is a single-account demo login kept in the ledger store.
//
// It is NOT a security mechanism: there are no sessions or tokens, and
// anyone with store access can replace the account. The password is
// stored as a bcrypt hash only so the store never holds it in clear text.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"finbuddy/internal/storage"
)

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Demo struct {
	store storage.Store
	keys  storage.Keys
	cost  int
}

func NewDemo(store storage.Store, keys storage.Keys) *Demo {
	return &Demo{store: store, keys: keys, cost: bcrypt.DefaultCost}
}

// Signup replaces the stored account.
func (d *Demo) Signup(ctx context.Context, user, pass string) error {
	user = strings.TrimSpace(user)
	if user == "" || pass == "" {
		return ErrMissingCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pass), d.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := d.store.Set(ctx, d.keys.User, user); err != nil {
		return fmt.Errorf("store user: %w", err)
	}
	if err := d.store.Set(ctx, d.keys.Pass, string(hash)); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	return nil
}

// Login checks user and pass against the stored account.
func (d *Demo) Login(ctx context.Context, user, pass string) error {
	user = strings.TrimSpace(user)
	if user == "" || pass == "" {
		return ErrMissingCredentials
	}
	storedUser, ok, err := d.store.Get(ctx, d.keys.User)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}
	storedHash, ok, err := d.store.Get(ctx, d.keys.Pass)
	if err != nil {
		return fmt.Errorf("load password: %w", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(user), []byte(storedUser)) != 1 {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(pass)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
