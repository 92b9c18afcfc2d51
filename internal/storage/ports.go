// Package storage persists finbuddy state as namespaced text values.
//
// The model is a flat key/value space, the same shape as browser local
// storage: every value is human-readable text and there is no versioning.
package storage

import (
	"context"
	"errors"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("store closed")

// Store is implemented by every persistence backend.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes the given keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// DefaultPrefix namespaces all keys written by finbuddy.
const DefaultPrefix = "fb_"

// Keys holds the fully qualified key names for one namespace.
type Keys struct {
	Budget   string
	Expenses string
	User     string
	Pass     string
}

// NewKeys builds the key set under prefix. An empty prefix uses DefaultPrefix.
func NewKeys(prefix string) Keys {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Keys{
		Budget:   prefix + "budget",
		Expenses: prefix + "expenses",
		User:     prefix + "user",
		Pass:     prefix + "pass",
	}
}
