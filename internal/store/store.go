// Package store provides the keyed persistence abstraction shared by scans,
// probe sessions, settings, sessions and rate-limit buckets.
//
// Values are stored as JSON under string keys. The backend is selected once at
// bootstrap; all implementations satisfy the same contract, including the
// atomicity requirement on Allow: a sliding-window check-and-insert must be
// effectively atomic per key so concurrent requests cannot bypass the limit,
// and buckets merge timestamps rather than overwriting each other.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when no value exists under the key.
var ErrNotFound = errors.New("store: key not found")

// Store is the keyed persistence interface.
type Store interface {
	// Get unmarshals the value under key into dest. Returns ErrNotFound when
	// the key does not exist.
	Get(ctx context.Context, key string, dest any) error

	// Put marshals value and stores it under key, replacing any prior value.
	Put(ctx context.Context, key string, value any) error

	// Delete removes the value under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Allow records one event in the sliding-window bucket under key and
	// reports whether it fit within limit events per window. The check and the
	// insert happen atomically with respect to other Allow calls on the same key.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// Healthy reports whether the backend is reachable.
	Healthy(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
