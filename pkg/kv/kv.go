// Package kv persists small per-visitor values: the browser-local state of a
// storefront client, kept server-side.
package kv

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("kv: key not found")

type Store interface {
	// Get returns ErrNotFound when the key is absent or expired.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key. A zero ttl keeps the value until deleted.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// VisitorTTL bounds how long an idle visitor's values are kept; the visitor
// cookie lives as long. Every write refreshes it.
const VisitorTTL = 365 * 24 * time.Hour

// VisitorKey namespaces a client-local key to one visitor.
func VisitorKey(visitorID, key string) string {
	return "visitor:" + visitorID + ":" + key
}
