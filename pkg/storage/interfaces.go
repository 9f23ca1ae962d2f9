package storage

import "context"

// URLResolver turns a stored full-resolution location into a URL a client can open.
type URLResolver interface {
	ResolveURL(ctx context.Context, location string) (string, error)
}
