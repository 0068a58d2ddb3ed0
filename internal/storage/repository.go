// Package storage provides the persistent key-value store backing the
// session and photo stores. The Repository interface mirrors the device
// key-value plugin surface; SQLite is the bundled implementation.
package storage

import "context"

// Repository is an asynchronous key-value store. Get returns (nil, nil)
// for an absent key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
