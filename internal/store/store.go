// Package store is the persisted entity store: a namespaced key-value store
// with change notification, on top of which every entity repository is built.
package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("store: key not found")

// Change describes a write observed on another store instance.
type Change struct {
	Key    string `json:"key"`
	Origin string `json:"origin"`
	Delete bool   `json:"delete,omitempty"`
}

// Store is implemented by every backend. Get returns ErrNotFound for a
// missing key. Subscribe delivers changes made through other instances of
// the same backend; writes made through this instance are not echoed back.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Subscribe(ctx context.Context, fn func(Change)) (unsubscribe func(), err error)
	Ping(ctx context.Context) error
	Close() error
}
