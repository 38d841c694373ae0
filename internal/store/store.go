// internal/store/store.go
package store

import (
	"context"
	"errors"
)

// ErrNoKey is returned by Get when the key has never been set or was deleted.
var ErrNoKey = errors.New("store: key not found")

// Store is the persisted local state behind the client: guest identity,
// active lobby code and active business id all live here. It stands in for
// browser local storage, so implementations must tolerate concurrent access
// from independent timers within one process.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
