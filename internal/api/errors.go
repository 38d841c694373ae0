// internal/api/errors.go
package api

import (
	"errors"
	"fmt"
)

// ErrLobbyNotFound marks a 404 on a lobby read: the lobby does not exist or
// has been purged. Callers self-heal a stale active-lobby pointer on it, so
// it must stay distinguishable from a connectivity failure.
var ErrLobbyNotFound = errors.New("lobby not found")

// ErrNotFound marks a 404 on any other resource (e.g. a business id).
var ErrNotFound = errors.New("not found")

// ErrUnreachable marks a transport-level failure: the backend could not be
// reached at all. The next poll tick retries implicitly.
var ErrUnreachable = errors.New("cannot reach server")

// APIError is a non-2xx response the server rejected deliberately, carrying
// its {"detail": ...} body (duplicate name, lobby locked, lobby full, ...).
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server rejected request (%d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("server rejected request (%d)", e.StatusCode)
}
