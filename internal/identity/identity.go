// internal/identity/identity.go
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/groupie-app/groupie-client/internal/store"
)

// storageKey is where the identity record lives in the local store.
const storageKey = "groupie_user"

// ErrNameTooShort rejects display names under 2 characters after trimming.
// The validation is purely local; the request never reaches the network.
var ErrNameTooShort = errors.New("identity: name must be at least 2 characters")

// User is the local guest identity. The id is a locally generated opaque
// token, never reconciled with a server account.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Store keeps the current guest identity, persisted in the local key-value
// store so it survives restarts.
type Store struct {
	kv     store.Store
	logger *logrus.Logger

	mu      sync.Mutex
	current *User
}

// NewStore hydrates the identity from persisted storage. Malformed persisted
// data is treated as "no identity" (logged, not thrown).
func NewStore(ctx context.Context, kv store.Store, logger *logrus.Logger) *Store {
	s := &Store{kv: kv, logger: logger}

	raw, err := kv.Get(ctx, storageKey)
	if errors.Is(err, store.ErrNoKey) {
		return s
	}
	if err != nil {
		logger.WithError(err).Warn("identity: failed to read persisted identity")
		return s
	}

	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID == "" || u.Name == "" {
		logger.WithField("raw", raw).Warn("identity: discarding malformed persisted identity")
		return s
	}
	s.current = &u
	return s
}

// Current returns the active identity, or nil when logged out.
func (s *Store) Current() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

// Login trims the name, generates a fresh opaque id, persists the record and
// makes it the current identity.
func (s *Store) Login(ctx context.Context, name string) (User, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return User{}, ErrNameTooShort
	}

	u := User{
		ID:   fmt.Sprintf("user_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8]),
		Name: name,
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return User{}, fmt.Errorf("identity: encode user: %w", err)
	}
	if err := s.kv.Set(ctx, storageKey, string(raw)); err != nil {
		return User{}, fmt.Errorf("identity: persist user: %w", err)
	}

	s.mu.Lock()
	s.current = &u
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{"user": u.Name, "id": u.ID}).Info("guest logged in")
	return u, nil
}

// Logout clears the persisted identity. The caller is expected to also clear
// the active-lobby pointer so the two go together as one user-facing action.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.kv.Delete(ctx, storageKey); err != nil {
		return fmt.Errorf("identity: clear persisted user: %w", err)
	}
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	return nil
}
