// internal/activelobby/pointer.go

// Package activelobby persists which lobby this browser session considers
// "active". The pointer is a cache, not a source of truth: every fetch
// re-validates it and a stale pointer self-heals by being cleared.
package activelobby

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/groupie-app/groupie-client/internal/store"
)

const (
	keyCode     = "active_lobby_code"
	keyBusiness = "active_lobby_business"
)

// Ref is the persisted pointer value.
type Ref struct {
	LobbyCode  string
	BusinessID string
}

// Pointer reads and writes the active-lobby reference in the local store.
type Pointer struct {
	kv     store.Store
	logger *logrus.Logger
}

// New returns a Pointer over the given store.
func New(kv store.Store, logger *logrus.Logger) *Pointer {
	return &Pointer{kv: kv, logger: logger}
}

// Get returns the current pointer; ok is false when no lobby is active.
func (p *Pointer) Get(ctx context.Context) (Ref, bool) {
	code, err := p.kv.Get(ctx, keyCode)
	if errors.Is(err, store.ErrNoKey) || code == "" {
		return Ref{}, false
	}
	if err != nil {
		p.logger.WithError(err).Warn("activelobby: failed to read pointer")
		return Ref{}, false
	}
	business, err := p.kv.Get(ctx, keyBusiness)
	if err != nil && !errors.Is(err, store.ErrNoKey) {
		p.logger.WithError(err).Warn("activelobby: failed to read business id")
	}
	return Ref{LobbyCode: code, BusinessID: business}, true
}

// Set marks the lobby as active. The business id may be empty when no
// activity has been chosen yet.
func (p *Pointer) Set(ctx context.Context, code, businessID string) error {
	if err := p.kv.Set(ctx, keyCode, code); err != nil {
		return fmt.Errorf("activelobby: persist code: %w", err)
	}
	if err := p.kv.Set(ctx, keyBusiness, businessID); err != nil {
		return fmt.Errorf("activelobby: persist business id: %w", err)
	}
	return nil
}

// Clear removes the pointer entirely.
func (p *Pointer) Clear(ctx context.Context) error {
	if err := p.kv.Delete(ctx, keyCode); err != nil {
		return fmt.Errorf("activelobby: clear code: %w", err)
	}
	if err := p.kv.Delete(ctx, keyBusiness); err != nil {
		return fmt.Errorf("activelobby: clear business id: %w", err)
	}
	return nil
}

// ClearIf clears the pointer only when it still references code. Self-healing
// for pointers left behind by a deleted or purged lobby.
func (p *Pointer) ClearIf(ctx context.Context, code string) error {
	ref, ok := p.Get(ctx)
	if !ok || ref.LobbyCode != code {
		return nil
	}
	p.logger.WithField("lobby_code", code).Info("clearing stale active-lobby pointer")
	return p.Clear(ctx)
}
