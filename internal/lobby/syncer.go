// internal/lobby/syncer.go

// Package lobby keeps a local view of one lobby fresh against the backend.
// The Syncer owns the previous-snapshot memory for the lifetime of one page
// view: it diffs consecutive snapshots to raise edge-triggered notifications
// and writes the result through to the active-lobby pointer.
package lobby

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/groupie-app/groupie-client/internal/activelobby"
	"github.com/groupie-app/groupie-client/internal/api"
	"github.com/groupie-app/groupie-client/internal/discount"
)

// Fetcher is the read side of the backend contract. *api.Client satisfies it.
type Fetcher interface {
	GetLobby(ctx context.Context, code string) (*api.Lobby, error)
}

// Notifier receives one-shot notifications raised by snapshot reconciliation.
// Every method fires at most once per observed edge, never per poll tick.
type Notifier interface {
	// MemberJoined fires when the member count strictly increased from a
	// nonzero previous count. name is the newest member; discountPercent is
	// the ladder value unlocked by the new count.
	MemberJoined(name string, newCount, discountPercent int)
	// GroupLocked fires on the OPEN -> LOCKED transition.
	GroupLocked()
	// GroupExpired fires when the lobby is first observed EXPIRED.
	GroupExpired()
}

// Syncer performs fetch-and-reconcile passes for a single lobby code.
type Syncer struct {
	fetch   Fetcher
	pointer *activelobby.Pointer
	notify  Notifier
	tiers   []discount.Tier
	logger  *logrus.Logger

	mu      sync.Mutex
	code    string
	prev    *api.Lobby
	seq     uint64 // next sequence to stamp on an outgoing fetch
	applied uint64 // highest sequence whose response was applied
}

// NewSyncer builds a Syncer for code. tiers may be nil to use the default
// discount ladder.
func NewSyncer(code string, fetch Fetcher, pointer *activelobby.Pointer, notify Notifier, tiers []discount.Tier, logger *logrus.Logger) *Syncer {
	return &Syncer{
		code:    code,
		fetch:   fetch,
		pointer: pointer,
		notify:  notify,
		tiers:   tiers,
		logger:  logger,
	}
}

// Reset points the Syncer at a different lobby code and forgets the previous
// snapshot, so the first fetch of the new lobby raises no notifications.
func (s *Syncer) Reset(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.code = code
	s.prev = nil
	s.applied = s.seq
}

// Snapshot returns the last applied snapshot, or nil before the first
// successful fetch.
func (s *Syncer) Snapshot() *api.Lobby {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prev
}

// Sync performs one fetch-and-reconcile pass and returns the snapshot now
// considered current. Responses completing out of order are discarded: each
// fetch is stamped with a sequence before issue, and a completion older than
// the newest applied one never regresses the displayed state.
func (s *Syncer) Sync(ctx context.Context) (*api.Lobby, error) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	code := s.code
	s.mu.Unlock()

	snap, err := s.fetch.GetLobby(ctx, code)
	if err != nil {
		if errors.Is(err, api.ErrLobbyNotFound) {
			// Self-heal: a pointer still referencing this code is stale.
			if clearErr := s.pointer.ClearIf(ctx, code); clearErr != nil {
				s.logger.WithError(clearErr).Warn("lobby: failed to clear stale pointer")
			}
		}
		return nil, err
	}

	s.mu.Lock()
	if code != s.code || seq < s.applied {
		// Stale completion from before a Reset or behind a newer response.
		prev := s.prev
		s.mu.Unlock()
		s.logger.WithFields(logrus.Fields{"lobby_code": code, "seq": seq}).Debug("lobby: discarding stale poll response")
		return prev, nil
	}
	s.applied = seq
	prev := s.prev
	s.prev = snap
	s.mu.Unlock()

	s.reconcile(prev, snap)

	if err := s.writeThrough(ctx, snap); err != nil {
		s.logger.WithError(err).Warn("lobby: failed to update active-lobby pointer")
	}
	return snap, nil
}

// reconcile diffs consecutive snapshots and raises edge notifications. The
// very first successful fetch of a session has prev == nil and stays silent.
func (s *Syncer) reconcile(prev, snap *api.Lobby) {
	if prev == nil || s.notify == nil {
		return
	}

	if prev.MemberCount > 0 && snap.MemberCount > prev.MemberCount && len(snap.Members) > 0 {
		newest := snap.Members[len(snap.Members)-1].UserName
		sel := discount.TierFor(snap.MemberCount, s.tiers)
		s.notify.MemberJoined(newest, snap.MemberCount, sel.Current.Discount)
	}

	if prev.Status == api.StatusOpen && snap.Status == api.StatusLocked {
		s.notify.GroupLocked()
	}

	if prev.Status != api.StatusExpired && snap.Status == api.StatusExpired {
		s.notify.GroupExpired()
	}
}

// writeThrough mirrors the snapshot's status into the active-lobby pointer:
// OPEN marks the lobby active, EXPIRED and CONFIRMED clear the marker
// (CONFIRMED lobbies stay reachable for the ticket view, just not "active").
func (s *Syncer) writeThrough(ctx context.Context, snap *api.Lobby) error {
	switch snap.Status {
	case api.StatusOpen:
		return s.pointer.Set(ctx, snap.LobbyCode, snap.BusinessID)
	case api.StatusExpired, api.StatusConfirmed:
		return s.pointer.ClearIf(ctx, snap.LobbyCode)
	}
	return nil
}
