// internal/screen/screen.go

// Package screen selects which top-level screen to present from the latest
// lobby snapshot and identity. The decision procedure is pure so rendering
// never has to branch on raw state.
package screen

import (
	"errors"

	"github.com/groupie-app/groupie-client/internal/api"
)

// Kind identifies a top-level screen.
type Kind int

const (
	Loading Kind = iota
	NotFound
	Unreachable
	JoinGate
	Confirmed
	EmptyLobby
	Lobby
)

func (k Kind) String() string {
	switch k {
	case Loading:
		return "loading"
	case NotFound:
		return "not-found"
	case Unreachable:
		return "unreachable"
	case JoinGate:
		return "join-gate"
	case Confirmed:
		return "confirmed"
	case EmptyLobby:
		return "empty-lobby"
	case Lobby:
		return "lobby"
	}
	return "unknown"
}

// State is everything the gate looks at. It is rebuilt on every render from
// the latest snapshot.
type State struct {
	// Loading is true only while the very first fetch is in flight;
	// subsequent poll ticks never flip it back.
	Loading bool
	// Err is the last fetch error, nil after a successful fetch.
	Err error
	// Snapshot is the latest applied lobby snapshot, nil before the first
	// success.
	Snapshot *api.Lobby
	// UserName is the current identity's display name, empty when logged
	// out.
	UserName string
	// HasJoined is set after a client-side join this session, bridging the
	// gap until the next poll confirms membership.
	HasJoined bool
}

// Select picks the screen for a state. Strict order, first match wins.
func Select(st State) Kind {
	if st.Loading {
		return Loading
	}

	if st.Err != nil || st.Snapshot == nil {
		if st.Err != nil && !errors.Is(st.Err, api.ErrLobbyNotFound) {
			return Unreachable
		}
		return NotFound
	}

	isMember := st.UserName != "" && st.Snapshot.HasMember(st.UserName)
	if !isMember && !st.HasJoined {
		return JoinGate
	}

	if st.Snapshot.Status == api.StatusConfirmed {
		return Confirmed
	}

	if st.Snapshot.BusinessID == "" {
		return EmptyLobby
	}
	return Lobby
}
