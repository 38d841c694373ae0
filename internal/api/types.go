// internal/api/types.go
package api

import "time"

// Lobby status values as the backend reports them. The client only mirrors
// these; it never locally un-confirms or un-expires a lobby.
const (
	StatusOpen      = "OPEN"
	StatusLocked    = "LOCKED"
	StatusConfirmed = "CONFIRMED"
	StatusExpired   = "EXPIRED"
)

// Member is one entry of a lobby's member list.
type Member struct {
	UserName string `json:"user_name"`
	IsReady  bool   `json:"is_ready"`
}

// Lobby is the authoritative server-sent snapshot of a lobby at a point in
// time. A fresh one fully supersedes the previous on every poll tick.
type Lobby struct {
	LobbyID     string    `json:"lobby_id"`
	LobbyCode   string    `json:"lobby_code"`
	BusinessID  string    `json:"business_id"`
	LeaderName  string    `json:"leader_name"`
	Status      string    `json:"status"`
	MemberCount int       `json:"member_count"`
	Members     []Member  `json:"members"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// HasMember reports whether name appears in the member list, by exact match.
func (l *Lobby) HasMember(name string) bool {
	for _, m := range l.Members {
		if m.UserName == name {
			return true
		}
	}
	return false
}

// CreateLobbyResponse is the body of POST /lobbies.
type CreateLobbyResponse struct {
	LobbyCode string `json:"lobby_code"`
	LobbyID   string `json:"lobby_id"`
}

// JoinResponse is the body of POST /lobbies/{code}/join.
type JoinResponse struct {
	Success     bool     `json:"success"`
	Message     string   `json:"message"`
	MemberCount int      `json:"member_count"`
	Members     []string `json:"members"`
}

// ReadyResponse is the body of POST /lobbies/{code}/ready.
type ReadyResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	AllReady    bool   `json:"all_ready"`
	LobbyStatus string `json:"lobby_status"`
}
