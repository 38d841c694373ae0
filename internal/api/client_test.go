package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestGetLobby(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/lobbies/ABC123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"lobby_id":     "lobby_1",
			"lobby_code":   "ABC123",
			"business_id":  "1",
			"leader_name":  "Kari",
			"status":       "OPEN",
			"member_count": 2,
			"members": []map[string]any{
				{"user_name": "Kari", "is_ready": true},
				{"user_name": "Ola", "is_ready": false},
			},
			"created_at": "2026-08-25T12:00:00+00:00",
			"expires_at": "2026-08-25T12:30:00+00:00",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, testLogger())
	lobby, err := c.GetLobby(context.Background(), "ABC123")
	require.NoError(t, err)

	assert.Equal(t, "ABC123", lobby.LobbyCode)
	assert.Equal(t, StatusOpen, lobby.Status)
	assert.Equal(t, 2, lobby.MemberCount)
	assert.Len(t, lobby.Members, lobby.MemberCount)
	assert.True(t, lobby.HasMember("Ola"))
	assert.False(t, lobby.HasMember("ola"), "membership check is exact match")
	assert.Equal(t, 30*60, int(lobby.ExpiresAt.Sub(lobby.CreatedAt).Seconds()))
}

func TestGetLobbyNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Lobby ikke funnet"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, testLogger())
	_, err := c.GetLobby(context.Background(), "GONE99")
	assert.ErrorIs(t, err, ErrLobbyNotFound)
}

func TestGetLobbyUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // nothing is listening any more

	c := New(srv.URL, testLogger())
	_, err := c.GetLobby(context.Background(), "ABC123")
	assert.ErrorIs(t, err, ErrUnreachable, "connection failures must be distinct from not-found")
	assert.NotErrorIs(t, err, ErrLobbyNotFound)
}

func TestJoinLobbyRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/lobbies/ABC123/join", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ola", body["user_name"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Du er allerede medlem av denne gruppen"})
	}))
	defer srv.Close()

	c := New(srv.URL, testLogger())
	_, err := c.JoinLobby(context.Background(), "ABC123", "Ola")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Du er allerede medlem av denne gruppen", apiErr.Detail)
}

func TestCreateLobby(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/lobbies", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Kari", body["leader_name"])
		assert.Equal(t, "1", body["business_id"])
		json.NewEncoder(w).Encode(map[string]string{"lobby_code": "XKCD42", "lobby_id": "lobby_7"})
	}))
	defer srv.Close()

	c := New(srv.URL, testLogger())
	resp, err := c.CreateLobby(context.Background(), "Kari", "1")
	require.NoError(t, err)
	assert.Equal(t, "XKCD42", resp.LobbyCode)
}

func TestCreateLobbyOmitsEmptyBusiness(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, has := body["business_id"]
		assert.False(t, has, "empty business id must be omitted")
		json.NewEncoder(w).Encode(map[string]string{"lobby_code": "AAAAAA", "lobby_id": "lobby_8"})
	}))
	defer srv.Close()

	c := New(srv.URL, testLogger())
	_, err := c.CreateLobby(context.Background(), "Kari", "")
	require.NoError(t, err)
}

func TestMarkReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/lobbies/ABC123/ready", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"success":      true,
			"message":      "Kari er nå klar!",
			"all_ready":    true,
			"lobby_status": "LOCKED",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, testLogger())
	resp, err := c.MarkReady(context.Background(), "ABC123", "Kari")
	require.NoError(t, err)
	assert.True(t, resp.AllReady)
	assert.Equal(t, StatusLocked, resp.LobbyStatus)
}

func TestSetBusiness(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/lobbies/ABC123", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "3", body["business_id"])
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, testLogger())
	require.NoError(t, c.SetBusiness(context.Background(), "ABC123", "3"))
}

func TestListBusinesses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/businesses", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "1", "name": "Strike Zone Bowling", "category": "Aktivitet", "pricingTiers": []map[string]any{
				{"size": 2, "pricePerPerson": 250, "discountLabel": "Standard"},
			}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, testLogger())
	businesses, err := c.ListBusinesses(context.Background())
	require.NoError(t, err)
	require.Len(t, businesses, 1)
	assert.Equal(t, "Strike Zone Bowling", businesses[0].Name)
	require.Len(t, businesses[0].PricingTiers, 1)
	assert.Equal(t, 250, businesses[0].PricingTiers[0].PricePerPerson)
}
