// internal/api/client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/groupie-app/groupie-client/internal/catalog"
)

// Client talks to the Groupie lobby backend. All methods are safe for use
// from independently scheduled timers.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logrus.Logger
}

// New builds a Client for the given base URL (e.g. "http://localhost:8000").
func New(baseURL string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: &loggingTransport{next: http.DefaultTransport, logger: logger},
		},
		logger: logger,
	}
}

// GetLobby fetches the snapshot for a lobby code. Returns ErrLobbyNotFound on
// 404 and ErrUnreachable when the backend cannot be contacted.
func (c *Client) GetLobby(ctx context.Context, code string) (*Lobby, error) {
	var lobby Lobby
	if err := c.do(ctx, http.MethodGet, "/lobbies/"+code, nil, &lobby, ErrLobbyNotFound); err != nil {
		return nil, err
	}
	return &lobby, nil
}

// CreateLobby creates a new lobby led by leaderName. businessID may be empty:
// a lobby can exist before an activity is chosen.
func (c *Client) CreateLobby(ctx context.Context, leaderName, businessID string) (*CreateLobbyResponse, error) {
	body := map[string]string{"leader_name": leaderName}
	if businessID != "" {
		body["business_id"] = businessID
	}
	var resp CreateLobbyResponse
	if err := c.do(ctx, http.MethodPost, "/lobbies", body, &resp, ErrNotFound); err != nil {
		return nil, err
	}
	return &resp, nil
}

// JoinLobby adds userName to the lobby. Server-side rejections (duplicate
// name, locked, full, expired) come back as *APIError.
func (c *Client) JoinLobby(ctx context.Context, code, userName string) (*JoinResponse, error) {
	var resp JoinResponse
	err := c.do(ctx, http.MethodPost, "/lobbies/"+code+"/join", map[string]string{"user_name": userName}, &resp, ErrLobbyNotFound)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// MarkReady flags userName as ready. When the response says everyone is
// ready, the next poll is expected to observe the LOCKED transition.
func (c *Client) MarkReady(ctx context.Context, code, userName string) (*ReadyResponse, error) {
	var resp ReadyResponse
	err := c.do(ctx, http.MethodPost, "/lobbies/"+code+"/ready", map[string]string{"user_name": userName}, &resp, ErrLobbyNotFound)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetBusiness patches the lobby's chosen activity. Leader-only by convention;
// the backend does not enforce it and neither do we.
func (c *Client) SetBusiness(ctx context.Context, code, businessID string) error {
	return c.do(ctx, http.MethodPatch, "/lobbies/"+code, map[string]string{"business_id": businessID}, nil, ErrLobbyNotFound)
}

// ListBusinesses fetches the live catalog.
func (c *Client) ListBusinesses(ctx context.Context) ([]catalog.Business, error) {
	var out []catalog.Business
	if err := c.do(ctx, http.MethodGet, "/businesses", nil, &out, ErrNotFound); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBusiness fetches one catalog entry by id.
func (c *Client) GetBusiness(ctx context.Context, id string) (*catalog.Business, error) {
	var out catalog.Business
	if err := c.do(ctx, http.MethodGet, "/businesses/"+id, nil, &out, ErrNotFound); err != nil {
		return nil, err
	}
	return &out, nil
}

// do issues one request and decodes the response into out (when non-nil).
// notFoundErr is the sentinel to return on 404 for this resource.
func (c *Client) do(ctx context.Context, method, path string, body any, out any, notFoundErr error) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return notFoundErr
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		var e struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &APIError{StatusCode: resp.StatusCode, Detail: e.Detail}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
