// internal/app/home.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/groupie-app/groupie-client/internal/activelobby"
	"github.com/groupie-app/groupie-client/internal/api"
	"github.com/groupie-app/groupie-client/internal/catalog"
	"github.com/groupie-app/groupie-client/internal/identity"
	"github.com/groupie-app/groupie-client/internal/poll"
)

// HomeView is the landing screen: the business catalog plus a "Min gruppe"
// shortcut when an active-lobby pointer exists. A lightweight 5 second poll
// re-validates the pointer so a lobby that expired or was purged on the
// server does not keep a dead shortcut alive.
type HomeView struct {
	client  *api.Client
	ident   *identity.Store
	pointer *activelobby.Pointer
	poller  *poll.Poller
	out     io.Writer
	logger  *logrus.Logger
}

// NewHomeView wires the home screen. validityInterval is normally 5s.
func NewHomeView(client *api.Client, ident *identity.Store, pointer *activelobby.Pointer, validityInterval time.Duration, out io.Writer, logger *logrus.Logger) *HomeView {
	h := &HomeView{
		client:  client,
		ident:   ident,
		pointer: pointer,
		poller:  poll.New(validityInterval),
		out:     out,
		logger:  logger,
	}
	h.poller.SetCallback(func() { h.Validate(context.Background()) })
	return h
}

// Open validates once and starts the validity poll.
func (h *HomeView) Open(ctx context.Context) {
	h.Validate(ctx)
	h.poller.Start()
}

// Close stops the validity poll.
func (h *HomeView) Close() {
	h.poller.Stop()
}

// Validate checks that the persisted pointer still resolves to a live OPEN or
// LOCKED lobby and self-heals it otherwise. Connectivity failures leave the
// pointer alone; the next tick retries.
func (h *HomeView) Validate(ctx context.Context) {
	ref, ok := h.pointer.Get(ctx)
	if !ok {
		return
	}

	snap, err := h.client.GetLobby(ctx, ref.LobbyCode)
	if err != nil {
		if errors.Is(err, api.ErrLobbyNotFound) {
			if clearErr := h.pointer.ClearIf(ctx, ref.LobbyCode); clearErr != nil {
				h.logger.WithError(clearErr).Warn("home: failed to clear stale pointer")
			}
		}
		return
	}
	if snap.Status == api.StatusExpired || snap.Status == api.StatusConfirmed {
		if err := h.pointer.ClearIf(ctx, ref.LobbyCode); err != nil {
			h.logger.WithError(err).Warn("home: failed to clear finished lobby pointer")
		}
	}
}

// Render prints the catalog and, when one exists, the active-group shortcut.
func (h *HomeView) Render(ctx context.Context) {
	fmt.Fprintln(h.out, "=== Groupie ===")
	if u := h.ident.Current(); u != nil {
		fmt.Fprintf(h.out, "Logget inn som %s\n", u.Name)
	} else {
		fmt.Fprintln(h.out, "Ikke logget inn. Skriv: login <navn>")
	}

	if ref, ok := h.pointer.Get(ctx); ok {
		fmt.Fprintf(h.out, "Min gruppe: %s (open <kode> for å åpne)\n", ref.LobbyCode)
	} else {
		fmt.Fprintln(h.out, "Ingen aktiv gruppe. Start en ny: create <bedrift-id>")
	}

	fmt.Fprintln(h.out, "Bedrifter:")
	for _, b := range liveBusinesses(ctx, h.client, h.logger) {
		fmt.Fprintf(h.out, "  [%s] %-26s %-10s %s (min %d personer, %d aktive grupper)\n",
			b.ID, b.Name, b.Category, b.MaxDiscount, b.MinGroupSize, b.CurrentlyActiveGroups)
	}
}

// liveBusinesses fetches the catalog from the backend. The embedded catalog
// is the offline fallback, so listings never come up empty.
func liveBusinesses(ctx context.Context, client *api.Client, logger *logrus.Logger) []catalog.Business {
	bs, err := client.ListBusinesses(ctx)
	if err != nil || len(bs) == 0 {
		if err != nil {
			logger.WithError(err).Debug("catalog: falling back to embedded businesses")
		}
		return catalog.Businesses
	}
	return bs
}
