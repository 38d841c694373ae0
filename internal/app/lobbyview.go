// internal/app/lobbyview.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/groupie-app/groupie-client/internal/activelobby"
	"github.com/groupie-app/groupie-client/internal/api"
	"github.com/groupie-app/groupie-client/internal/catalog"
	"github.com/groupie-app/groupie-client/internal/countdown"
	"github.com/groupie-app/groupie-client/internal/discount"
	"github.com/groupie-app/groupie-client/internal/identity"
	"github.com/groupie-app/groupie-client/internal/lobby"
	"github.com/groupie-app/groupie-client/internal/poll"
	"github.com/groupie-app/groupie-client/internal/screen"
)

// ErrLobbyNotOpen blocks join attempts against a lobby that is no longer
// OPEN. The guard is client-side; the request is never sent.
var ErrLobbyNotOpen = errors.New("lobby is not open for new members")

// LobbyView is the controller for one lobby page view: it owns the initial
// fetch, the 3 second poll loop, the countdown tick and the screen selection,
// and renders the result as text.
type LobbyView struct {
	client  *api.Client
	ident   *identity.Store
	pointer *activelobby.Pointer
	syncer  *lobby.Syncer
	poller  *poll.Poller
	toaster *Toaster
	out     io.Writer
	logger  *logrus.Logger

	mu        sync.Mutex
	code      string
	loading   bool
	lastErr   error
	hasJoined bool
	cd        *countdown.Countdown
	cdState   countdown.State
}

// NewLobbyView wires a view for the given lobby code. pollInterval is the
// lobby cadence (normally 3s); poll.Disabled turns the loop off.
func NewLobbyView(code string, client *api.Client, ident *identity.Store, pointer *activelobby.Pointer, pollInterval time.Duration, out io.Writer, logger *logrus.Logger) *LobbyView {
	v := &LobbyView{
		client:  client,
		ident:   ident,
		pointer: pointer,
		toaster: NewToaster(out, logger),
		poller:  poll.New(pollInterval),
		out:     out,
		logger:  logger,
		code:    code,
		loading: true,
	}
	v.syncer = lobby.NewSyncer(code, client, pointer, v.toaster, nil, logger)
	v.poller.SetCallback(func() { v.tick(context.Background()) })
	return v
}

// Open performs the one-time initial fetch (outside the poll timer) and
// starts the poll loop. The loading screen shows only during this first
// fetch; later ticks update in place without flicker.
func (v *LobbyView) Open(ctx context.Context) {
	v.Render()
	v.tick(ctx)
	v.mu.Lock()
	v.loading = false
	v.mu.Unlock()
	v.Render()
	v.poller.Start()
}

// Close tears down every timer owned by the view. Required on navigation
// away so no background fetch runs against a stale lobby code.
func (v *LobbyView) Close() {
	v.poller.Stop()
	v.mu.Lock()
	if v.cd != nil {
		v.cd.Stop()
		v.cd = nil
	}
	v.mu.Unlock()
}

// tick is one fetch-reconcile-render pass.
func (v *LobbyView) tick(ctx context.Context) {
	snap, err := v.syncer.Sync(ctx)

	v.mu.Lock()
	v.lastErr = err
	v.mu.Unlock()

	if err == nil && snap != nil {
		v.ensureCountdown(snap)
	}
	v.Render()
}

// ensureCountdown keeps exactly one countdown running against the snapshot's
// expiry while the lobby is still live, and tears it down on terminal states.
func (v *LobbyView) ensureCountdown(snap *api.Lobby) {
	v.mu.Lock()

	live := snap.Status == api.StatusOpen || snap.Status == api.StatusLocked
	if !live || snap.ExpiresAt.IsZero() {
		if v.cd != nil {
			v.cd.Stop()
			v.cd = nil
		}
		v.mu.Unlock()
		return
	}
	if v.cd != nil {
		v.mu.Unlock()
		return
	}

	cd := countdown.New(snap.ExpiresAt,
		func(st countdown.State) {
			v.mu.Lock()
			v.cdState = st
			v.mu.Unlock()
		},
		func() {
			// The local clock hit zero; poll immediately so the screen
			// flips on the server-declared EXPIRED status.
			v.logger.WithField("lobby_code", snap.LobbyCode).Info("countdown reached zero")
			go v.tick(context.Background())
		},
	)
	v.cd = cd
	v.mu.Unlock()

	// Start outside the lock: the first evaluation runs synchronously and
	// the tick callback takes v.mu.
	cd.Start()
}

// Join validates the name locally, guards against non-OPEN lobbies without
// sending a request, then joins and flips the local hasJoined flag so the
// view does not bounce back to the join gate before the next poll confirms
// membership.
func (v *LobbyView) Join(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return identity.ErrNameTooShort
	}
	if snap := v.syncer.Snapshot(); snap != nil && snap.Status != api.StatusOpen {
		return ErrLobbyNotOpen
	}

	// The joined name becomes the identity, so the membership check against
	// the next poll's member list matches without the local bridge flag.
	if u := v.ident.Current(); u == nil || u.Name != name {
		if _, err := v.ident.Login(ctx, name); err != nil {
			return err
		}
	}

	resp, err := v.client.JoinLobby(ctx, v.code, name)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			v.toaster.Toast(apiErr.Detail)
		}
		return err
	}

	v.mu.Lock()
	v.hasJoined = true
	v.mu.Unlock()

	if resp.Message != "" {
		v.toaster.Toast(resp.Message)
	}
	v.Render()
	return nil
}

// Ready marks the current member as ready.
func (v *LobbyView) Ready(ctx context.Context) error {
	user := v.ident.Current()
	if user == nil {
		return errors.New("not logged in")
	}
	resp, err := v.client.MarkReady(ctx, v.code, user.Name)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			v.toaster.Toast(apiErr.Detail)
		}
		return err
	}
	if resp.Message != "" {
		v.toaster.Toast(resp.Message)
	}
	return nil
}

// ChooseBusiness patches the lobby's activity and refreshes right away. The
// id is validated against the live catalog first; when that lookup cannot be
// served, the embedded catalog decides.
func (v *LobbyView) ChooseBusiness(ctx context.Context, businessID string) error {
	if _, err := v.client.GetBusiness(ctx, businessID); err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return fmt.Errorf("unknown business %q", businessID)
		}
		if _, ok := catalog.FindByID(businessID); !ok {
			return fmt.Errorf("unknown business %q", businessID)
		}
	}
	if err := v.client.SetBusiness(ctx, v.code, businessID); err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			v.toaster.Toast(apiErr.Detail)
		}
		return err
	}
	v.tick(ctx)
	return nil
}

// Render draws the screen selected for the current state.
func (v *LobbyView) Render() {
	v.mu.Lock()
	userName := ""
	if u := v.ident.Current(); u != nil {
		userName = u.Name
	}
	st := screen.State{
		Loading:   v.loading,
		Err:       v.lastErr,
		Snapshot:  v.syncer.Snapshot(),
		UserName:  userName,
		HasJoined: v.hasJoined,
	}
	cdState := v.cdState
	v.mu.Unlock()

	switch screen.Select(st) {
	case screen.Loading:
		fmt.Fprintln(v.out, "Laster gruppe...")
	case screen.NotFound:
		fmt.Fprintf(v.out, "Fant ingen gruppe med kode %s. Start en ny gruppe!\n", v.code)
	case screen.Unreachable:
		fmt.Fprintln(v.out, "Får ikke kontakt med serveren. Prøver igjen...")
	case screen.JoinGate:
		fmt.Fprintf(v.out, "Bli med i gruppen %s! Skriv: join <navn>\n", v.code)
	case screen.Confirmed:
		v.renderConfirmed(st.Snapshot)
	case screen.EmptyLobby:
		fmt.Fprintf(v.out, "Gruppen %s har ingen aktivitet ennå. Velg en: choose <id>\n", v.code)
		for _, b := range liveBusinesses(context.Background(), v.client, v.logger) {
			fmt.Fprintf(v.out, "  [%s] %s (%s) – %s\n", b.ID, b.Name, b.Category, b.MaxDiscount)
		}
	case screen.Lobby:
		v.renderLobby(st.Snapshot, cdState)
	}
}

func (v *LobbyView) renderConfirmed(snap *api.Lobby) {
	fmt.Fprintf(v.out, "=== Bekreftet! ===\n")
	fmt.Fprintf(v.out, "Gruppe %s er booket. Vis denne billetten ved ankomst.\n", snap.LobbyCode)
	if b, ok := catalog.FindByID(snap.BusinessID); ok {
		fmt.Fprintf(v.out, "%s, %s\n", b.Name, b.Address)
	}
	fmt.Fprintf(v.out, "%d deltakere:\n", snap.MemberCount)
	for _, m := range snap.Members {
		fmt.Fprintf(v.out, "  - %s\n", m.UserName)
	}
}

func (v *LobbyView) renderLobby(snap *api.Lobby, cd countdown.State) {
	if snap.Status == api.StatusExpired {
		fmt.Fprintf(v.out, "Gruppen %s har utløpt. Start en ny gruppe!\n", snap.LobbyCode)
		return
	}

	sel := discount.TierFor(snap.MemberCount, nil)

	fmt.Fprintf(v.out, "=== Gruppe %s (%s) ===\n", snap.LobbyCode, snap.Status)
	if b, ok := catalog.FindByID(snap.BusinessID); ok {
		line := b.Name
		if price, ok := b.PriceFor(snap.MemberCount); ok {
			line = fmt.Sprintf("%s – %d kr per person (%s)", b.Name, price.PricePerPerson, price.DiscountLabel)
		}
		fmt.Fprintln(v.out, line)
	}

	fmt.Fprintf(v.out, "Rabatt: %d%% (%s)  %s\n", sel.Current.Discount, sel.Current.Label, progressBar(sel.Progress))
	if sel.Next != nil {
		fmt.Fprintf(v.out, "%d til for %d%% rabatt!\n", discount.MembersToNext(snap.MemberCount, nil), sel.Next.Discount)
	}

	fmt.Fprintf(v.out, "Medlemmer (%d):\n", snap.MemberCount)
	for _, m := range snap.Members {
		mark := " "
		if m.IsReady {
			mark = "x"
		}
		leader := ""
		if m.UserName == snap.LeaderName {
			leader = " (leder)"
		}
		fmt.Fprintf(v.out, "  [%s] %s%s\n", mark, m.UserName, leader)
	}

	if cd.Expired {
		fmt.Fprintln(v.out, "Tiden er ute!")
	} else if cd.Display != "" {
		urgent := ""
		if cd.Urgent {
			urgent = " – skynd dere!"
		}
		fmt.Fprintf(v.out, "Utløper om %s%s\n", cd.Display, urgent)
	}
	fmt.Fprintf(v.out, "Del koden: %s\n", snap.LobbyCode)
}

// progressBar renders a clamped [0,1] fraction as a ten-slot bar.
func progressBar(fraction float64) string {
	const slots = 10
	filled := int(fraction * slots)
	if filled > slots {
		filled = slots
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", slots-filled) + "]"
}
