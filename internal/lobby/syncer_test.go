package lobby

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupie-app/groupie-client/internal/activelobby"
	"github.com/groupie-app/groupie-client/internal/api"
	"github.com/groupie-app/groupie-client/internal/store"
)

// scriptedFetcher returns queued responses in order, or blocks on demand to
// simulate a slow poll.
type scriptedFetcher struct {
	mu    sync.Mutex
	queue []func() (*api.Lobby, error)
}

func (f *scriptedFetcher) push(snap *api.Lobby, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, func() (*api.Lobby, error) { return snap, err })
}

func (f *scriptedFetcher) GetLobby(context.Context, string) (*api.Lobby, error) {
	f.mu.Lock()
	next := f.queue[0]
	f.queue = f.queue[1:]
	f.mu.Unlock()
	return next()
}

// recordingNotifier counts every notification it receives.
type recordingNotifier struct {
	mu      sync.Mutex
	joins   []string
	locked  int
	expired int
}

func (n *recordingNotifier) MemberJoined(name string, newCount, discountPercent int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.joins = append(n.joins, fmt.Sprintf("%s/%d/%d", name, newCount, discountPercent))
}

func (n *recordingNotifier) GroupLocked() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.locked++
}

func (n *recordingNotifier) GroupExpired() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.expired++
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func snap(status string, members ...string) *api.Lobby {
	l := &api.Lobby{
		LobbyID:     "lobby_1",
		LobbyCode:   "ABC123",
		BusinessID:  "1",
		LeaderName:  "Kari",
		Status:      status,
		MemberCount: len(members),
		CreatedAt:   time.Now(),
		ExpiresAt:   time.Now().Add(30 * time.Minute),
	}
	for _, m := range members {
		l.Members = append(l.Members, api.Member{UserName: m})
	}
	return l
}

func newTestSyncer(fetch Fetcher, notify Notifier) (*Syncer, *activelobby.Pointer, store.Store) {
	kv := store.NewMemory()
	pointer := activelobby.New(kv, testLogger())
	return NewSyncer("ABC123", fetch, pointer, notify, nil, testLogger()), pointer, kv
}

func TestFirstFetchIsSilent(t *testing.T) {
	fetch := &scriptedFetcher{}
	fetch.push(snap(api.StatusOpen, "Kari", "Ola"), nil)
	notify := &recordingNotifier{}
	s, pointer, _ := newTestSyncer(fetch, notify)

	got, err := s.Sync(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Empty(t, notify.joins, "no notification on the very first successful fetch")
	assert.Zero(t, notify.locked)

	ref, ok := pointer.Get(context.Background())
	require.True(t, ok, "OPEN lobby must become the active pointer")
	assert.Equal(t, "ABC123", ref.LobbyCode)
	assert.Equal(t, "1", ref.BusinessID)
}

func TestMemberJoinedNotification(t *testing.T) {
	fetch := &scriptedFetcher{}
	fetch.push(snap(api.StatusOpen, "Kari", "Ola"), nil)
	fetch.push(snap(api.StatusOpen, "Kari", "Ola", "Per", "Lise"), nil)
	notify := &recordingNotifier{}
	s, _, _ := newTestSyncer(fetch, notify)

	_, err := s.Sync(context.Background())
	require.NoError(t, err)
	_, err = s.Sync(context.Background())
	require.NoError(t, err)

	// Newest member is the last entry; four members unlock the 20% tier.
	require.Len(t, notify.joins, 1, "one notification per tick with an increase")
	assert.Equal(t, "Lise/4/20", notify.joins[0])
}

func TestLockedEdgeFiresOnce(t *testing.T) {
	fetch := &scriptedFetcher{}
	fetch.push(snap(api.StatusOpen, "Kari", "Ola"), nil)
	fetch.push(snap(api.StatusLocked, "Kari", "Ola"), nil)
	fetch.push(snap(api.StatusLocked, "Kari", "Ola"), nil)
	fetch.push(snap(api.StatusLocked, "Kari", "Ola"), nil)
	notify := &recordingNotifier{}
	s, _, _ := newTestSyncer(fetch, notify)

	for i := 0; i < 4; i++ {
		_, err := s.Sync(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, 1, notify.locked, "edge-triggered: polling while LOCKED must not re-notify")
}

func TestExpiredClearsPointerAndNotifies(t *testing.T) {
	fetch := &scriptedFetcher{}
	fetch.push(snap(api.StatusOpen, "Kari"), nil)
	fetch.push(snap(api.StatusExpired, "Kari"), nil)
	notify := &recordingNotifier{}
	s, pointer, _ := newTestSyncer(fetch, notify)

	ctx := context.Background()
	_, err := s.Sync(ctx)
	require.NoError(t, err)
	_, ok := pointer.Get(ctx)
	require.True(t, ok)

	_, err = s.Sync(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, notify.expired)
	_, ok = pointer.Get(ctx)
	assert.False(t, ok, "EXPIRED must clear the active pointer")
}

func TestConfirmedClearsActiveMarker(t *testing.T) {
	fetch := &scriptedFetcher{}
	fetch.push(snap(api.StatusOpen, "Kari", "Ola"), nil)
	fetch.push(snap(api.StatusConfirmed, "Kari", "Ola"), nil)
	notify := &recordingNotifier{}
	s, pointer, _ := newTestSyncer(fetch, notify)

	ctx := context.Background()
	_, err := s.Sync(ctx)
	require.NoError(t, err)
	_, err = s.Sync(ctx)
	require.NoError(t, err)

	_, ok := pointer.Get(ctx)
	assert.False(t, ok, "CONFIRMED clears the active marker")
	assert.Zero(t, notify.expired)
}

func TestNotFoundSelfHealsPointer(t *testing.T) {
	fetch := &scriptedFetcher{}
	fetch.push(snap(api.StatusOpen, "Kari"), nil)
	fetch.push(nil, api.ErrLobbyNotFound)
	notify := &recordingNotifier{}
	s, pointer, _ := newTestSyncer(fetch, notify)

	ctx := context.Background()
	_, err := s.Sync(ctx)
	require.NoError(t, err)
	_, ok := pointer.Get(ctx)
	require.True(t, ok)

	_, err = s.Sync(ctx)
	require.ErrorIs(t, err, api.ErrLobbyNotFound)

	_, ok = pointer.Get(ctx)
	assert.False(t, ok, "404 must remove the persisted pointer for this code")
}

func TestNetworkFailureKeepsPointer(t *testing.T) {
	fetch := &scriptedFetcher{}
	fetch.push(snap(api.StatusOpen, "Kari"), nil)
	fetch.push(nil, api.ErrUnreachable)
	notify := &recordingNotifier{}
	s, pointer, _ := newTestSyncer(fetch, notify)

	ctx := context.Background()
	_, err := s.Sync(ctx)
	require.NoError(t, err)
	_, err = s.Sync(ctx)
	require.ErrorIs(t, err, api.ErrUnreachable)

	_, ok := pointer.Get(ctx)
	assert.True(t, ok, "connectivity failures never invalidate the pointer")
}

// blockingFetcher serves one response per queued gate, releasing them in the
// order the test chooses, to simulate out-of-order completion.
type blockingFetcher struct {
	mu    sync.Mutex
	gates []chan *api.Lobby
}

func (f *blockingFetcher) GetLobby(context.Context, string) (*api.Lobby, error) {
	f.mu.Lock()
	gate := f.gates[0]
	f.gates = f.gates[1:]
	f.mu.Unlock()
	return <-gate, nil
}

func TestStaleResponseDiscarded(t *testing.T) {
	slow := make(chan *api.Lobby, 1)
	fast := make(chan *api.Lobby, 1)
	fetch := &blockingFetcher{gates: []chan *api.Lobby{slow, fast}}
	notify := &recordingNotifier{}
	s, _, _ := newTestSyncer(fetch, notify)

	ctx := context.Background()
	var wg sync.WaitGroup
	wg.Add(2)

	results := make(chan *api.Lobby, 2)
	go func() {
		defer wg.Done()
		got, _ := s.Sync(ctx) // issued first, completes last
		results <- got
	}()
	// Make sure the slow request is issued (and stamped) first.
	time.Sleep(20 * time.Millisecond)
	go func() {
		defer wg.Done()
		got, _ := s.Sync(ctx)
		results <- got
	}()
	time.Sleep(20 * time.Millisecond)

	newer := snap(api.StatusOpen, "Kari", "Ola", "Per")
	older := snap(api.StatusOpen, "Kari", "Ola")
	fast <- newer
	time.Sleep(20 * time.Millisecond)
	slow <- older
	wg.Wait()
	close(results)

	// The stale completion must not regress the applied snapshot.
	final := s.Snapshot()
	require.NotNil(t, final)
	assert.Equal(t, 3, final.MemberCount)
	for got := range results {
		require.NotNil(t, got)
		assert.Equal(t, 3, got.MemberCount, "stale response returns the newer applied snapshot")
	}
}

func TestResetForgetsPreviousSnapshot(t *testing.T) {
	fetch := &scriptedFetcher{}
	fetch.push(snap(api.StatusOpen, "Kari", "Ola"), nil)
	fetch.push(snap(api.StatusOpen, "Kari", "Ola", "Per"), nil)
	notify := &recordingNotifier{}
	s, _, _ := newTestSyncer(fetch, notify)

	ctx := context.Background()
	_, err := s.Sync(ctx)
	require.NoError(t, err)

	s.Reset("ABC123")
	_, err = s.Sync(ctx)
	require.NoError(t, err)

	assert.Empty(t, notify.joins, "first fetch after a reset is silent")
}
