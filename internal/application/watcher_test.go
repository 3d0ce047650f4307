package application

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/marketplace-txn/internal/domain"
	"github.com/bnema/marketplace-txn/internal/ports"
	portmocks "github.com/bnema/marketplace-txn/internal/ports/mocks"
)

type fakeStream struct {
	updates   chan domain.Transaction
	err       error
	closeOnce sync.Once
	closed    chan struct{}
}

func newFakeStream() *fakeStream {
	return &fakeStream{updates: make(chan domain.Transaction), closed: make(chan struct{})}
}

func (s *fakeStream) Updates() <-chan domain.Transaction { return s.updates }
func (s *fakeStream) Err() error                         { return s.err }

func (s *fakeStream) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })
	return nil
}

// drop ends the stream the way a lost connection does.
func (s *fakeStream) drop() {
	s.err = fmt.Errorf("%w: connection reset", domain.ErrConnection)
	close(s.updates)
}

type fakeChannel struct {
	mu      sync.Mutex
	streams []*fakeStream
	opened  chan *fakeStream
}

func newFakeChannel(streams ...*fakeStream) *fakeChannel {
	return &fakeChannel{streams: streams, opened: make(chan *fakeStream, len(streams))}
}

func (c *fakeChannel) Open(context.Context, domain.TransactionID) (ports.UpdateStream, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.streams) == 0 {
		return nil, fmt.Errorf("%w: no more streams", domain.ErrConnection)
	}
	stream := c.streams[0]
	c.streams = c.streams[1:]
	c.opened <- stream
	return stream, nil
}

type snapshots struct {
	mu   sync.Mutex
	seen []domain.Transaction
}

func (s *snapshots) add(tx domain.Transaction) {
	s.mu.Lock()
	s.seen = append(s.seen, tx)
	s.mu.Unlock()
}

func (s *snapshots) states() []domain.TransactionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.TransactionState, 0, len(s.seen))
	for _, tx := range s.seen {
		out = append(out, tx.State)
	}
	return out
}

func fastReconnects() WatcherConfig {
	return WatcherConfig{MaxReconnects: 2, ReconnectDelay: time.Millisecond, MaxReconnectDelay: 5 * time.Millisecond}
}

func TestWatcherDiscardsFetchOvertakenByPush(t *testing.T) {
	t.Parallel()

	repo := portmocks.NewMockTransactionRepository(t)
	fetchStarted := make(chan struct{})
	releaseFetch := make(chan struct{})
	repo.EXPECT().Get(mock.Anything, domain.TransactionID(42)).RunAndReturn(func(context.Context, domain.TransactionID) (domain.Transaction, error) {
		close(fetchStarted)
		<-releaseFetch
		return txAt(42, domain.StateRequested), nil
	}).Once()

	stream := newFakeStream()
	watcher := NewWatcher(NewOrchestrator(repo, nil), newFakeChannel(stream), 42, fastReconnects())
	seen := &snapshots{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx, seen.add) }()

	<-fetchStarted
	stream.updates <- withAccepted(txAt(42, domain.StateRequestAccepted), baseTime.Add(time.Minute))
	require.Eventually(t, func() bool { return len(seen.states()) == 1 }, time.Second, 5*time.Millisecond)

	close(releaseFetch)
	require.Eventually(t, func() bool {
		watcher.fetchMu.Lock()
		defer watcher.fetchMu.Unlock()
		return watcher.cancelFetch == nil
	}, time.Second, 5*time.Millisecond)

	current, ok := watcher.Current()
	require.True(t, ok)
	assert.Equal(t, domain.StateRequestAccepted, current.State)
	assert.Equal(t, []domain.TransactionState{domain.StateRequestAccepted}, seen.states())

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	<-stream.closed
}

func TestWatcherResubscribesAndRefetchesAfterDrop(t *testing.T) {
	t.Parallel()

	repo := portmocks.NewMockTransactionRepository(t)
	repo.EXPECT().Get(mock.Anything, domain.TransactionID(42)).Return(txAt(42, domain.StatePrepaid), nil).Once()
	repo.EXPECT().Get(mock.Anything, domain.TransactionID(42)).Return(txAt(42, domain.StateClientConfirmed), nil).Once()

	first, second := newFakeStream(), newFakeStream()
	channel := newFakeChannel(first, second)
	watcher := NewWatcher(NewOrchestrator(repo, nil), channel, 42, fastReconnects())
	seen := &snapshots{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx, seen.add) }()

	<-channel.opened
	require.Eventually(t, func() bool { return len(seen.states()) == 1 }, time.Second, 5*time.Millisecond)
	first.drop()

	<-channel.opened
	require.Eventually(t, func() bool { return len(seen.states()) == 2 }, time.Second, 5*time.Millisecond)
	<-first.closed

	second.updates <- txAt(42, domain.StateCanceled)
	require.NoError(t, <-done)
	assert.Equal(t, []domain.TransactionState{domain.StatePrepaid, domain.StateClientConfirmed, domain.StateCanceled}, seen.states())
	<-second.closed
}

func TestWatcherGivesUpAfterMaxReconnects(t *testing.T) {
	t.Parallel()

	repo := portmocks.NewMockTransactionRepository(t)
	repo.EXPECT().Get(mock.Anything, domain.TransactionID(42)).Return(txAt(42, domain.StatePrepaid), nil).Maybe()

	stream := newFakeStream()
	channel := newFakeChannel(stream)
	watcher := NewWatcher(NewOrchestrator(repo, nil), channel, 42, fastReconnects())

	done := make(chan error, 1)
	go func() { done <- watcher.Run(context.Background(), nil) }()

	<-channel.opened
	stream.drop()

	err := <-done
	require.ErrorIs(t, err, domain.ErrConnection)
}

func TestWatcherKeepsReconnectingWhileStreamsDeliver(t *testing.T) {
	t.Parallel()

	repo := portmocks.NewMockTransactionRepository(t)
	repo.EXPECT().Get(mock.Anything, domain.TransactionID(42)).Return(txAt(42, domain.StatePrepaid), nil).Maybe()

	const drops = 5
	streams := make([]*fakeStream, 0, drops+1)
	for range drops + 1 {
		streams = append(streams, newFakeStream())
	}
	channel := newFakeChannel(streams...)
	watcher := NewWatcher(NewOrchestrator(repo, nil), channel, 42, fastReconnects())

	done := make(chan error, 1)
	go func() { done <- watcher.Run(context.Background(), nil) }()

	for range drops {
		stream := <-channel.opened
		stream.updates <- txAt(42, domain.StatePrepaid)
		stream.drop()
		<-stream.closed
	}

	last := <-channel.opened
	last.updates <- txAt(42, domain.StateFinishedAndPayed)
	require.NoError(t, <-done)

	current, ok := watcher.Current()
	require.True(t, ok)
	assert.Equal(t, domain.StateFinishedAndPayed, current.State)
}

func TestWatcherStopsOnFetchNotFound(t *testing.T) {
	t.Parallel()

	repo := portmocks.NewMockTransactionRepository(t)
	repo.EXPECT().Get(mock.Anything, domain.TransactionID(99)).Return(domain.Transaction{}, domain.ErrNotFound).Once()

	stream := newFakeStream()
	watcher := NewWatcher(NewOrchestrator(repo, nil), newFakeChannel(stream), 99, fastReconnects())

	err := watcher.Run(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrNotFound)
	<-stream.closed
}

func TestWatcherEndsWhenAlreadySettled(t *testing.T) {
	t.Parallel()

	repo := portmocks.NewMockTransactionRepository(t)
	repo.EXPECT().Get(mock.Anything, domain.TransactionID(42)).Return(txAt(42, domain.StateFinishedAndPayed), nil).Once()

	seen := &snapshots{}
	watcher := NewWatcher(NewOrchestrator(repo, nil), newFakeChannel(newFakeStream()), 42, fastReconnects())

	require.NoError(t, watcher.Run(context.Background(), seen.add))
	assert.Equal(t, []domain.TransactionState{domain.StateFinishedAndPayed}, seen.states())
}

func TestWatcherRefreshSupersedesOutstandingFetch(t *testing.T) {
	t.Parallel()

	repo := portmocks.NewMockTransactionRepository(t)
	firstStarted := make(chan struct{})
	repo.EXPECT().Get(mock.Anything, domain.TransactionID(42)).RunAndReturn(func(ctx context.Context, _ domain.TransactionID) (domain.Transaction, error) {
		close(firstStarted)
		<-ctx.Done()
		return domain.Transaction{}, ctx.Err()
	}).Once()
	repo.EXPECT().Get(mock.Anything, domain.TransactionID(42)).Return(txAt(42, domain.StateRequested), nil).Once()

	watcher := NewWatcher(NewOrchestrator(repo, nil), newFakeChannel(), 42, fastReconnects())

	firstErr := make(chan error, 1)
	go func() {
		_, err := watcher.Refresh(context.Background())
		firstErr <- err
	}()
	<-firstStarted

	tx, err := watcher.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StateRequested, tx.State)
	require.ErrorIs(t, <-firstErr, errFetchSuperseded)
}

func TestWatcherExecuteAppliesServerAnswer(t *testing.T) {
	t.Parallel()

	repo := portmocks.NewMockTransactionRepository(t)
	repo.EXPECT().Get(mock.Anything, domain.TransactionID(42)).Return(txAt(42, domain.StateRequested), nil).Once()
	repo.EXPECT().UpdateState(mock.Anything, domain.TransactionID(42), domain.StateRequestAccepted).
		Return(withAccepted(txAt(42, domain.StateRequestAccepted), baseTime), nil).Once()

	watcher := NewWatcher(NewOrchestrator(repo, nil), newFakeChannel(), 42, fastReconnects())
	ctx := context.Background()

	_, err := watcher.Execute(ctx, providerViewer, domain.ActionDescriptor{TargetState: domain.StateRequestAccepted}, true)
	require.ErrorIs(t, err, errNoSnapshot)

	_, err = watcher.Refresh(ctx)
	require.NoError(t, err)

	action := actionFor(t, watcher.AvailableActions(providerViewer), domain.StateRequestAccepted)
	tx, err := watcher.Execute(ctx, providerViewer, action, true)
	require.NoError(t, err)
	assert.Equal(t, domain.StateRequestAccepted, tx.State)
	assert.Empty(t, domain.ProgressActions(watcher.AvailableActions(providerViewer)))
}
