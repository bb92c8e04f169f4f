package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"varsharaksha/models"
)

// fakeStore serves a swappable post list and can be told to fail.
type fakeStore struct {
	mu    sync.Mutex
	posts []models.Post
	err   error
	calls int
}

func (f *fakeStore) ListPosts(ctx context.Context, q Query) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Post, len(f.posts))
	copy(out, f.posts)
	return out, nil
}

func (f *fakeStore) set(posts []models.Post, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = posts
	f.err = err
}

func receiveSnapshot(t *testing.T, sub *Subscription) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-sub.C:
		require.True(t, ok, "subscription channel closed unexpectedly")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	store := &fakeStore{posts: []models.Post{{Content: "hello"}}}
	hub := New(store)

	sub := hub.Subscribe(context.Background(), Scope{Window: DefaultWindow})
	defer sub.Unsubscribe()

	snap := receiveSnapshot(t, sub)
	require.NoError(t, snap.Err)
	require.Len(t, snap.Posts, 1)
	assert.Equal(t, "hello", snap.Posts[0].Content)
}

func TestSubscribeEmptyResultIsEmptyNotNil(t *testing.T) {
	hub := New(&fakeStore{})

	sub := hub.Subscribe(context.Background(), Scope{Window: DefaultWindow})
	defer sub.Unsubscribe()

	snap := receiveSnapshot(t, sub)
	require.NoError(t, snap.Err)
	// An empty board is a real state, distinct from "still loading".
	require.NotNil(t, snap.Posts)
	assert.Empty(t, snap.Posts)
}

func TestKickDeliversReplacementSnapshot(t *testing.T) {
	store := &fakeStore{posts: []models.Post{{Content: "one"}}}
	hub := New(store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx, nil)

	sub := hub.Subscribe(ctx, Scope{Window: DefaultWindow})
	defer sub.Unsubscribe()
	receiveSnapshot(t, sub)

	store.set([]models.Post{{Content: "one"}, {Content: "two"}}, nil)
	hub.Kick()

	snap := receiveSnapshot(t, sub)
	require.NoError(t, snap.Err)
	assert.Len(t, snap.Posts, 2)
}

func TestChangeNotificationDeliversSnapshot(t *testing.T) {
	store := &fakeStore{}
	hub := New(store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan struct{}, 1)
	go hub.Run(ctx, changes)

	sub := hub.Subscribe(ctx, Scope{Window: DefaultWindow})
	defer sub.Unsubscribe()
	receiveSnapshot(t, sub)

	store.set([]models.Post{{Content: "fresh"}}, nil)
	changes <- struct{}{}

	snap := receiveSnapshot(t, sub)
	require.NoError(t, snap.Err)
	require.Len(t, snap.Posts, 1)
	assert.Equal(t, "fresh", snap.Posts[0].Content)
}

func TestSlowReaderConvergesOnLatestSnapshot(t *testing.T) {
	store := &fakeStore{posts: []models.Post{{Content: "v1"}}}
	hub := New(store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx, nil)

	sub := hub.Subscribe(ctx, Scope{Window: DefaultWindow})
	defer sub.Unsubscribe()

	// Never read the intermediate states; refreshes replace the pending
	// snapshot instead of queueing behind it.
	store.set([]models.Post{{Content: "v2"}}, nil)
	hub.Kick()
	store.set([]models.Post{{Content: "v3"}}, nil)
	hub.Kick()

	deadline := time.Now().Add(2 * time.Second)
	for {
		snap := receiveSnapshot(t, sub)
		require.NoError(t, snap.Err)
		require.Len(t, snap.Posts, 1)
		if snap.Posts[0].Content == "v3" {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("never converged on latest snapshot, last saw %q", snap.Posts[0].Content)
		}
		hub.Kick()
	}
}

func TestStoreErrorEndsSubscription(t *testing.T) {
	store := &fakeStore{err: errors.New("connection reset")}
	hub := New(store)

	sub := hub.Subscribe(context.Background(), Scope{Window: DefaultWindow})

	snap := receiveSnapshot(t, sub)
	assert.Error(t, snap.Err)

	// The error snapshot is terminal; the channel closes after it.
	select {
	case _, ok := <-sub.C:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after error snapshot")
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	hub := New(&fakeStore{})

	sub := hub.Subscribe(context.Background(), Scope{Window: DefaultWindow})
	sub.Unsubscribe()
	sub.Unsubscribe()
}

func TestUnsubscribedViewGetsNoFurtherSnapshots(t *testing.T) {
	store := &fakeStore{}
	hub := New(store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx, nil)

	sub := hub.Subscribe(ctx, Scope{Window: DefaultWindow})
	receiveSnapshot(t, sub)
	sub.Unsubscribe()

	hub.Kick()

	select {
	case _, ok := <-sub.C:
		assert.False(t, ok, "closed channel only, no snapshot")
	case <-time.After(100 * time.Millisecond):
		t.Fatal("channel should be closed after unsubscribe")
	}
}

func TestAuthorScopeSnapshotsSorted(t *testing.T) {
	old := time.Date(2026, 7, 14, 8, 0, 0, 0, time.UTC).UnixMilli()
	recent := time.Date(2026, 7, 15, 8, 0, 0, 0, time.UTC).UnixMilli()
	store := &fakeStore{posts: []models.Post{
		{Content: "old", CreatedAt: old},
		{Content: "new", CreatedAt: recent},
	}}
	hub := New(store)

	author := primitive.NewObjectID()
	sub := hub.Subscribe(context.Background(), Scope{AuthorID: &author})
	defer sub.Unsubscribe()

	snap := receiveSnapshot(t, sub)
	require.NoError(t, snap.Err)
	require.Len(t, snap.Posts, 2)
	assert.Equal(t, "new", snap.Posts[0].Content)
}

func TestRunSurvivesChangeStreamClose(t *testing.T) {
	store := &fakeStore{posts: []models.Post{{Content: "before"}}}
	hub := New(store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan struct{})
	go hub.Run(ctx, changes)

	sub := hub.Subscribe(ctx, Scope{Window: DefaultWindow})
	defer sub.Unsubscribe()
	receiveSnapshot(t, sub)

	// A dying store stream closes its channel. Existing subscriptions
	// must stay live and writes must still propagate.
	close(changes)

	store.set([]models.Post{{Content: "after"}}, nil)
	hub.Kick()

	deadline := time.Now().Add(2 * time.Second)
	for {
		snap := receiveSnapshot(t, sub)
		require.NoError(t, snap.Err)
		require.Len(t, snap.Posts, 1)
		if snap.Posts[0].Content == "after" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no refresh delivered after change stream close")
		}
		hub.Kick()
	}

	// New subscriptions opened after the failure stay live too.
	late := hub.Subscribe(ctx, Scope{Window: DefaultWindow})
	defer late.Unsubscribe()
	snap := receiveSnapshot(t, late)
	require.NoError(t, snap.Err)
	assert.Equal(t, "after", snap.Posts[0].Content)
}

func TestRunPollsAfterChangeStreamClose(t *testing.T) {
	saved := fallbackPollInterval
	fallbackPollInterval = 10 * time.Millisecond
	defer func() { fallbackPollInterval = saved }()

	store := &fakeStore{posts: []models.Post{{Content: "before"}}}
	hub := New(store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan struct{})
	go hub.Run(ctx, changes)

	sub := hub.Subscribe(ctx, Scope{Window: DefaultWindow})
	defer sub.Unsubscribe()
	receiveSnapshot(t, sub)

	close(changes)

	// External writes (no Kick) must still arrive via the poll ticks.
	store.set([]models.Post{{Content: "external"}}, nil)

	deadline := time.Now().Add(2 * time.Second)
	for {
		snap := receiveSnapshot(t, sub)
		require.NoError(t, snap.Err)
		if len(snap.Posts) == 1 && snap.Posts[0].Content == "external" {
			return
		}
		require.False(t, time.Now().After(deadline), "poll fallback never refreshed")
	}
}

func TestRunShutdownClosesSubscriptions(t *testing.T) {
	hub := New(&fakeStore{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx, nil)
		close(done)
	}()

	sub := hub.Subscribe(ctx, Scope{Window: DefaultWindow})
	receiveSnapshot(t, sub)

	cancel()
	<-done

	select {
	case _, ok := <-sub.C:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not closed on shutdown")
	}
}

func TestPollTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := Poll(ctx, 10*time.Millisecond)

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("poll never ticked")
	}

	cancel()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("poll channel not closed after cancel")
		}
	}
}
