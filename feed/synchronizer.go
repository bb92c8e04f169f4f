package feed

import (
	"context"
	"log"
	"sync"
	"time"

	"varsharaksha/models"
)

// Lister runs one posts query against the document store.
type Lister interface {
	ListPosts(ctx context.Context, q Query) ([]models.Post, error)
}

// Snapshot is one full delivery of a subscription's result set. Every
// delivery replaces the previous one wholesale; there are no incremental
// diffs. A snapshot with Err set is terminal for its subscription.
type Snapshot struct {
	Posts []models.Post
	Err   error
}

// Subscription is a live view over one scope. C delivers snapshots until
// Unsubscribe is called or a store error ends the stream, after which C is
// closed. Unsubscribe is idempotent and safe from any goroutine; once it
// returns, no further snapshot lands on C.
type Subscription struct {
	C <-chan Snapshot

	c      chan Snapshot
	query  Query
	parent *Synchronizer
}

// Unsubscribe tears the subscription down synchronously.
func (s *Subscription) Unsubscribe() {
	s.parent.remove(s)
}

// Synchronizer keeps every subscribed view in step with the posts
// collection. It refreshes on change notifications from the store and on
// explicit kicks after local writes, re-running each subscription's frozen
// query and pushing the whole result set.
type Synchronizer struct {
	store Lister
	kick  chan struct{}

	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

func New(store Lister) *Synchronizer {
	return &Synchronizer{
		store: store,
		kick:  make(chan struct{}, 1),
		subs:  make(map[*Subscription]struct{}),
	}
}

// Subscribe opens a live view over the scope. The window cutoff is fixed
// now, at setup time. The first snapshot is delivered before Subscribe
// returns, so subscribers leave their loading state immediately: an empty
// result set arrives as a valid empty snapshot, never as silence.
func (s *Synchronizer) Subscribe(ctx context.Context, scope Scope) *Subscription {
	sub := &Subscription{
		c:      make(chan Snapshot, 1),
		query:  scope.BuildQuery(time.Now()),
		parent: s,
	}
	sub.C = sub.c

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	s.refreshLocked(ctx, sub)
	s.mu.Unlock()

	return sub
}

// Kick requests a refresh of all subscriptions. Handlers call it after
// every local write so the round trip back through the store is the only
// feedback a mutation needs. Coalesces when a refresh is already pending.
func (s *Synchronizer) Kick() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// fallbackPollInterval paces refreshes after the store's change stream
// dies mid-run.
var fallbackPollInterval = 15 * time.Second

// Run drives refreshes until ctx is cancelled. changes carries change
// notifications from the store (change stream nudges or poll ticks). A
// closed changes channel is a store-side stream failure, not a shutdown:
// Run swaps in a polling source and keeps every subscription live.
func (s *Synchronizer) Run(ctx context.Context, changes <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return
		case _, ok := <-changes:
			if !ok {
				log.Printf("[Feed] change stream closed, falling back to polling")
				changes = Poll(ctx, fallbackPollInterval)
				s.refreshAll(ctx)
				continue
			}
			s.refreshAll(ctx)
		case <-s.kick:
			s.refreshAll(ctx)
		}
	}
}

func (s *Synchronizer) refreshAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sub := range s.subs {
		s.refreshLocked(ctx, sub)
	}
}

// refreshLocked re-runs one subscription's query and replaces its pending
// snapshot. A stale undelivered snapshot is dropped: subscribers only ever
// need the latest state, and a slow reader must not block the store's
// notifications. Store errors end the subscription after one Err snapshot.
func (s *Synchronizer) refreshLocked(ctx context.Context, sub *Subscription) {
	posts, err := s.store.ListPosts(ctx, sub.query)
	if err != nil {
		log.Printf("[Feed] query failed: %v", err)
		sub.deliver(Snapshot{Err: err})
		s.removeLocked(sub)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	if sub.query.Sort == nil {
		SortByCreatedDesc(posts)
	}
	sub.deliver(Snapshot{Posts: posts})
}

func (sub *Subscription) deliver(snap Snapshot) {
	select {
	case <-sub.c:
	default:
	}
	sub.c <- snap
}

func (s *Synchronizer) remove(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(sub)
}

func (s *Synchronizer) removeLocked(sub *Subscription) {
	if _, ok := s.subs[sub]; !ok {
		return
	}
	delete(s.subs, sub)
	close(sub.c)
}

func (s *Synchronizer) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sub := range s.subs {
		s.removeLocked(sub)
	}
}

// Poll returns a change channel that ticks every interval, for deployments
// where the store cannot provide change streams.
func Poll(ctx context.Context, interval time.Duration) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case ch <- struct{}{}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch
}
