// Package eventbus implements the per-run multicast channel used to stream
// run snapshots to connected clients. Publishing to a run with no
// subscribers drops the snapshot; subscribers only see snapshots published
// after they subscribe.
package eventbus

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/inkwell/orchestrator/internal/domain"
)

// ErrIdleTimeout is returned by Subscription.Next when no snapshot arrives
// within the idle window. Transports use it to emit keep-alives.
var ErrIdleTimeout = errors.New("eventbus: idle timeout")

// ErrClosed is returned by Subscription.Next after Unsubscribe.
var ErrClosed = errors.New("eventbus: subscription closed")

// Subscription is one subscriber's mailbox: an unbounded ordered queue of
// run snapshots.
type Subscription struct {
	mu     sync.Mutex
	queue  []*domain.RunState
	notify chan struct{}
	closed bool
}

func newSubscription() *Subscription {
	return &Subscription{notify: make(chan struct{}, 1)}
}

func (s *Subscription) push(snapshot *domain.RunState) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, snapshot)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *Subscription) pop() (*domain.RunState, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) > 0 {
		snapshot := s.queue[0]
		s.queue = s.queue[1:]
		return snapshot, true, s.closed
	}
	return nil, false, s.closed
}

// Next blocks until a snapshot arrives, the idle window elapses
// (ErrIdleTimeout), the context is cancelled, or the subscription is closed
// (ErrClosed). Queued snapshots are drained before ErrClosed is reported.
func (s *Subscription) Next(ctx context.Context, idle time.Duration) (*domain.RunState, error) {
	timer := time.NewTimer(idle)
	defer timer.Stop()

	for {
		snapshot, ok, closed := s.pop()
		if ok {
			return snapshot, nil
		}
		if closed {
			return nil, ErrClosed
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			return nil, ErrIdleTimeout
		case <-s.notify:
		}
	}
}

func (s *Subscription) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Bus multicasts run snapshots to every current subscriber of a run.
type Bus struct {
	mu   sync.Mutex
	runs map[string]map[*Subscription]struct{}
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{runs: make(map[string]map[*Subscription]struct{})}
}

// Subscribe registers a new mailbox under bookID and returns it.
func (b *Bus) Subscribe(bookID string) *Subscription {
	sub := newSubscription()
	b.mu.Lock()
	defer b.mu.Unlock()
	subs, ok := b.runs[bookID]
	if !ok {
		subs = make(map[*Subscription]struct{})
		b.runs[bookID] = subs
	}
	subs[sub] = struct{}{}
	return sub
}

// Unsubscribe removes sub and releases its queue. Removing a subscription
// that is already gone is a no-op. Once the last subscription for a book is
// removed, the book's bookkeeping is deleted.
func (b *Bus) Unsubscribe(bookID string, sub *Subscription) {
	b.mu.Lock()
	if subs, ok := b.runs[bookID]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(b.runs, bookID)
		}
	}
	b.mu.Unlock()

	sub.close()
}

// Publish delivers snapshot to every subscriber currently registered under
// bookID, in publish order per subscriber. No subscribers, no work. The bus
// lock is held across the pushes so concurrent publishers cannot interleave
// differently at different mailboxes; push never blocks.
func (b *Bus) Publish(bookID string, snapshot *domain.RunState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.runs[bookID] {
		sub.push(snapshot)
	}
}

// SubscriberCount reports how many mailboxes are registered for a book.
func (b *Bus) SubscriberCount(bookID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.runs[bookID])
}
