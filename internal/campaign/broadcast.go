// internal/campaign/broadcast.go
package campaign

import (
	"sync"

	"github.com/google/uuid"

	"github.com/unclebandit/mailblast-backend/internal/model"
)

// subscriberBuffer is the per-subscriber channel capacity. Snapshots are
// cumulative, so a dropped update costs nothing once a newer one arrives.
const subscriberBuffer = 16

// Broadcaster fans campaign snapshots out to any number of subscribers. The
// runner publishes fire-and-forget: a slow or gone subscriber never blocks
// the send loop. After Close, late subscribers immediately receive the final
// snapshot and a closed channel.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[uuid.UUID]chan model.Snapshot
	closed bool
	last   model.Snapshot
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[uuid.UUID]chan model.Snapshot)}
}

// Subscribe registers a new listener. The returned channel is closed when the
// campaign reaches a terminal status (after the final snapshot is delivered)
// or when Unsubscribe is called with the returned id.
func (b *Broadcaster) Subscribe() (uuid.UUID, <-chan model.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.New()
	ch := make(chan model.Snapshot, subscriberBuffer)
	if b.closed {
		ch <- b.last
		close(ch)
		return id, ch
	}
	b.subs[id] = ch
	return id, ch
}

// Unsubscribe drops a listener; safe to call after Close.
func (b *Broadcaster) Unsubscribe(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish delivers snap to every subscriber without blocking. If a
// subscriber's buffer is full the update is dropped for that subscriber.
func (b *Broadcaster) Publish(snap model.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.last = snap
	for _, ch := range b.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Close delivers the terminal snapshot to every subscriber and ends all
// subscriptions. The final delivery blocks long enough to drain into each
// buffer only if there is room; a full buffer still gets the close.
func (b *Broadcaster) Close(final model.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.last = final
	for id, ch := range b.subs {
		select {
		case ch <- final:
		default:
		}
		close(ch)
		delete(b.subs, id)
	}
}
