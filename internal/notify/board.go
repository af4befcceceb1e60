// Package notify holds the transient notifications shown after a user action.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a notification stays up before it is dismissed.
const DefaultTTL = 3 * time.Second

type Kind string

const (
	Success Kind = "success"
	Failure Kind = "error"
)

type Notification struct {
	ID   string
	Kind Kind
	Text string
	At   time.Time
}

// Board keeps at most one pending notification per audience (a session, a
// terminal) and dismisses it after a TTL. Replacing or taking a notification
// cancels its dismissal; Close cancels all of them.
type Board struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	pending map[string]*entry
	closed  bool
}

type entry struct {
	n     Notification
	timer *time.Timer
}

func NewBoard(ttl time.Duration) *Board {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Board{ttl: ttl, now: time.Now, pending: make(map[string]*entry)}
}

func (b *Board) Success(audience, text string) Notification {
	return b.Push(audience, Success, text)
}

// Failure posts the user-facing message for err.
func (b *Board) Failure(audience string, err error) Notification {
	return b.Push(audience, Failure, Message(err))
}

func (b *Board) Push(audience string, kind Kind, text string) Notification {
	n := Notification{ID: uuid.NewString(), Kind: kind, Text: text, At: b.now()}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return n
	}
	if old, ok := b.pending[audience]; ok {
		old.timer.Stop()
	}
	e := &entry{n: n}
	e.timer = time.AfterFunc(b.ttl, func() { b.dismiss(audience, n.ID) })
	b.pending[audience] = e
	return n
}

// Peek returns the pending notification without removing it.
func (b *Board) Peek(audience string) (Notification, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.pending[audience]
	if !ok {
		return Notification{}, false
	}
	return e.n, true
}

// Take returns the pending notification and removes it, as when it is
// rendered.
func (b *Board) Take(audience string) (Notification, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.pending[audience]
	if !ok {
		return Notification{}, false
	}
	e.timer.Stop()
	delete(b.pending, audience)
	return e.n, true
}

// Dismiss removes the pending notification of audience, if any.
func (b *Board) Dismiss(audience string) {
	b.Take(audience)
}

func (b *Board) dismiss(audience, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e, ok := b.pending[audience]; ok && e.n.ID == id {
		delete(b.pending, audience)
	}
}

func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Close stops every pending dismissal. Later pushes are dropped.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for k, e := range b.pending {
		e.timer.Stop()
		delete(b.pending, k)
	}
	b.closed = true
}
