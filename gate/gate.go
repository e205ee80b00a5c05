// Package gate admits logged-in sessions to the ATM one at a time, in
// arrival order. Only the session at the head of the queue may transact.
package gate

import (
	"fmt"
	"sync"

	"go-atm/models"
)

// Gate is a FIFO queue of customer IDs.
type Gate struct {
	mu    sync.Mutex
	queue []string
}

// New creates an empty gate
func New() *Gate {
	return &Gate{}
}

// Enqueue appends id to the tail
func (g *Gate) Enqueue(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queue = append(g.queue, id)
}

// IsFront reports whether id is at the head of a non-empty queue
func (g *Gate) IsFront(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.queue) > 0 && g.queue[0] == id
}

// Dequeue removes the head. It is a no-op on an empty queue.
func (g *Gate) Dequeue() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removeAt(0)
}

// Leave removes the earliest entry for id and reports whether one existed.
// For the head session this is the same as Dequeue.
func (g *Gate) Leave(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, queued := range g.queue {
		if queued == id {
			g.removeAt(i)
			return true
		}
	}
	return false
}

// WithTurn runs fn only if id is at the head, holding the gate for the
// duration so no other session can leave or be dequeued in between.
// fn must not call back into the gate.
func (g *Gate) WithTurn(id string, fn func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.queue) == 0 || g.queue[0] != id {
		return fmt.Errorf("%s: %w", id, models.ErrNotYourTurn)
	}
	return fn()
}

// Position returns the zero-based place of id in the queue, or -1
func (g *Gate) Position(id string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, queued := range g.queue {
		if queued == id {
			return i
		}
	}
	return -1
}

// Len reports the number of queued sessions
func (g *Gate) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.queue)
}

// Snapshot returns the queue from head to tail
func (g *Gate) Snapshot() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.queue))
	copy(out, g.queue)
	return out
}

func (g *Gate) removeAt(i int) {
	if i < 0 || i >= len(g.queue) {
		return
	}
	copy(g.queue[i:], g.queue[i+1:])
	g.queue[len(g.queue)-1] = ""
	g.queue = g.queue[:len(g.queue)-1]
}
