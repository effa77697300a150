// Package session tracks connected players, their typed combat attributes,
// room presence and outbound message queues.
package session

import (
	"fmt"
	"sync"
)

// DefaultOutboxSize is the number of undelivered lines buffered per player.
const DefaultOutboxSize = 128

// Outbox queues text for one player's connection writer.
type Outbox struct {
	uid    string
	lines  chan string
	mu     sync.Mutex
	closed bool
}

// NewOutbox creates an Outbox for the given player UID.
//
// Postcondition: Returns an Outbox with an open channel of at least one slot.
func NewOutbox(uid string, size int) *Outbox {
	if size <= 0 {
		size = DefaultOutboxSize
	}
	return &Outbox{uid: uid, lines: make(chan string, size)}
}

// Push enqueues text without blocking.
//
// Postcondition: Returns an error if the outbox is closed or full; the line is dropped.
func (o *Outbox) Push(text string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return fmt.Errorf("outbox %s is closed", o.uid)
	}
	select {
	case o.lines <- text:
		return nil
	default:
		return fmt.Errorf("outbox %s is full", o.uid)
	}
}

// Lines returns the channel the connection writer drains.
func (o *Outbox) Lines() <-chan string {
	return o.lines
}

// Close closes the channel. Further pushes fail.
func (o *Outbox) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.closed {
		o.closed = true
		close(o.lines)
	}
}
