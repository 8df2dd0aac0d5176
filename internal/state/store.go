package state

import (
	"encoding/json"
	"log"
	"sync"

	"slatecast/internal/bus"
)

// Origin says where a mutation came from. Only local mutations are echoed to
// the other replicas; applying a remote update must never re-broadcast it,
// or two windows would relay the same change back and forth forever.
type Origin int

const (
	OriginLocal Origin = iota
	OriginRemote
)

// Store is one replicated value cell. Each window holds its own Store per
// channel; a local Mutate updates the window immediately and fans the new
// value out to everyone else, while inbound updates are applied verbatim,
// last write wins, whole value.
type Store[T any] struct {
	channel  string
	sender   string
	conn     bus.Conn
	initial  T
	validate func(T) error

	mu       sync.Mutex
	value    T
	watchers []func(T)

	cancel func()
}

// NewStore seeds the cell with initial and starts listening on channel.
// validate may be nil; when set, inbound payloads failing it are dropped
// whole, never partially applied.
func NewStore[T any](conn bus.Conn, channel, sender string, initial T, validate func(T) error) (*Store[T], error) {
	s := &Store[T]{
		channel:  channel,
		sender:   sender,
		conn:     conn,
		initial:  initial,
		value:    initial,
		validate: validate,
	}
	cancel, err := conn.Subscribe(channel, s.onEnvelope)
	if err != nil {
		return nil, err
	}
	s.cancel = cancel
	return s, nil
}

// Get returns the current value. Reads are always immediate: whatever the
// last local or applied-remote mutation left behind.
func (s *Store[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Mutate applies fn to the current value and replicates the result.
func (s *Store[T]) Mutate(fn func(T) T) {
	s.mu.Lock()
	next := fn(s.value)
	s.value = next
	watchers := s.snapshotWatchers()
	s.mu.Unlock()

	s.finish(next, OriginLocal, watchers)
}

// Reset restores the initial value and replicates it like any local change.
func (s *Store[T]) Reset() {
	s.Mutate(func(T) T { return s.initial })
}

// Watch registers fn to run after every applied mutation, local or remote.
// The UI uses this to repaint.
func (s *Store[T]) Watch(fn func(T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers = append(s.watchers, fn)
}

// Close releases the store's channel subscription.
func (s *Store[T]) Close() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Store[T]) onEnvelope(env bus.Envelope) {
	if env.Sender == s.sender {
		// Our own echo, depending on transport loopback. Never re-apply.
		return
	}

	var next T
	if err := json.Unmarshal(env.Payload, &next); err != nil {
		log.Printf("[store %s] dropping undecodable update from %s: %v", s.channel, env.Sender, err)
		return
	}
	if s.validate != nil {
		if err := s.validate(next); err != nil {
			log.Printf("[store %s] dropping invalid update from %s: %v", s.channel, env.Sender, err)
			return
		}
	}

	s.mu.Lock()
	s.value = next
	watchers := s.snapshotWatchers()
	s.mu.Unlock()

	s.finish(next, OriginRemote, watchers)
}

// finish runs the post-apply steps for a mutation. The origin tag is the
// feedback-loop guard: remote applications skip the broadcast entirely.
func (s *Store[T]) finish(next T, origin Origin, watchers []func(T)) {
	if origin == OriginLocal {
		s.broadcast(next)
	}
	for _, w := range watchers {
		w(next)
	}
}

func (s *Store[T]) broadcast(next T) {
	payload, err := json.Marshal(next)
	if err != nil {
		log.Printf("[store %s] encode failed: %v", s.channel, err)
		return
	}
	if err := s.conn.Send(s.channel, s.sender, payload); err != nil {
		log.Printf("[store %s] broadcast failed: %v", s.channel, err)
	}
}

// snapshotWatchers must be called with mu held.
func (s *Store[T]) snapshotWatchers() []func(T) {
	out := make([]func(T), len(s.watchers))
	copy(out, s.watchers)
	return out
}
