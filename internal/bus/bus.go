// Package bus is the broadcast transport the replicated stores ride on.
// It is deliberately dumb: fire-and-forget, at-most-once, FIFO per sender,
// no replay for subscribers that were not listening when a message was sent.
package bus

import "encoding/json"

// Envelope is the wire frame. Sender carries the originating replica's ID so
// a receiver can tell its own echoes apart from everyone else's updates.
type Envelope struct {
	Channel string          `json:"channel"`
	Sender  string          `json:"sender"`
	Payload json.RawMessage `json:"payload"`
}

// Handler receives every envelope published on a subscribed channel,
// including ones this process sent on other connections.
type Handler func(Envelope)

// Conn is one window's handle on the shared broadcast medium.
type Conn interface {
	// Send publishes payload on channel. Delivery is best-effort; there is
	// no acknowledgment and no error for absent receivers.
	Send(channel, sender string, payload []byte) error

	// Subscribe registers h for envelopes on channel and returns a cancel
	// function releasing the subscription.
	Subscribe(channel string, h Handler) (func(), error)

	// Close releases the connection and every subscription on it.
	Close() error
}
