package bus

import (
	"errors"
	"sync"
)

// Memory is an in-process broadcast medium. Standalone mode runs the control
// and presentation windows on one, and tests use it as a deterministic
// transport: delivery is synchronous, in publish order.
type Memory struct {
	mu     sync.Mutex
	subs   map[string]map[int]Handler
	nextID int
	closed bool
}

func NewMemory() *Memory {
	return &Memory{subs: make(map[string]map[int]Handler)}
}

// Conn returns a handle for one window. All handles share the same medium;
// the Memory itself already satisfies Conn, so this is purely for symmetry
// with the websocket transport where each window dials its own socket.
func (m *Memory) Conn() Conn { return m }

func (m *Memory) Send(channel, sender string, payload []byte) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return errors.New("bus: memory bus closed")
	}
	env := Envelope{Channel: channel, Sender: sender, Payload: payload}
	handlers := make([]Handler, 0, len(m.subs[channel]))
	for _, h := range m.subs[channel] {
		handlers = append(handlers, h)
	}
	m.mu.Unlock()

	for _, h := range handlers {
		h(env)
	}
	return nil
}

func (m *Memory) Subscribe(channel string, h Handler) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, errors.New("bus: memory bus closed")
	}
	if m.subs[channel] == nil {
		m.subs[channel] = make(map[int]Handler)
	}
	id := m.nextID
	m.nextID++
	m.subs[channel][id] = h

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs[channel], id)
	}
	return cancel, nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.subs = make(map[string]map[int]Handler)
	return nil
}
