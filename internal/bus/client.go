package bus

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Client is a websocket connection to a Hub. One window owns one Client; all
// three of its stores multiplex their channels over the single socket.
type Client struct {
	conn *websocket.Conn

	writeMu sync.Mutex // gorilla allows at most one concurrent writer

	mu     sync.Mutex
	subs   map[string]map[int]Handler
	nextID int
	closed bool
}

// Dial connects to the hub at addr (host:port).
func Dial(addr string) (*Client, error) {
	url := fmt.Sprintf("ws://%s/sync", addr)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("bus: dial %s: %w", url, err)
	}
	c := &Client{
		conn: conn,
		subs: make(map[string]map[int]Handler),
	}
	go c.readLoop()
	return c, nil
}

func (c *Client) readLoop() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if !closed {
				log.Printf("[bus] connection to hub lost: %v", err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Channel == "" {
			log.Printf("[bus] dropping malformed frame (%d bytes)", len(data))
			continue
		}
		c.dispatch(env)
	}
}

func (c *Client) dispatch(env Envelope) {
	c.mu.Lock()
	handlers := make([]Handler, 0, len(c.subs[env.Channel]))
	for _, h := range c.subs[env.Channel] {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()

	for _, h := range handlers {
		h(env)
	}
}

func (c *Client) Send(channel, sender string, payload []byte) error {
	data, err := json.Marshal(Envelope{Channel: channel, Sender: sender, Payload: payload})
	if err != nil {
		return fmt.Errorf("bus: encode envelope: %w", err)
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("bus: send on %q: %w", channel, err)
	}
	return nil
}

func (c *Client) Subscribe(channel string, h Handler) (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, errors.New("bus: client closed")
	}
	if c.subs[channel] == nil {
		c.subs[channel] = make(map[int]Handler)
	}
	id := c.nextID
	c.nextID++
	c.subs[channel][id] = h

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs[channel], id)
	}
	return cancel, nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.subs = make(map[string]map[int]Handler)
	c.mu.Unlock()
	return c.conn.Close()
}
