package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slatecast/internal/bus"
)

type counter struct {
	Value int `json:"value"`
}

func newCounterStore(t *testing.T, m *bus.Memory, sender string) *Store[counter] {
	t.Helper()
	s, err := NewStore(m, "test/counter", sender, counter{}, nil)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestLocalMutateReachesOtherReplica(t *testing.T) {
	m := bus.NewMemory()
	a := newCounterStore(t, m, "a")
	b := newCounterStore(t, m, "b")

	a.Mutate(func(c counter) counter { c.Value = 7; return c })

	assert.Equal(t, 7, a.Get().Value)
	assert.Equal(t, 7, b.Get().Value, "remote replica must see the new value")
}

func TestNoEcho(t *testing.T) {
	m := bus.NewMemory()

	var sent []bus.Envelope
	_, err := m.Subscribe("test/counter", func(env bus.Envelope) {
		sent = append(sent, env)
	})
	require.NoError(t, err)

	a := newCounterStore(t, m, "a")
	b := newCounterStore(t, m, "b")

	var applied int
	b.Watch(func(counter) { applied++ })

	a.Mutate(func(c counter) counter { c.Value = 1; return c })

	// Exactly one frame on the wire, from a. If b had re-broadcast the
	// inbound update, a would apply it, re-broadcast, and so on forever.
	require.Len(t, sent, 1)
	assert.Equal(t, "a", sent[0].Sender)
	assert.Equal(t, 1, applied)
}

func TestOwnSenderIgnored(t *testing.T) {
	m := bus.NewMemory()
	a := newCounterStore(t, m, "a")

	var applied int
	a.Watch(func(counter) { applied++ })

	// A transport that loops frames back to the sender must not make the
	// store re-apply its own update.
	require.NoError(t, m.Send("test/counter", "a", []byte(`{"value":99}`)))

	assert.Equal(t, 0, applied)
	assert.Equal(t, 0, a.Get().Value)
}

func TestMalformedPayloadDropped(t *testing.T) {
	m := bus.NewMemory()
	a := newCounterStore(t, m, "a")

	require.NoError(t, m.Send("test/counter", "b", []byte(`{"value": "not a number"`)))

	assert.Equal(t, 0, a.Get().Value, "malformed payload must not be applied")
}

func TestValidateFailClosed(t *testing.T) {
	m := bus.NewMemory()
	s, err := NewStore(m, "test/vp", "a", counter{Value: 5}, func(c counter) error {
		if c.Value < 0 {
			return assert.AnError
		}
		return nil
	})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, m.Send("test/vp", "b", []byte(`{"value":-1}`)))
	assert.Equal(t, 5, s.Get().Value)

	require.NoError(t, m.Send("test/vp", "b", []byte(`{"value":3}`)))
	assert.Equal(t, 3, s.Get().Value)
}

func TestResetBroadcasts(t *testing.T) {
	m := bus.NewMemory()
	a := newCounterStore(t, m, "a")
	b := newCounterStore(t, m, "b")

	a.Mutate(func(c counter) counter { c.Value = 42; return c })
	require.Equal(t, 42, b.Get().Value)

	a.Reset()
	assert.Equal(t, 0, a.Get().Value)
	assert.Equal(t, 0, b.Get().Value, "reset replicates like any other mutation")
}

func TestClosedStoreStopsReceiving(t *testing.T) {
	m := bus.NewMemory()
	a := newCounterStore(t, m, "a")
	b := newCounterStore(t, m, "b")

	b.Close()
	a.Mutate(func(c counter) counter { c.Value = 9; return c })

	assert.Equal(t, 0, b.Get().Value)
}
