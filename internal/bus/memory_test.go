package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFanOut(t *testing.T) {
	m := NewMemory()

	var got []Envelope
	cancel, err := m.Subscribe("doc", func(env Envelope) {
		got = append(got, env)
	})
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, m.Send("doc", "a", []byte(`{"n":1}`)))
	require.NoError(t, m.Send("doc", "b", []byte(`{"n":2}`)))
	require.NoError(t, m.Send("other", "a", []byte(`{"n":3}`)))

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Sender)
	assert.Equal(t, "b", got[1].Sender)
	assert.JSONEq(t, `{"n":1}`, string(got[0].Payload))
}

func TestMemoryMultipleSubscribers(t *testing.T) {
	m := NewMemory()

	var a, b int
	_, err := m.Subscribe("doc", func(Envelope) { a++ })
	require.NoError(t, err)
	_, err = m.Subscribe("doc", func(Envelope) { b++ })
	require.NoError(t, err)

	require.NoError(t, m.Send("doc", "x", nil))
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}

func TestMemoryUnsubscribe(t *testing.T) {
	m := NewMemory()

	var n int
	cancel, err := m.Subscribe("doc", func(Envelope) { n++ })
	require.NoError(t, err)

	require.NoError(t, m.Send("doc", "x", nil))
	cancel()
	require.NoError(t, m.Send("doc", "x", nil))

	assert.Equal(t, 1, n, "cancelled subscription must not receive")
}

func TestMemoryClosed(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Close())

	assert.Error(t, m.Send("doc", "x", nil))
	_, err := m.Subscribe("doc", func(Envelope) {})
	assert.Error(t, err)
}
