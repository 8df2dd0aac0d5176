package bus

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(NewHub().Handler())
	t.Cleanup(srv.Close)
	return strings.TrimPrefix(srv.URL, "http://")
}

func waitFor(t *testing.T, ch <-chan Envelope) Envelope {
	t.Helper()
	select {
	case env := <-ch:
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for envelope")
		return Envelope{}
	}
}

func TestHubRelaysToOtherConnections(t *testing.T) {
	addr := startHub(t)

	a, err := Dial(addr)
	require.NoError(t, err)
	defer a.Close()

	b, err := Dial(addr)
	require.NoError(t, err)
	defer b.Close()

	fromA := make(chan Envelope, 8)
	fromB := make(chan Envelope, 8)
	_, err = a.Subscribe("doc", func(env Envelope) { fromA <- env })
	require.NoError(t, err)
	_, err = b.Subscribe("doc", func(env Envelope) { fromB <- env })
	require.NoError(t, err)

	require.NoError(t, a.Send("doc", "replica-a", []byte(`{"v":1}`)))

	env := waitFor(t, fromB)
	assert.Equal(t, "doc", env.Channel)
	assert.Equal(t, "replica-a", env.Sender)
	assert.JSONEq(t, `{"v":1}`, string(env.Payload))

	// The sending socket must not hear its own frame back.
	select {
	case env := <-fromA:
		t.Fatalf("sender received its own frame: %+v", env)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestHubDropsMalformedFrames(t *testing.T) {
	addr := startHub(t)

	a, err := Dial(addr)
	require.NoError(t, err)
	defer a.Close()

	b, err := Dial(addr)
	require.NoError(t, err)
	defer b.Close()

	got := make(chan Envelope, 8)
	_, err = b.Subscribe("doc", func(env Envelope) { got <- env })
	require.NoError(t, err)

	// Raw garbage straight onto the socket; the hub must not relay it.
	a.writeMu.Lock()
	require.NoError(t, a.conn.WriteMessage(websocket.TextMessage, []byte("not json at all")))
	a.writeMu.Unlock()

	require.NoError(t, a.Send("doc", "replica-a", []byte(`{"v":2}`)))

	env := waitFor(t, got)
	assert.JSONEq(t, `{"v":2}`, string(env.Payload))
	assert.Empty(t, got, "garbage frame must not have been relayed")
}
