package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, time.Second, 5*time.Millisecond)
}

func TestPublishReachesEveryConnection(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewManager(nil)
	m.Start(ctx)

	a := &Client{UserID: "u1", Send: make(chan []byte, 1)}
	b := &Client{UserID: "u1", Send: make(chan []byte, 1)}
	other := &Client{UserID: "u2", Send: make(chan []byte, 1)}
	m.Register <- a
	m.Register <- b
	m.Register <- other
	waitFor(t, func() bool { return m.Connections("u1") == 2 && m.Connections("u2") == 1 })

	m.Publish("u1", Event{Type: EventMessageCreated, Data: map[string]string{"id": "m1"}})

	for _, c := range []*Client{a, b} {
		select {
		case raw := <-c.Send:
			var ev Event
			require.NoError(t, json.Unmarshal(raw, &ev))
			assert.Equal(t, EventMessageCreated, ev.Type)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
	assert.Empty(t, other.Send)

	m.Unregister <- a
	waitFor(t, func() bool { return m.Connections("u1") == 1 })
	_, open := <-a.Send
	assert.False(t, open)
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewManager(nil)
	m.Start(ctx)
	c := &Client{UserID: "u1", Send: make(chan []byte, 1)}
	m.Register <- c
	waitFor(t, func() bool { return m.Connections("u1") == 1 })

	m.Publish("u1", Event{Type: EventNotificationCreated})
	m.Publish("u1", Event{Type: EventNotificationCreated})
	assert.Len(t, c.Send, 1)
}

func TestHandleClientFrame(t *testing.T) {
	reply, ok := HandleClientFrame([]byte(`{"type":"ping"}`))
	require.True(t, ok)
	assert.Contains(t, string(reply), `"type":"pong"`)

	_, ok = HandleClientFrame([]byte(`{"type":"typing"}`))
	assert.False(t, ok)
	_, ok = HandleClientFrame([]byte(`not json`))
	assert.False(t, ok)
}

func TestShutdownReleasesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	m := NewManager(nil)
	m.Start(ctx)
	c := &Client{UserID: "u1", Send: make(chan []byte, 1)}
	require.True(t, m.Join(c))
	waitFor(t, func() bool { return m.Connections("u1") == 1 })

	cancel()
	waitFor(t, func() bool { return m.Connections("u1") == 0 })
	_, open := <-c.Send
	assert.False(t, open)

	assert.NotPanics(t, func() { m.reply(c, []byte(`{"type":"pong"}`)) })

	left := make(chan struct{})
	go func() {
		m.Leave(c)
		close(left)
	}()
	select {
	case <-left:
	case <-time.After(time.Second):
		t.Fatal("Leave blocked after shutdown")
	}

	assert.False(t, m.Join(&Client{UserID: "u2", Send: make(chan []byte, 1)}))
}

func TestReplySkipsRemovedClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewManager(nil)
	m.Start(ctx)
	c := &Client{UserID: "u1", Send: make(chan []byte, 1)}
	require.True(t, m.Join(c))
	waitFor(t, func() bool { return m.Connections("u1") == 1 })

	m.reply(c, []byte("first"))
	assert.Equal(t, "first", string(<-c.Send))

	m.Leave(c)
	waitFor(t, func() bool { return m.Connections("u1") == 0 })
	assert.NotPanics(t, func() { m.reply(c, []byte("late")) })
}
