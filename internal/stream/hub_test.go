package stream

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	hub := NewHub([]string{"*"}, logger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	return hub, cancel
}

func sheetPayload(t *testing.T, matchID uuid.UUID) []byte {
	t.Helper()

	payload, err := json.Marshal(struct {
		Type    string    `json:"type"`
		MatchID uuid.UUID `json:"match_id"`
	}{Type: "price_sheet", MatchID: matchID})
	require.NoError(t, err)
	return payload
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()

	select {
	case msg := <-c.send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for stream message")
		return nil
	}
}

func assertNoMessage(t *testing.T, c *Client) {
	t.Helper()

	select {
	case msg := <-c.send:
		t.Fatalf("unexpected message: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	first := NewClient("client-1", nil, hub)
	second := NewClient("client-2", nil, hub)

	hub.Register(first)
	hub.Register(second)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	hub.Unregister(first)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestBroadcastReachesSubscribers(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	matchA := uuid.New()
	matchB := uuid.New()

	all := NewClient("all", nil, hub)
	onlyA := NewClient("only-a", nil, hub)
	onlyA.SetMatchFilter(matchA)

	hub.Register(all)
	hub.Register(onlyA)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	hub.Broadcast(sheetPayload(t, matchA))
	assert.NotNil(t, receive(t, all))
	assert.NotNil(t, receive(t, onlyA))

	hub.Broadcast(sheetPayload(t, matchB))
	assert.NotNil(t, receive(t, all))
	assertNoMessage(t, onlyA)
}

func TestBroadcastDropsSlowClient(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	slow := NewClient("slow", nil, hub)
	hub.Register(slow)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	// Nobody drains the send channel, so filling it simulates a
	// stalled reader
	for i := 0; i < sendBufferSize; i++ {
		require.True(t, slow.TrySend([]byte("backlog")))
	}

	hub.Broadcast(sheetPayload(t, uuid.New()))
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestBroadcastDiscardsMalformedPayload(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	client := NewClient("client", nil, hub)
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Broadcast([]byte("not json"))
	assertNoMessage(t, client)
}

func TestTrySendDropsWhenFull(t *testing.T) {
	client := NewClient("full", nil, nil)

	for i := 0; i < sendBufferSize; i++ {
		require.True(t, client.TrySend([]byte("msg")))
	}
	assert.False(t, client.TrySend([]byte("overflow")))
}

func TestWantsMatch(t *testing.T) {
	matchA := uuid.New()
	matchB := uuid.New()

	tests := []struct {
		name   string
		filter uuid.UUID
		match  uuid.UUID
		want   bool
	}{
		{"no filter receives everything", uuid.Nil, matchA, true},
		{"matching filter", matchA, matchA, true},
		{"non-matching filter", matchA, matchB, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient("client", nil, nil)
			client.SetMatchFilter(tt.filter)
			assert.Equal(t, tt.want, client.wantsMatch(tt.match))
		})
	}
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub, cancel := newTestHub(t)

	client := NewClient("client", nil, hub)
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)

	_, open := <-client.send
	assert.False(t, open, "send channel should be closed after shutdown")
}

func TestCheckOrigin(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"wildcard admits any origin", []string{"*"}, "https://example.com", true},
		{"exact match", []string{"https://app.example.com"}, "https://app.example.com", true},
		{"mismatch rejected", []string{"https://app.example.com"}, "https://evil.example.com", false},
		{"no origin header admits non-browser clients", []string{"https://app.example.com"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := NewHub(tt.allowed, logger)

			req := httptest.NewRequest("GET", "/api/v1/stream", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, hub.upgrader.CheckOrigin(req))
		})
	}
}
