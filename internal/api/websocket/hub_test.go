package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newHubClient upgrades a real connection so the hub's logging can read the
// remote address. The peer side never reads; delivery is observed through
// the client's send channel.
func newHubClient(t *testing.T, h *Hub, buffer int) *Client {
	t.Helper()

	connCh := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := (&websocket.Upgrader{}).Upgrade(w, r, nil)
		if err != nil {
			return
		}
		connCh <- conn
	}))
	t.Cleanup(srv.Close)

	peer, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { peer.Close() })

	conn := <-connCh
	t.Cleanup(func() { conn.Close() })

	return &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, buffer),
		logger: h.logger,
	}
}

func TestBroadcastEvictsStalledClient(t *testing.T) {
	h := NewHub(zap.NewNop(), nil)
	go h.Run()

	healthy := newHubClient(t, h, 64)
	stalled := newHubClient(t, h, 1)
	h.register <- healthy
	h.register <- stalled

	require.Eventually(t, func() bool { return h.GetClientCount() == 2 },
		time.Second, 5*time.Millisecond)

	// Fill the stalled client's buffer so the next delivery cannot queue.
	stalled.send <- []byte("backlog")

	// Hammer the client count while broadcasts run; eviction and the
	// concurrent reads must not tear the client map.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 5000; i++ {
			h.GetClientCount()
		}
	}()

	for i := 0; i < 20; i++ {
		h.Broadcast(NewMessage(MessageTypeCellState, map[string]int{"seq": i}))
	}
	wg.Wait()

	require.Eventually(t, func() bool { return h.GetClientCount() == 1 },
		time.Second, 5*time.Millisecond)

	// The stalled client's channel was closed on eviction; the healthy one
	// keeps receiving.
	_, open := <-healthy.send
	assert.True(t, open)
}

type staticStatusProvider struct{}

func (staticStatusProvider) GetStatus() any {
	return map[string]string{"state": "monitoring"}
}

func TestRegisterSendsCellStatusSnapshot(t *testing.T) {
	h := NewHub(zap.NewNop(), nil)
	h.SetCellStatusProvider(staticStatusProvider{})
	go h.Run()

	client := newHubClient(t, h, 4)
	h.register <- client

	select {
	case data := <-client.send:
		assert.Contains(t, string(data), `"cell_state"`)
		assert.Contains(t, string(data), "monitoring")
	case <-time.After(time.Second):
		t.Fatal("no cell status snapshot after register")
	}
}
