package ws_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"

	"property-feed/internal/pubsub"
	"property-feed/internal/ws"
	"property-feed/pkg/utils"
)

// newLiveGateway wires a hub behind a relay subscribed to the category
// channels on miniredis, exposed through an httptest WebSocket endpoint.
func newLiveGateway(t *testing.T) (*ws.Hub, *redis.Client, string) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	log := utils.NewLogger()
	hub := ws.NewHub(log)
	go hub.Run(ctx)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	relay := pubsub.NewRelay(rdb, hub, log)
	if err := relay.Run(ctx); err != nil {
		t.Fatalf("relay failed to subscribe: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, w, r)
	}))
	t.Cleanup(srv.Close)

	return hub, rdb, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dialClient(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// First frame is the connection hello.
	_, hello, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read hello frame: %v", err)
	}
	if !strings.Contains(string(hello), `"connected"`) {
		t.Fatalf("unexpected hello frame: %s", hello)
	}
	return conn
}

func waitForClients(t *testing.T, hub *ws.Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("client count: got %d, want %d", hub.ClientCount(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestFanOutDeliversToEveryConnectedClient(t *testing.T) {
	hub, rdb, url := newLiveGateway(t)

	const n = 3
	conns := make([]*websocket.Conn, 0, n)
	for i := 0; i < n; i++ {
		conns = append(conns, dialClient(t, url))
	}
	waitForClients(t, hub, n)

	payload := `{"propertyId":"PROP1","zoneClassification":{"currentZone":"green","confidence":100}}`
	if err := rdb.Publish(context.Background(), "property-updates", payload).Err(); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	for i, conn := range conns {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		msgType, got, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("client %d read failed: %v", i, err)
		}
		if msgType != websocket.TextMessage {
			t.Errorf("client %d: got frame type %d, want text", i, msgType)
		}
		if string(got) != payload {
			t.Errorf("client %d: payload not byte-identical:\ngot:  %s\nwant: %s", i, got, payload)
		}
	}
}

func TestPerChannelOrderPreserved(t *testing.T) {
	hub, rdb, url := newLiveGateway(t)

	conn := dialClient(t, url)
	waitForClients(t, hub, 1)

	ctx := context.Background()
	sent := []string{`{"seq":1}`, `{"seq":2}`, `{"seq":3}`}
	for _, msg := range sent {
		if err := rdb.Publish(ctx, "market-updates", msg).Err(); err != nil {
			t.Fatalf("publish failed: %v", err)
		}
	}

	for i, want := range sent {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, got, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read %d failed: %v", i, err)
		}
		if string(got) != want {
			t.Errorf("message %d out of order: got %s, want %s", i, got, want)
		}
	}
}

func TestDisconnectedClientIsNotDelivered(t *testing.T) {
	hub, rdb, url := newLiveGateway(t)

	stayer := dialClient(t, url)
	leaver := dialClient(t, url)
	waitForClients(t, hub, 2)

	leaver.Close()
	waitForClients(t, hub, 1)

	payload := `{"propertyId":"PROP9"}`
	if err := rdb.Publish(context.Background(), "property-updates", payload).Err(); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	stayer.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, got, err := stayer.ReadMessage()
	if err != nil {
		t.Fatalf("connected client should still receive: %v", err)
	}
	if string(got) != payload {
		t.Errorf("got %s, want %s", got, payload)
	}
}
