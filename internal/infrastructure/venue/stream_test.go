package venue

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func wsServer(t *testing.T, handler func(*websocket.Conn)) string {
	t.Helper()
	up := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		handler(conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestPickEndpointUsesClockOffset(t *testing.T) {
	_, offset := time.Now().Zone()
	got := pickEndpoint("wss://east", "wss://west")
	if offset > 0 && got != "wss://east" {
		t.Errorf("east of UTC must pick the primary endpoint, got %s", got)
	}
	if offset <= 0 && got != "wss://west" {
		t.Errorf("at or west of UTC must pick the secondary endpoint, got %s", got)
	}
}

func TestPickEndpointTrimsWhitespace(t *testing.T) {
	got := pickEndpoint("  wss://east  ", "  wss://west  ")
	if got != "wss://east" && got != "wss://west" {
		t.Errorf("endpoint not trimmed: %q", got)
	}
}

func TestSubscribeRejectsEmptyInputs(t *testing.T) {
	s := NewStream("", "")
	if _, err := s.Subscribe(context.Background(), []string{"PositionOpened"}); err == nil {
		t.Errorf("expected error for empty stream url")
	}

	s = NewStream("wss://east", "wss://west")
	if _, err := s.Subscribe(context.Background(), nil); err == nil {
		t.Errorf("expected error for empty event list")
	}
}

func TestReadyNotSignalledBeforeConnect(t *testing.T) {
	s := NewStream("wss://east", "wss://west")
	select {
	case <-s.Ready():
		t.Errorf("ready must not be signalled before the handshake")
	default:
	}
}

func TestSubscribeSignalsReadyAndDelivers(t *testing.T) {
	url := wsServer(t, func(conn *websocket.Conn) {
		var sub subscribeReq
		if err := conn.ReadJSON(&sub); err != nil {
			return
		}
		if sub.Op != "subscribe" || len(sub.Args) != 1 || sub.Args[0] != "PositionOpened" {
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"PositionOpened","data":{"id":1}}`)); err != nil {
			return
		}
		// hold the connection open until the client drops it
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewStream(url, url)
	ch, err := s.Subscribe(ctx, []string{"PositionOpened"})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	// Subscribe starts the dial, so ready must fire on its own long before
	// any grace period a caller might layer on top
	select {
	case <-s.Ready():
	case <-time.After(2 * time.Second):
		t.Fatalf("ready never signalled against a live server")
	}

	select {
	case ev := <-ch:
		if ev.Name != "PositionOpened" {
			t.Errorf("event name: got %s", ev.Name)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("event not delivered")
	}

	cancel()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("event channel not closed after cancellation")
		}
	}
}
