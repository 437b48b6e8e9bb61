package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"perpdesk/internal/domain"
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

func TestSubscribeRejectsEmptyURL(t *testing.T) {
	f := NewFeed("   ")
	if _, err := f.Subscribe(context.Background()); err == nil {
		t.Errorf("expected error for empty ws url")
	}
}

func TestSnapshotFrameDecoding(t *testing.T) {
	frame := []byte(`[
		{"provider":"0xabc","isClosed":false,"asset":"BTC","price":"42000","spread":"20","timestamp":"1700000000","signature":"0xsig"},
		{"asset":"ETH","price":"2000"}
	]`)

	var snap domain.Snapshot
	if err := json.Unmarshal(frame, &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(snap) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(snap))
	}
	if snap[0].Provider == nil || *snap[0].Provider != "0xabc" {
		t.Errorf("provider: got %v", snap[0].Provider)
	}
	// partial row: absent fields decode to nil, not zero values
	if snap[1].Provider != nil || snap[1].Signature != nil || snap[1].IsClosed != nil {
		t.Errorf("partial row must keep absent fields nil: %+v", snap[1])
	}
	if snap[1].Price == nil || *snap[1].Price != "2000" {
		t.Errorf("price: got %v", snap[1].Price)
	}
}

func TestFeedShutdownClosesChannelCleanly(t *testing.T) {
	url := wsServer(t, func(conn *websocket.Conn) {
		frame := []byte(`[{"asset":"BTC","price":"42000"}]`)
		for {
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := NewFeed(url)
	ch, err := f.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	select {
	case snap := <-ch:
		if len(snap) != 1 || snap[0].Price == nil || *snap[0].Price != "42000" {
			t.Fatalf("unexpected snapshot: %+v", snap)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no snapshot delivered")
	}

	// cancel while the server is still pushing; the channel must close
	// without a stray send racing the close
	cancel()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("feed channel not closed after cancellation")
		}
	}
}
