package venue

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"perpdesk/internal/domain"
)

// Stream is the venue's raw event push channel. The endpoint is chosen
// between two fixed URLs by the local clock's UTC offset, a coarse proxy
// for region: east of UTC picks the primary (eastern) endpoint.
type Stream struct {
	wsURL string

	readyOnce sync.Once
	ready     chan struct{}
}

func NewStream(primaryURL, secondaryURL string) *Stream {
	return &Stream{
		wsURL: pickEndpoint(primaryURL, secondaryURL),
		ready: make(chan struct{}),
	}
}

// pickEndpoint selects between the two fixed stream endpoints using the
// local UTC offset.
func pickEndpoint(primary, secondary string) string {
	_, offset := time.Now().Zone()
	if offset > 0 {
		return strings.TrimSpace(primary)
	}
	return strings.TrimSpace(secondary)
}

// Ready is closed once the handshake has completed and the subscribe
// frames for the first connection have been written.
func (s *Stream) Ready() <-chan struct{} { return s.ready }

type subscribeReq struct {
	Op   string   `json:"op"`
	Args []string `json:"args"`
}

// Subscribe attaches to the named events and delivers each occurrence on
// the returned channel. Reconnects resubscribe to the same set; events
// emitted while disconnected are lost, there is no replay.
func (s *Stream) Subscribe(ctx context.Context, events []string) (<-chan domain.RawEvent, error) {
	if s.wsURL == "" {
		return nil, errors.New("venue stream url empty")
	}
	if len(events) == 0 {
		return nil, errors.New("no events to subscribe")
	}

	out := make(chan domain.RawEvent, 1024)
	go s.run(ctx, events, out)
	return out, nil
}

func (s *Stream) run(ctx context.Context, events []string, out chan<- domain.RawEvent) {
	defer close(out)

	backoff := 500 * time.Millisecond
	maxBackoff := 10 * time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		log.Warn().Str("stream", "venue").Str("url", s.wsURL).Msg("ws connecting")
		cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		conn, _, err := websocket.DefaultDialer.DialContext(cctx, s.wsURL, nil)
		cancel()
		if err != nil {
			log.Error().Str("stream", "venue").Err(err).Msg("ws dial failed")
			time.Sleep(backoff)
			backoff = minDur(backoff*2, maxBackoff)
			continue
		}

		backoff = 500 * time.Millisecond
		log.Info().Str("stream", "venue").Msg("ws connected")

		sub := subscribeReq{Op: "subscribe", Args: events}
		if err := conn.WriteJSON(&sub); err != nil {
			log.Error().Str("stream", "venue").Err(err).Msg("subscribe failed")
			_ = conn.Close()
			continue
		}
		s.readyOnce.Do(func() { close(s.ready) })

		err = readLoop(ctx, conn, func(b []byte) {
			var ev domain.RawEvent
			if e := json.Unmarshal(b, &ev); e != nil {
				log.Error().Str("stream", "venue").Err(e).Msg("json unmarshal failed")
				return
			}
			if ev.Name == "" {
				// subscribe ack or heartbeat
				return
			}
			select {
			case out <- ev:
			case <-ctx.Done():
			}
		})

		_ = conn.Close()

		if ctx.Err() != nil {
			return
		}

		log.Warn().Str("stream", "venue").Err(err).Msg("ws disconnected, reconnecting")
		time.Sleep(backoff)
		backoff = minDur(backoff*2, maxBackoff)
	}
}

func readLoop(ctx context.Context, conn *websocket.Conn, onMsg func([]byte)) error {
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	pingTicker := time.NewTicker(25 * time.Second)
	defer pingTicker.Stop()

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		for {
			_, b, err := conn.ReadMessage()
			if err == nil {
				_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			}
			if err != nil {
				errCh <- err
				return
			}
			onMsg(b)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			// the caller closes its output channel after we return, so the
			// reader goroutine must be gone first
			_ = conn.Close()
			<-errCh
			return ctx.Err()
		case err := <-errCh:
			return err
		case <-pingTicker.C:
			_ = conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second))
		}
	}
}

func minDur(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
