package redis

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"perpdesk/internal/application/port"
)

type Repo struct {
	rdb       *redis.Client
	prefix    string
	ttl       time.Duration
	keyLatest string // prefix + ":events:latest"
	stream    string
	channel   string
}

type journalEvent struct {
	Name    string `json:"name"`
	Payload string `json:"payload"`
	Ts      int64  `json:"ts"`
}

func New(rdb *redis.Client, prefix string, ttl time.Duration, stream, channel string) *Repo {
	if strings.TrimSpace(stream) == "" {
		stream = prefix + ":events"
	}
	if strings.TrimSpace(channel) == "" {
		channel = prefix + ":events:pub"
	}
	return &Repo{
		rdb:       rdb,
		prefix:    prefix,
		ttl:       ttl,
		keyLatest: prefix + ":events:latest",
		stream:    stream,
		channel:   channel,
	}
}

func (r *Repo) InsertEvent(ctx context.Context, ts int64, name, payload string) error {
	ev := journalEvent{Name: name, Payload: payload, Ts: ts}
	b, _ := json.Marshal(ev)

	// 1) Stream: XADD <stream> * ts name payload
	_, err := r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]any{
			"ts_ms":   ts,
			"name":    name,
			"payload": payload,
		},
	}).Result()
	if err != nil {
		return err
	}

	// 2) Hash of latest event per canonical name + 3) pub/sub fanout
	pipe := r.rdb.Pipeline()
	pipe.HSet(ctx, r.keyLatest, name, string(b))
	if r.ttl > 0 {
		pipe.Expire(ctx, r.keyLatest, r.ttl)
	}
	pipe.Publish(ctx, r.channel, string(b))
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Repo) InsertSubmission(ctx context.Context, id, kind, asset, status, detail string) error {
	_, err := r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: r.prefix + ":submissions",
		Values: map[string]any{
			"id":     id,
			"kind":   kind,
			"asset":  asset,
			"status": status,
			"detail": detail,
		},
	}).Result()
	return err
}

func (r *Repo) Close() error { return r.rdb.Close() }

var _ port.EventJournal = (*Repo)(nil)
