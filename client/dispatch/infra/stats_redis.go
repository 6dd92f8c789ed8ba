package infra

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"stravan-client/client/dispatch/domain"

	"github.com/redis/go-redis/v9"
)

type RedisStatsStore struct {
	rdb *redis.Client

	prefix string
	// ttl aplica apenas em chaves de série temporal / por action.
	// total é cumulativo e não expira.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"

	trackActions bool
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func WithStatsTrackActions(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackActions = track }
}

func NewRedisStatsStore(rdb *redis.Client, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "stravan:dispatch",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// outcomeField devolve o campo do hash: "ok", "transport_failure" ou "other".
func outcomeField(ev domain.StatsEvent) string {
	switch {
	case ev.OK:
		return "ok"
	case ev.Kind == domain.KindTransportFailure:
		return "transport_failure"
	default:
		return "other"
	}
}

func (s *RedisStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	field := outcomeField(ev)
	totalKey := s.prefix + ":total"

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, totalKey, field, 1)

	if s.bucket == "minute" {
		bucketKey := fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
		pipe.HIncrBy(ctx, bucketKey, field, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, bucketKey, s.ttl)
		}
	}

	pipe.HIncrBy(ctx, s.prefix+":route", routeKey(ev)+":"+field, 1)

	if ev.StatusCode != 0 {
		pipe.HIncrBy(ctx, s.prefix+":status", strconv.Itoa(ev.StatusCode), 1)
	}

	if s.trackActions {
		a := strings.TrimSpace(ev.Action)
		if a != "" {
			actionKey := s.prefix + ":action:" + a
			pipe.HIncrBy(ctx, actionKey, field, 1)
			if s.ttl > 0 {
				pipe.Expire(ctx, actionKey, s.ttl)
			}
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}
