package stats

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	metricsTTL    = 7 * 24 * time.Hour
	bufferSize    = 1024
	writeTimeout  = 2 * time.Second
	keyPrefix     = "vokchat:stats:"
	dateLayout    = "2006-01-02"
	MaxQueryHours = 7 * 24
)

// Metrics is one hourly bucket of relay counters.
type Metrics struct {
	Date   string           `json:"date"`
	Hour   int              `json:"hour"`
	Counts map[string]int64 `json:"counts"`
}

// Store buffers counter increments and applies them to Redis on its own
// goroutine. A nil Redis client turns every call into a no-op.
type Store struct {
	redis  *redis.Client
	logger *slog.Logger
	now    func() time.Time

	mu     sync.RWMutex
	closed bool
	events chan string
	wg     sync.WaitGroup
}

func NewStore(redisClient *redis.Client, logger *slog.Logger) *Store {
	s := &Store{
		redis:  redisClient,
		logger: logger.With("component", "stats"),
		now:    time.Now,
		events: make(chan string, bufferSize),
	}

	if redisClient != nil {
		s.wg.Add(1)
		go s.run()
	}
	return s
}

func (s *Store) Enabled() bool {
	return s.redis != nil
}

// Incr queues field for the current hour. It never blocks.
func (s *Store) Incr(field string) {
	if s.redis == nil {
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}

	select {
	case s.events <- field:
	default:
		s.logger.Warn("stats buffer full, dropping counter", "field", field)
	}
}

func (s *Store) run() {
	defer s.wg.Done()
	for field := range s.events {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := s.increment(ctx, field, 1); err != nil {
			s.logger.Warn("failed to record counter", "field", field, "error", err)
		}
		cancel()
	}
}

func (s *Store) increment(ctx context.Context, field string, value int64) error {
	now := s.now().UTC()
	key := RedisKey(now.Format(dateLayout), now.Hour())

	pipe := s.redis.Pipeline()
	pipe.HIncrBy(ctx, key, field, value)
	pipe.Expire(ctx, key, metricsTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// Close drains pending counters and stops the writer.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.events)
	s.mu.Unlock()

	s.wg.Wait()
}

// GetMetrics returns the non-empty buckets of the last hours, newest first.
func (s *Store) GetMetrics(ctx context.Context, hours int) ([]*Metrics, error) {
	metrics := []*Metrics{}
	if s.redis == nil {
		return metrics, nil
	}

	now := s.now().UTC()
	for i := 0; i < hours; i++ {
		t := now.Add(-time.Duration(i) * time.Hour)
		date := t.Format(dateLayout)
		key := RedisKey(date, t.Hour())

		data, err := s.redis.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", key, err)
		}
		if len(data) == 0 {
			continue
		}

		m := &Metrics{Date: date, Hour: t.Hour(), Counts: make(map[string]int64, len(data))}
		for field, raw := range data {
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				continue
			}
			m.Counts[field] = v
		}
		metrics = append(metrics, m)
	}
	return metrics, nil
}

// Totals sums counters across buckets.
func Totals(metrics []*Metrics) map[string]int64 {
	totals := make(map[string]int64)
	for _, m := range metrics {
		for field, v := range m.Counts {
			totals[field] += v
		}
	}
	return totals
}

func (s *Store) Ping(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Ping(ctx).Err()
}

func RedisKey(date string, hour int) string {
	return fmt.Sprintf("%s%s:%02d", keyPrefix, date, hour)
}
