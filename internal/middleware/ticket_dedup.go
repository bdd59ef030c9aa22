package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SubmissionDeduper tracks recent ticket submissions so double-clicked forms
// and client retries do not open the same ticket twice.
type SubmissionDeduper interface {
	Seen(ctx context.Context, userID uint, subject, message string) (bool, error)
}

func submissionKey(userID uint, subject, message string) string {
	h := sha256.New()
	h.Write([]byte(subject))
	h.Write([]byte{0})
	h.Write([]byte(message))
	sum := h.Sum(nil)
	return "ticket:submit:" + hex.EncodeToString(sum[:12]) + ":" + itoa(userID)
}

func itoa(v uint) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

type redisSubmissionDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

func (d *redisSubmissionDeduper) Seen(ctx context.Context, userID uint, subject, message string) (bool, error) {
	ok, err := d.client.SetNX(ctx, submissionKey(userID, subject, message), "1", d.ttl).Result()
	if err != nil {
		return false, err
	}
	// false => key already exists => duplicate
	return !ok, nil
}

type memorySubmissionDeduper struct {
	mu     sync.Mutex
	seen   map[string]time.Time
	ttl    time.Duration
	nextGC time.Time
}

func newMemorySubmissionDeduper(ttl time.Duration) *memorySubmissionDeduper {
	now := time.Now()
	return &memorySubmissionDeduper{
		seen:   make(map[string]time.Time),
		ttl:    ttl,
		nextGC: now.Add(ttl),
	}
}

func (d *memorySubmissionDeduper) Seen(_ context.Context, userID uint, subject, message string) (bool, error) {
	key := submissionKey(userID, subject, message)
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if exp, ok := d.seen[key]; ok && exp.After(now) {
		return true, nil
	}

	d.seen[key] = now.Add(d.ttl)
	if now.After(d.nextGC) {
		for k, exp := range d.seen {
			if exp.Before(now) {
				delete(d.seen, k)
			}
		}
		d.nextGC = now.Add(d.ttl)
	}

	return false, nil
}

// NewSubmissionDeduper builds a Redis deduper and falls back to in-memory on
// connection failure. The returned error reports the fallback without making
// the deduper unusable.
func NewSubmissionDeduper(addr, pass string, db int, ttl time.Duration) (SubmissionDeduper, error) {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	if addr == "" {
		return newMemorySubmissionDeduper(ttl), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return newMemorySubmissionDeduper(ttl), err
	}

	return &redisSubmissionDeduper{client: client, ttl: ttl}, nil
}
