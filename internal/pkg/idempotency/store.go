// Package idempotency remembers the outcome of POST requests carrying an
// Idempotency-Key so a double-submitted form is executed once.
package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Header is the request header carrying the client-chosen key.
const Header = "Idempotency-Key"

const (
	// LockTTL bounds how long a crashed request can hold a key.
	LockTTL    = 30 * time.Second
	DefaultTTL = 24 * time.Hour
)

var ErrInProgress = errors.New("a request with this idempotency key is still being processed")

// Response is a completed answer kept for replay.
type Response struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

type Store struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewStore(rdb redis.Cmdable, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

// Key scopes a client key to a route and a user.
func Key(route, userID, clientKey string) string {
	return fmt.Sprintf("idemp:%s:%s:%s", route, userID, clientKey)
}

func lockKey(key string) string {
	return key + ":lock"
}

// Lookup returns the stored response for key, or nil when none was recorded.
func (s *Store) Lookup(ctx context.Context, key string) (*Response, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("idempotency lookup: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("idempotency decode: %w", err)
	}
	return &resp, nil
}

// Acquire takes the processing lock for key. ErrInProgress means another
// request holds it.
func (s *Store) Acquire(ctx context.Context, key string) error {
	ok, err := s.rdb.SetNX(ctx, lockKey(key), "locked", LockTTL).Result()
	if err != nil {
		return fmt.Errorf("idempotency lock: %w", err)
	}
	if !ok {
		return ErrInProgress
	}
	return nil
}

// Complete stores resp for replay and releases the lock.
func (s *Store) Complete(ctx context.Context, key string, resp Response) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("idempotency encode: %w", err)
	}
	if err := s.rdb.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency save: %w", err)
	}
	return s.Release(ctx, key)
}

// Release drops the lock without storing anything, so the client may retry.
func (s *Store) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, lockKey(key)).Err(); err != nil {
		return fmt.Errorf("idempotency unlock: %w", err)
	}
	return nil
}
