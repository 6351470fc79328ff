// Package session keeps the short-lived state of the layout editor and the
// booking screen between requests.  A session lives as long as the screen
// that created it; nothing here is meant to outlive its TTL.
package session

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// Kinds of session state.
const (
	KindLayoutDraft = "layout"
	KindBooking     = "booking"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Store persists session state by kind and id.
type Store interface {
	Get(ctx context.Context, kind, id string, dst any) error
	Put(ctx context.Context, kind, id string, v any) error
	Delete(ctx context.Context, kind, id string) error
}

// NewID returns a fresh session id.
func NewID() string { return uuid.NewString() }

// ValidID reports whether id looks like an id produced by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// encode and decode use the json tags of the stored types so one set of tags
// serves both the HTTP responses and the session payloads.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(b []byte, dst any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.SetCustomStructTag("json")
	return dec.Decode(dst)
}

// RedisStore keeps sessions in Redis under <prefix>:<kind>:<id>.  Every Put
// refreshes the TTL.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore returns a Redis-backed store.
func NewRedisStore(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "session"
	}
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(kind, id string) string {
	return s.prefix + ":" + kind + ":" + id
}

// Get loads the session into dst.
func (s *RedisStore) Get(ctx context.Context, kind, id string, dst any) error {
	b, err := s.rdb.Get(ctx, s.key(kind, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return err
	}
	return decode(b, dst)
}

// Put stores v and resets the expiry.
func (s *RedisStore) Put(ctx context.Context, kind, id string, v any) error {
	b, err := encode(v)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(kind, id), b, s.ttl).Err()
}

// Delete removes the session.  Deleting a missing session is not an error.
func (s *RedisStore) Delete(ctx context.Context, kind, id string) error {
	return s.rdb.Del(ctx, s.key(kind, id)).Err()
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore is an in-process Store used when Redis is unavailable.  Values
// are stored encoded, so callers never share memory with the store.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryStore returns an empty in-memory store.  A ttl of zero keeps
// entries forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, entries: map[string]memoryEntry{}}
}

func memoryKey(kind, id string) string { return kind + ":" + id }

// Get loads the session into dst.
func (s *MemoryStore) Get(_ context.Context, kind, id string, dst any) error {
	s.mu.Lock()
	e, ok := s.entries[memoryKey(kind, id)]
	if ok && !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.entries, memoryKey(kind, id))
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	return decode(e.data, dst)
}

// Put stores v and resets the expiry.
func (s *MemoryStore) Put(_ context.Context, kind, id string, v any) error {
	b, err := encode(v)
	if err != nil {
		return err
	}
	e := memoryEntry{data: b}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.mu.Lock()
	s.entries[memoryKey(kind, id)] = e
	s.mu.Unlock()
	return nil
}

// Delete removes the session.
func (s *MemoryStore) Delete(_ context.Context, kind, id string) error {
	s.mu.Lock()
	delete(s.entries, memoryKey(kind, id))
	s.mu.Unlock()
	return nil
}
