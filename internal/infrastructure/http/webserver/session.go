// Package webserver provides the page-serving HTTP frontend.
package webserver

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/blankbase/blankbase/pkg/errors"
)

// Session carries per-visitor state across requests. Toasts is the
// temp-data queue: messages written on one request and drained by the
// next page render. The mutex covers Toasts and Data; MemoryStore hands
// the same *Session to every request carrying the cookie, and requests
// run concurrently.
type Session struct {
	mu sync.Mutex

	ID        string                 `json:"id"`
	CreatedAt time.Time              `json:"created_at"`
	ExpiresAt time.Time              `json:"expires_at"`
	Toasts    []Toast                `json:"toasts,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// encode serializes the session under its lock so a concurrent toast
// write cannot race the marshal.
func (s *Session) encode() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Marshal(s)
}

// Expired reports whether the session is past its lifetime.
func (s *Session) Expired() bool { return time.Now().After(s.ExpiresAt) }

// Store persists sessions by ID.
type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
}

// ErrSessionNotFound is returned by stores when the ID is unknown or
// the session has expired.
var ErrSessionNotFound = errors.New(errors.CodeNotFound, "session not found")

func newSession(ttl time.Duration) *Session {
	return &Session{
		ID:        generateSessionID(),
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(ttl),
		Data:      make(map[string]interface{}),
	}
}

func generateSessionID() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

// MemoryStore keeps sessions in process memory. Suitable for a single
// instance; use RedisStore behind a load balancer.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   *zap.Logger
}

// NewMemoryStore creates the store and starts its expiry sweep.
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	store := &MemoryStore{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
	go store.cleanupExpired()
	return store
}

func (m *MemoryStore) Load(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	session, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok || session.Expired() {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (m *MemoryStore) Save(ctx context.Context, session *Session) error {
	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) cleanupExpired() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		m.mu.Lock()
		for id, session := range m.sessions {
			if session.Expired() {
				delete(m.sessions, id)
				m.logger.Debug("cleaned up expired session", zap.String("session_id", id))
			}
		}
		m.mu.Unlock()
	}
}

// RedisStore persists sessions in Redis as JSON with the session TTL.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, logger *zap.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger}
}

func sessionKey(id string) string { return "session:" + id }

func (r *RedisStore) Load(ctx context.Context, id string) (*Session, error) {
	raw, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeCacheError, "session load failed")
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, errors.Wrap(err, errors.CodeCacheError, "session decode failed")
	}
	if session.Expired() {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (r *RedisStore) Save(ctx context.Context, session *Session) error {
	raw, err := session.encode()
	if err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "session encode failed")
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return r.Delete(ctx, session.ID)
	}
	if err := r.client.Set(ctx, sessionKey(session.ID), raw, ttl).Err(); err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "session save failed")
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "session delete failed")
	}
	return nil
}

type sessionContextKey struct{}

// sessionFrom returns the request's session placed by sessionMiddleware.
func sessionFrom(r *http.Request) *Session {
	session, _ := r.Context().Value(sessionContextKey{}).(*Session)
	return session
}
