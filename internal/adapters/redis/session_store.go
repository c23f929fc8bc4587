package redis

// Package redis provides Redis-based adapters for the stayseek gateway:
// the session store and the notification feed.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/stayseek/gateway/internal/domain/auth"
)

// defaultRotationGrace keeps a rotated-out session id readable briefly so
// concurrent requests still carrying the old cookie do not lose their session.
const defaultRotationGrace = 30 * time.Second

// SessionStore is a Redis-based session store. TTL semantics follow the
// session's ExpiresAt; rotation re-keys a session under a fresh id.
type SessionStore struct {
	client        redis.UniversalClient
	prefix        string
	rotationGrace time.Duration
	newID         func() string
}

// SessionStoreOptions configures optional SessionStore behavior.
type SessionStoreOptions struct {
	Prefix        string        // key prefix, default "session:"
	RotationGrace time.Duration // old-id grace window, default 30s
	NewID         func() string // id generator, default random UUID-ish
}

// NewSessionStore creates a Redis session store with defaults.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return NewSessionStoreWithOptions(client, SessionStoreOptions{})
}

// NewSessionStoreWithOptions creates a Redis session store with custom options.
func NewSessionStoreWithOptions(client redis.UniversalClient, opts SessionStoreOptions) *SessionStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "session:"
	}
	grace := opts.RotationGrace
	if grace <= 0 {
		grace = defaultRotationGrace
	}
	return &SessionStore{
		client:        client,
		prefix:        prefix,
		rotationGrace: grace,
		newID:         opts.NewID,
	}
}

func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	return s.client.Set(ctx, s.prefix+sess.ID, data, ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ErrNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal([]byte(data), &sess); unmarshalErr != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}

	// Redis TTL should have expired the key already; check anyway and
	// clean up if the record outlived its expiry.
	if sess.Expired(time.Now()) {
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", deleteErr)
		}
		return domainauth.Session{}, ErrNotFound
	}

	// Roles from older records normalize to a defined value.
	sess.Role = sess.Role.Normalize()
	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil // Nothing to delete
	}
	return s.client.Del(ctx, s.prefix+id).Err()
}

// Rotate re-keys sess under a fresh id with sess.ExpiresAt as the new
// expiry. The old id stays readable for the rotation grace window so the
// in-flight requests racing the rotation keep their session, then expires.
func (s *SessionStore) Rotate(ctx context.Context, sess domainauth.Session) (domainauth.Session, error) {
	if sess.ID == "" {
		return domainauth.Session{}, errors.New("session ID cannot be empty")
	}

	rotated := sess
	rotated.ID = s.generateID()

	if err := s.Save(ctx, rotated); err != nil {
		return domainauth.Session{}, fmt.Errorf("save rotated session: %w", err)
	}

	// Shorten the old key to the grace window. Expire failure is not
	// fatal: the old record still dies at its original TTL.
	if err := s.client.Expire(ctx, s.prefix+sess.ID, s.rotationGrace).Err(); err != nil {
		return rotated, fmt.Errorf("expire old session: %w", err)
	}

	return rotated, nil
}

func (s *SessionStore) generateID() string {
	if s.newID != nil {
		return s.newID()
	}
	return newRandomID()
}

// ErrNotFound is returned when a session is not found.
type notFoundError struct{}

func (notFoundError) Error() string { return "session not found" }

var ErrNotFound error = notFoundError{}
