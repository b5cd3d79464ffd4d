package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pingcraft/identity-system/internal/core/domain"
)

const defaultSessionTTL = 30 * time.Minute

// SessionStore keeps the per-session current-user slot in Redis.
// Key format: session:<session_id>:login_user, value is the JSON-encoded
// user snapshot. One key per session id, so at most one snapshot exists.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
// If ttl <= 0, defaultSessionTTL is used.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

// GetLoginUser returns the stored snapshot, or (nil, nil) when the slot is
// absent or has expired.
func (s *SessionStore) GetLoginUser(ctx context.Context, sessionID string) (*domain.User, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var su storedUser
	if err := json.Unmarshal(raw, &su); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return su.toDomain(), nil
}

// SetLoginUser overwrites the slot with the given snapshot and refreshes the
// TTL. The digest is part of the snapshot on purpose: the slot is internal
// state, never serialized outward.
func (s *SessionStore) SetLoginUser(ctx context.Context, sessionID string, user *domain.User) error {
	raw, err := json.Marshal(sessionUser(user))
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

// RemoveLoginUser clears the slot. Removing an absent slot is a no-op.
func (s *SessionStore) RemoveLoginUser(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("session remove: %w", err)
	}
	return nil
}

func (s *SessionStore) key(sessionID string) string {
	return fmt.Sprintf("session:%s:login_user", sessionID)
}

// storedUser mirrors domain.User with all fields serializable; the domain
// type hides id-bearing fields from JSON output meant for clients, but the
// session slot must round-trip them.
type storedUser struct {
	ID        int64     `json:"id"`
	Account   string    `json:"account"`
	Password  string    `json:"password"`
	Name      string    `json:"name"`
	Profile   string    `json:"profile,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func sessionUser(u *domain.User) storedUser {
	return storedUser{
		ID:        u.ID,
		Account:   u.Account,
		Password:  u.Password,
		Name:      u.Name,
		Profile:   u.Profile,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (su storedUser) toDomain() *domain.User {
	return &domain.User{
		ID:        su.ID,
		Account:   su.Account,
		Password:  su.Password,
		Name:      su.Name,
		Profile:   su.Profile,
		Role:      su.Role,
		CreatedAt: su.CreatedAt,
		UpdatedAt: su.UpdatedAt,
	}
}
