package ports

import (
	"context"

	"github.com/pingcraft/identity-system/internal/core/domain"
)

// SessionStore keeps the single "current user" slot per opaque session
// identifier. Session identifiers are supplied by the transport and treated
// as opaque keys; the store never inspects them.
type SessionStore interface {
	// GetLoginUser returns the stored snapshot, or (nil, nil) when the
	// slot is absent or expired.
	GetLoginUser(ctx context.Context, sessionID string) (*domain.User, error)
	// SetLoginUser overwrites the slot with the given snapshot.
	SetLoginUser(ctx context.Context, sessionID string, user *domain.User) error
	// RemoveLoginUser clears the slot. Removing an absent slot is not an
	// error.
	RemoveLoginUser(ctx context.Context, sessionID string) error
}
