package ports

import (
	"context"

	"github.com/pingcraft/identity-system/internal/core/domain"
)

// UserQuery carries the filters, paging, and ordering for user listings.
// Zero-valued filters are ignored.
type UserQuery struct {
	ID        int64
	Account   string
	Name      string
	Profile   string
	Role      string
	Page      int64
	PageSize  int64
	SortField string
	SortOrder string // "ascend" or "descend"
}

// UserRepository is the narrow persistence surface the identity core needs.
// Lookups never return soft-deleted records. Find methods return
// domain.ErrNotFound when no record matches.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByAccount(ctx context.Context, account string) (*domain.User, error)
	// FindByAccountAndPassword matches the account and the stored digest
	// exactly; it is the single credential-verification query.
	FindByAccountAndPassword(ctx context.Context, account, digest string) (*domain.User, error)
	// Insert persists a new user and returns the store-assigned id. A
	// unique-constraint violation on the account surfaces as
	// domain.ErrInvalidArgument.
	Insert(ctx context.Context, user *domain.User) (int64, error)
	// Update rewrites the mutable fields of an existing record. Reports
	// false when no record matched the id.
	Update(ctx context.Context, user *domain.User) (bool, error)
	// SoftDelete flags the record as deleted without removing it. Reports
	// false when no live record matched the id.
	SoftDelete(ctx context.Context, id int64) (bool, error)
	// List returns one page of matching users plus the total match count.
	List(ctx context.Context, q UserQuery) ([]*domain.User, int64, error)
}
