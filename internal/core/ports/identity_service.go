package ports

import (
	"context"

	"github.com/pingcraft/identity-system/internal/core/domain"
)

// CreateUserInput is the DTO for administrative user creation. The password
// is not part of the input: new accounts start with the default password.
type CreateUserInput struct {
	Account string
	Name    string
	Profile string
	Role    string
}

// UpdateUserInput is the DTO for administrative user edits.
type UpdateUserInput struct {
	ID      int64
	Name    string
	Profile string
	Role    string
}

// IdentityService is the authentication/authorization core exposed to the
// transport layer.
type IdentityService interface {
	// Register creates an account from self-service sign-up and returns
	// the assigned user id.
	Register(ctx context.Context, account, password, checkPassword string) (int64, error)
	// Login verifies credentials and binds the user to the given session.
	Login(ctx context.Context, account, password, sessionID string) (*domain.LoginUserView, error)
	// CurrentUser resolves the session to a live user record, always
	// re-reading the store rather than trusting the session snapshot.
	CurrentUser(ctx context.Context, sessionID string) (*domain.User, error)
	// Logout clears the session's login state.
	Logout(ctx context.Context, sessionID string) (bool, error)

	// Administrative operations. Role enforcement happens in the access
	// middleware, not here.
	CreateUser(ctx context.Context, in CreateUserInput) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateUser(ctx context.Context, in UpdateUserInput) error
	DeleteUser(ctx context.Context, id int64) error
	ListUsers(ctx context.Context, q UserQuery) ([]*domain.UserView, int64, error)
}
