package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pingcraft/identity-system/internal/core/domain"
	"github.com/pingcraft/identity-system/internal/core/ports"
)

const (
	minAccountLen  = 4
	minPasswordLen = 8

	// namePrefix + a random 6-character suffix makes the generated display
	// name for self-registered accounts. Not guaranteed globally unique.
	namePrefix = "User"

	// defaultPassword is assigned to accounts created by an administrator.
	defaultPassword = "12345678"
)

// IdentityService implements registration, login, session-bound login state,
// and the administrative user operations. It holds no mutable state of its
// own; durability and concurrency control live in the stores.
type IdentityService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	audit    ports.AuditSink
	log      zerolog.Logger
}

// NewIdentityService wires an IdentityService. audit may be nil, in which
// case no audit events are emitted.
func NewIdentityService(users ports.UserRepository, sessions ports.SessionStore, audit ports.AuditSink, log zerolog.Logger) *IdentityService {
	return &IdentityService{users: users, sessions: sessions, audit: audit, log: log}
}

// Register validates the sign-up input, enforces account uniqueness, and
// inserts the new record. Returns the store-assigned id.
func (s *IdentityService) Register(ctx context.Context, account, password, checkPassword string) (int64, error) {
	if isBlank(account) || isBlank(password) || isBlank(checkPassword) {
		return 0, fmt.Errorf("%w: empty parameter", domain.ErrInvalidArgument)
	}
	if utf8.RuneCountInString(account) < minAccountLen {
		return 0, fmt.Errorf("%w: account too short", domain.ErrInvalidArgument)
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return 0, fmt.Errorf("%w: password too short", domain.ErrInvalidArgument)
	}
	if password != checkPassword {
		return 0, fmt.Errorf("%w: passwords do not match", domain.ErrInvalidArgument)
	}

	// Pre-check duplicates for a clean error; the store's unique constraint
	// is the authority under concurrent registration.
	existing, err := s.users.FindByAccount(ctx, account)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return 0, fmt.Errorf("%w: %v", domain.ErrSystem, err)
	}
	if existing != nil {
		return 0, fmt.Errorf("%w: account already exists", domain.ErrInvalidArgument)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Account:   account,
		Password:  EncryptPassword(password),
		Name:      generateName(),
		Role:      string(domain.RoleUser),
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := s.users.Insert(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			// Lost the race to a concurrent registration.
			return 0, err
		}
		s.log.Error().Err(err).Str("account", account).Msg("user insert failed")
		return 0, fmt.Errorf("%w: registration failed", domain.ErrSystem)
	}

	s.log.Info().Int64("user_id", id).Str("account", account).Msg("user registered")
	return id, nil
}

// Login verifies the credentials and, on success, stores the full user
// snapshot under the session's current-user slot. The same failure is
// returned whether the account is unknown or the password is wrong, so
// callers cannot probe for account existence.
func (s *IdentityService) Login(ctx context.Context, account, password, sessionID string) (*domain.LoginUserView, error) {
	if isBlank(account) || isBlank(password) {
		return nil, fmt.Errorf("%w: empty parameter", domain.ErrInvalidArgument)
	}
	if utf8.RuneCountInString(account) < minAccountLen {
		return nil, fmt.Errorf("%w: account too short", domain.ErrInvalidArgument)
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password too short", domain.ErrInvalidArgument)
	}

	digest := EncryptPassword(password)
	user, err := s.users.FindByAccountAndPassword(ctx, account, digest)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.recordAudit(domain.AuditActionLogin, domain.AuditOutcomeFailure, account, sessionID)
			return nil, fmt.Errorf("%w: account or password incorrect", domain.ErrInvalidArgument)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSystem, err)
	}

	if err := s.sessions.SetLoginUser(ctx, sessionID, user); err != nil {
		s.log.Error().Err(err).Str("account", account).Msg("session write failed")
		return nil, fmt.Errorf("%w: login failed", domain.ErrSystem)
	}

	s.recordAudit(domain.AuditActionLogin, domain.AuditOutcomeSuccess, account, sessionID)
	s.log.Info().Int64("user_id", user.ID).Str("account", account).Msg("user logged in")
	return domain.NewLoginUserView(user), nil
}

// CurrentUser resolves the session's login state to a live record. The
// session snapshot only supplies the id; the store is re-queried so role or
// profile changes made after login take effect immediately.
func (s *IdentityService) CurrentUser(ctx context.Context, sessionID string) (*domain.User, error) {
	snapshot, err := s.sessions.GetLoginUser(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSystem, err)
	}
	if snapshot == nil || snapshot.ID == 0 {
		return nil, fmt.Errorf("%w: not logged in", domain.ErrNotAuthenticated)
	}

	user, err := s.users.FindByID(ctx, snapshot.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", domain.ErrNotAuthenticated)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSystem, err)
	}
	return user, nil
}

// Logout clears the session's current-user slot. Calling it without a prior
// login is an operation error, not a fault.
func (s *IdentityService) Logout(ctx context.Context, sessionID string) (bool, error) {
	snapshot, err := s.sessions.GetLoginUser(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrSystem, err)
	}
	if snapshot == nil {
		return false, fmt.Errorf("%w: not logged in", domain.ErrOperation)
	}

	if err := s.sessions.RemoveLoginUser(ctx, sessionID); err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrSystem, err)
	}
	s.recordAudit(domain.AuditActionLogout, domain.AuditOutcomeSuccess, snapshot.Account, sessionID)
	return true, nil
}

// CreateUser inserts a record on behalf of an administrator. The account
// starts with the hashed default password.
func (s *IdentityService) CreateUser(ctx context.Context, in ports.CreateUserInput) (int64, error) {
	if isBlank(in.Account) {
		return 0, fmt.Errorf("%w: empty account", domain.ErrInvalidArgument)
	}
	if utf8.RuneCountInString(in.Account) < minAccountLen {
		return 0, fmt.Errorf("%w: account too short", domain.ErrInvalidArgument)
	}

	role := in.Role
	if domain.ParseRole(role) == domain.RoleNone {
		role = string(domain.RoleUser)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Account:   in.Account,
		Password:  EncryptPassword(defaultPassword),
		Name:      in.Name,
		Profile:   in.Profile,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if user.Name == "" {
		user.Name = generateName()
	}

	id, err := s.users.Insert(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: user creation failed", domain.ErrSystem)
	}
	return id, nil
}

// GetUserByID returns the full record, digest included; route-level access
// control decides who may see it.
func (s *IdentityService) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid user id", domain.ErrInvalidArgument)
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSystem, err)
	}
	return user, nil
}

// UpdateUser rewrites the mutable profile fields of an existing user.
func (s *IdentityService) UpdateUser(ctx context.Context, in ports.UpdateUserInput) error {
	if in.ID <= 0 {
		return fmt.Errorf("%w: invalid user id", domain.ErrInvalidArgument)
	}
	if in.Role != "" && domain.ParseRole(in.Role) == domain.RoleNone {
		return fmt.Errorf("%w: unknown role", domain.ErrInvalidArgument)
	}

	user := &domain.User{
		ID:        in.ID,
		Name:      in.Name,
		Profile:   in.Profile,
		Role:      in.Role,
		UpdatedAt: time.Now().UTC(),
	}
	ok, err := s.users.Update(ctx, user)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSystem, err)
	}
	if !ok {
		return fmt.Errorf("%w: update failed", domain.ErrOperation)
	}
	return nil
}

// DeleteUser soft-deletes the record; the row stays in the store.
func (s *IdentityService) DeleteUser(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid user id", domain.ErrInvalidArgument)
	}
	ok, err := s.users.SoftDelete(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSystem, err)
	}
	if !ok {
		return fmt.Errorf("%w: user not found", domain.ErrNotFound)
	}
	return nil
}

// ListUsers returns one page of sanitized views plus the total match count.
func (s *IdentityService) ListUsers(ctx context.Context, q ports.UserQuery) ([]*domain.UserView, int64, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 10
	}
	users, total, err := s.users.List(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrSystem, err)
	}
	return domain.NewUserViewList(users), total, nil
}

func (s *IdentityService) recordAudit(action, outcome, account, sessionID string) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(ports.AuditInput{
		Account:   account,
		Action:    action,
		Outcome:   outcome,
		SessionID: sessionID,
	})
}

// generateName builds the display name for accounts that did not choose one:
// a fixed prefix plus the first six characters of a random uuid, uppercased.
func generateName() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return namePrefix + suffix
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
