package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/pingcraft/identity-system/internal/core/domain"
	"github.com/pingcraft/identity-system/internal/core/ports"
)

// stubIdentityService resolves sessions from a fixed map; every other
// operation is unused by the gate.
type stubIdentityService struct {
	sessions map[string]*domain.User
	resolved int
}

func (s *stubIdentityService) CurrentUser(_ context.Context, sessionID string) (*domain.User, error) {
	s.resolved++
	u, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: not logged in", domain.ErrNotAuthenticated)
	}
	return u, nil
}

func (s *stubIdentityService) Register(context.Context, string, string, string) (int64, error) {
	return 0, errors.New("not implemented")
}

func (s *stubIdentityService) Login(context.Context, string, string, string) (*domain.LoginUserView, error) {
	return nil, errors.New("not implemented")
}

func (s *stubIdentityService) Logout(context.Context, string) (bool, error) {
	return false, errors.New("not implemented")
}

func (s *stubIdentityService) CreateUser(context.Context, ports.CreateUserInput) (int64, error) {
	return 0, errors.New("not implemented")
}

func (s *stubIdentityService) GetUserByID(context.Context, int64) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubIdentityService) UpdateUser(context.Context, ports.UpdateUserInput) error {
	return errors.New("not implemented")
}

func (s *stubIdentityService) DeleteUser(context.Context, int64) error {
	return errors.New("not implemented")
}

func (s *stubIdentityService) ListUsers(context.Context, ports.UserQuery) ([]*domain.UserView, int64, error) {
	return nil, 0, errors.New("not implemented")
}

type stubAuditSink struct {
	events []ports.AuditInput
}

func (s *stubAuditSink) Enqueue(event ports.AuditInput) {
	s.events = append(s.events, event)
}

func newGateContext(t *testing.T, sessionID string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sessionID != "" {
		c.Set(sessionIDKey, sessionID)
	}
	return c
}

func TestRequireRole_NonePermitsWithoutResolution(t *testing.T) {
	svc := &stubIdentityService{sessions: map[string]*domain.User{}}
	c := newGateContext(t, "")

	called := false
	handler := RequireRole(svc, nil, domain.RoleNone)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if svc.resolved != 0 {
		t.Fatalf("public route must not resolve identity, resolved %d times", svc.resolved)
	}
}

func TestRequireRole_AdminAllowsAdmin(t *testing.T) {
	svc := &stubIdentityService{sessions: map[string]*domain.User{
		"sess-1": {ID: 1, Account: "root1234", Role: "admin"},
	}}
	c := newGateContext(t, "sess-1")

	handler := RequireRole(svc, nil, domain.RoleAdmin)(func(c echo.Context) error {
		user := LoginUser(c)
		if user == nil || user.ID != 1 {
			t.Fatalf("resolved user not placed in context: %+v", user)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestRequireRole_AdminForbidsUser(t *testing.T) {
	svc := &stubIdentityService{sessions: map[string]*domain.User{
		"sess-1": {ID: 2, Account: "alice123", Role: "user"},
	}}
	c := newGateContext(t, "sess-1")

	handler := RequireRole(svc, nil, domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireRole_AdminForbidsUnknownRole(t *testing.T) {
	svc := &stubIdentityService{sessions: map[string]*domain.User{
		"sess-1": {ID: 3, Account: "weird123", Role: "superuser"},
	}}
	c := newGateContext(t, "sess-1")

	handler := RequireRole(svc, nil, domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for unknown role, got %v", err)
	}
}

func TestRequireRole_RecordsDenials(t *testing.T) {
	svc := &stubIdentityService{sessions: map[string]*domain.User{
		"sess-1": {ID: 2, Account: "alice123", Role: "user"},
	}}
	sink := &stubAuditSink{}

	handler := RequireRole(svc, sink, domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	// Forbidden: the caller is known, so the event carries the account.
	if err := handler(newGateContext(t, "sess-1")); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	// Not authenticated: no resolved caller, account is empty.
	if err := handler(newGateContext(t, "sess-unknown")); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}

	if len(sink.events) != 2 {
		t.Fatalf("expected 2 audit events, got %d", len(sink.events))
	}
	forbidden, unauthenticated := sink.events[0], sink.events[1]
	if forbidden.Action != domain.AuditActionDenied || forbidden.Outcome != domain.AuditOutcomeFailure {
		t.Fatalf("unexpected forbidden event: %+v", forbidden)
	}
	if forbidden.Account != "alice123" || forbidden.SessionID != "sess-1" {
		t.Fatalf("forbidden event missing caller details: %+v", forbidden)
	}
	if unauthenticated.Action != domain.AuditActionDenied || unauthenticated.Account != "" {
		t.Fatalf("unexpected unauthenticated event: %+v", unauthenticated)
	}
	if unauthenticated.SessionID != "sess-unknown" {
		t.Fatalf("unauthenticated event missing session id: %+v", unauthenticated)
	}
}

func TestRequireRole_PropagatesNotAuthenticated(t *testing.T) {
	svc := &stubIdentityService{sessions: map[string]*domain.User{}}
	c := newGateContext(t, "sess-unknown")

	handler := RequireRole(svc, nil, domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}
