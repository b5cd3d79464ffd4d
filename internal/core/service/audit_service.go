package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pingcraft/identity-system/internal/core/domain"
	"github.com/pingcraft/identity-system/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns the AuditService that persists security audit
// events. Called from the dispatcher workers, never from request paths.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record persists a single audit event. Audit failures are reported to the
// caller for logging but must never affect the audited operation.
func (s *auditService) Record(ctx context.Context, in ports.AuditInput) error {
	event := &domain.AuditEvent{
		Account:   in.Account,
		Action:    in.Action,
		Outcome:   in.Outcome,
		SessionID: in.SessionID,
		At:        time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, event); err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}

	s.log.Debug().
		Str("account", in.Account).
		Str("action", in.Action).
		Str("outcome", in.Outcome).
		Msg("audit event recorded")
	return nil
}
