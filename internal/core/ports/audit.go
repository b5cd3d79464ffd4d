package ports

import (
	"context"

	"github.com/pingcraft/identity-system/internal/core/domain"
)

// AuditInput is the DTO handed from the identity core to the audit pipeline.
type AuditInput struct {
	Account   string
	Action    string
	Outcome   string
	SessionID string
}

// AuditSink accepts audit events for asynchronous recording. Implementations
// must never block the calling operation beyond enqueueing.
type AuditSink interface {
	Enqueue(event AuditInput)
}

// AuditService persists audit events; invoked by the dispatcher workers.
type AuditService interface {
	Record(ctx context.Context, event AuditInput) error
}

// AuditRepository is the durable audit-trail store.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}
