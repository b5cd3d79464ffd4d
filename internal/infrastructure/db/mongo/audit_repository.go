package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pingcraft/identity-system/internal/core/domain"
)

const auditCollection = "auth_audit"

// AuditRepository persists the authentication audit trail. Append-only.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	Account   string `bson:"account"`
	Action    string `bson:"action"`
	Outcome   string `bson:"outcome"`
	SessionID string `bson:"session_id,omitempty"`
	At        int64  `bson:"at"`
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	doc := mongoAuditEvent{
		Account:   event.Account,
		Action:    event.Action,
		Outcome:   event.Outcome,
		SessionID: event.SessionID,
		At:        event.At.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
