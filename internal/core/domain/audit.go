package domain

import "time"

// Audit actions and outcomes recorded for security-relevant operations.
const (
	AuditActionLogin  = "login"
	AuditActionLogout = "logout"
	AuditActionDenied = "access_denied"

	AuditOutcomeSuccess = "success"
	AuditOutcomeFailure = "failure"
)

// AuditEvent is one entry in the authentication audit trail.
type AuditEvent struct {
	Account   string    `json:"account"`
	Action    string    `json:"action"`
	Outcome   string    `json:"outcome"`
	SessionID string    `json:"session_id,omitempty"`
	At        time.Time `json:"at"`
}
