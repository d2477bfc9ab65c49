package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction enumerates the record operations an audit entry can describe.
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

// AuditEntry records who changed what, for compliance review. Entries are
// written once per submission attempt, for failures as well as successes,
// and are never updated afterwards.
type AuditEntry struct {
	ID           uuid.UUID              `json:"id"`
	Action       AuditAction            `json:"action"`
	Resource     string                 `json:"resource"`             // "student" or "medication"
	ResourceID   string                 `json:"resourceId,omitempty"` // Empty when a create never reached the remote API
	ActorID      string                 `json:"actorId,omitempty"`
	Details      string                 `json:"details"`
	Success      bool                   `json:"success"`
	Changes      map[string]interface{} `json:"changes,omitempty"` // Patch contents on update
	ErrorMessage string                 `json:"errorMessage,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
}

// AuditFilter narrows audit listing queries. Zero values mean "any".
type AuditFilter struct {
	Resource string
	Action   string
	Success  *bool
	Limit    int
	Offset   int
}
