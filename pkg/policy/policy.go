// Package policy is the single authorization decision point for
// owner-scoped records (cases, clients). Handlers must call it instead
// of comparing roles inline.
package policy

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lexfirm/casedesk-backend/pkg/models"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
)

// Caller is the authenticated identity a decision is made for.
type Caller struct {
	ID   uuid.UUID
	Role models.Role
}

// Can decides ALLOW/DENY for one record. Admins may do anything;
// everyone else only touches records they own. The action is part of
// the contract so future role tiers can differentiate, but today the
// rule is uniform across read, write, and delete.
func Can(caller Caller, ownerID uuid.UUID, _ Action) bool {
	if caller.Role == models.RoleAdmin {
		return true
	}
	return caller.ID == ownerID
}

// ScopeToOwner narrows a list query to the caller's own records unless
// the caller is an admin. It must produce exactly the set a per-record
// Can check would allow.
func ScopeToOwner(q *gorm.DB, caller Caller) *gorm.DB {
	if caller.Role == models.RoleAdmin {
		return q
	}
	return q.Where("assigned_lawyer_id = ?", caller.ID)
}
