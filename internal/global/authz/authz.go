// Package authz holds the pure authorization predicate every record
// endpoint consults. It performs no I/O; handlers map the decision to
// the 401/403 responses.
package authz

import (
	"student-data-system/internal/global/jwt"
	"student-data-system/internal/model"
)

type Operation int

const (
	OpRead Operation = iota
	OpUpdate
	OpDelete
	OpListAll
	OpCreate
	OpImport
	OpExport
	OpStats
)

type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

// adminOnly marks operations a STUDENT session can never perform.
var adminOnly = map[Operation]bool{
	OpDelete:  true,
	OpListAll: true,
	OpCreate:  true,
	OpImport:  true,
	OpExport:  true,
	OpStats:   true,
}

// Decide applies the access rules in order: no session, then role
// gates, then ownership on per-record reads and updates.
func Decide(claims *jwt.Claims, op Operation, targetID uint) Decision {
	if claims == nil {
		return DenyUnauthenticated
	}
	if claims.Role == model.RoleAdmin {
		return Allow
	}
	if adminOnly[op] {
		return DenyForbidden
	}
	// OpRead / OpUpdate: a student may only touch their own row
	if claims.UserID == targetID {
		return Allow
	}
	return DenyForbidden
}

// RestrictedFields are the columns a STUDENT actor may never change.
// Update handlers silently drop them from the payload rather than
// rejecting the request.
var RestrictedFields = []string{"nis", "role", "password", "must_change_password"}
