// Package access holds the guard predicates composed before every mutating
// membership or quiz operation. They are pure functions over already-loaded
// membership rows: no I/O, no mutation, safe to compose.
package access

import (
	"github.com/quizdeck-dev/quizdeck/internal/apperr"
	"github.com/quizdeck-dev/quizdeck/internal/models"
)

// RequireOwner fails unless member holds the OWNER role.
func RequireOwner(member *models.CompanyMember) error {
	if member == nil {
		return apperr.Forbidden("you are not a member of this company")
	}
	if member.Role != models.RoleOwner {
		return apperr.Forbidden("only the company owner may perform this action")
	}
	return nil
}

// RequireAdminOrOwner fails unless member holds ADMIN or OWNER.
func RequireAdminOrOwner(member *models.CompanyMember) error {
	if member == nil {
		return apperr.Forbidden("you are not a member of this company")
	}
	if member.Role != models.RoleAdmin && member.Role != models.RoleOwner {
		return apperr.Forbidden("you are not an admin or owner in this company")
	}
	return nil
}

// RequireMember fails unless member is any active membership row.
func RequireMember(member *models.CompanyMember) error {
	if member == nil {
		return apperr.Forbidden("you are not a member of this company")
	}
	return nil
}

// RequireSelf fails unless the target user is the caller.
func RequireSelf(targetID, callerID string) error {
	if targetID != callerID {
		return apperr.Forbidden("you may only perform this action on your own account")
	}
	return nil
}

// RequireNotSelf guards owner-initiated actions against self-targeting.
func RequireNotSelf(targetID, callerID string) error {
	if targetID == callerID {
		return apperr.Conflict("you cannot perform this action on yourself")
	}
	return nil
}
