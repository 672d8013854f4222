package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quizdeck-dev/quizdeck/internal/apperr"
	"github.com/quizdeck-dev/quizdeck/internal/models"
)

func member(role models.Role) *models.CompanyMember {
	return &models.CompanyMember{Role: role}
}

func TestRequireOwner(t *testing.T) {
	tests := []struct {
		name   string
		member *models.CompanyMember
		want   apperr.Kind
	}{
		{"nil membership", nil, apperr.KindForbidden},
		{"plain member", member(models.RoleMember), apperr.KindForbidden},
		{"admin", member(models.RoleAdmin), apperr.KindForbidden},
		{"owner", member(models.RoleOwner), apperr.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireOwner(tt.member)
			if tt.want == apperr.KindUnknown {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, apperr.KindOf(err))
		})
	}
}

func TestRequireAdminOrOwner(t *testing.T) {
	assert.Error(t, RequireAdminOrOwner(nil))
	assert.Error(t, RequireAdminOrOwner(member(models.RoleMember)))
	assert.NoError(t, RequireAdminOrOwner(member(models.RoleAdmin)))
	assert.NoError(t, RequireAdminOrOwner(member(models.RoleOwner)))
}

func TestRequireMember(t *testing.T) {
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(RequireMember(nil)))
	assert.NoError(t, RequireMember(member(models.RoleMember)))
	assert.NoError(t, RequireMember(member(models.RoleOwner)))
}

func TestRequireSelf(t *testing.T) {
	assert.NoError(t, RequireSelf("u1", "u1"))
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(RequireSelf("u1", "u2")))
}

func TestRequireNotSelf(t *testing.T) {
	assert.NoError(t, RequireNotSelf("u1", "u2"))
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(RequireNotSelf("u1", "u1")))
}
