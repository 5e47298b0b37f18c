package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_IsAdministrator(t *testing.T) {
	assert.False(t, RoleUser.IsAdministrator())
	assert.True(t, RoleAdmin.IsAdministrator())
	assert.True(t, RoleSuperAdmin.IsAdministrator())
	assert.False(t, Role("").IsAdministrator())
}

func TestRole_IsSuperAdmin(t *testing.T) {
	assert.False(t, RoleAdmin.IsSuperAdmin())
	assert.True(t, RoleSuperAdmin.IsSuperAdmin())
}

func TestPermissionSet_Has_ExactMatchOnly(t *testing.T) {
	perms := PermissionSet{PermissionCash, "ventes.export"}

	assert.True(t, perms.Has(PermissionCash))
	assert.True(t, perms.Has("ventes.export"))
	assert.False(t, perms.Has("caisse"))
	assert.False(t, perms.Has("caisse.*"))
	assert.False(t, perms.Has(PermissionReception))
}

func TestPermissionSet_Has_EmptyAndNil(t *testing.T) {
	assert.False(t, PermissionSet{}.Has(PermissionCash))
	assert.False(t, PermissionSet(nil).Has(PermissionCash))
}

func TestState_Clone_Deep(t *testing.T) {
	original := State{
		Identity:      &Identity{ID: 7, Role: RoleAdmin},
		Authenticated: true,
		Permissions:   PermissionSet{PermissionCash},
	}

	clone := original.Clone()
	clone.Identity.Role = RoleUser
	clone.Permissions[0] = "other"

	assert.Equal(t, RoleAdmin, original.Identity.Role)
	assert.Equal(t, PermissionCash, original.Permissions[0])
}

func TestState_Role_NilIdentity(t *testing.T) {
	assert.Equal(t, Role(""), State{}.Role())
	assert.Equal(t, RoleUser, State{Identity: &Identity{Role: RoleUser}}.Role())
}
