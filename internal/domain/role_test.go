package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_Capabilities(t *testing.T) {
	assert.True(t, RoleAdmin.CanManageTemplates())
	assert.False(t, RoleUser.CanManageTemplates())
	assert.True(t, RoleAdmin.HasUnlimitedDocuments())
	assert.False(t, RoleUser.HasUnlimitedDocuments())
	assert.True(t, RoleAdmin.CanManageAccess())
	assert.False(t, RoleUser.CanManageAccess())
	assert.False(t, Role("owner").Valid())
}

func TestRole_CanAccess(t *testing.T) {
	assert.True(t, RoleUser.CanAccess("u1", "u1"))
	assert.False(t, RoleUser.CanAccess("u1", "u2"))
	// admins do not see other users' resources either
	assert.False(t, RoleAdmin.CanAccess("u1", "u2"))
	assert.False(t, RoleUser.CanAccess("", ""))
	assert.False(t, Role("").CanAccess("u1", "u1"))
}
