package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/aftersales-service/internal/domain"
)

func TestCan(t *testing.T) {
	assert.True(t, Can(domain.RoleCompanyManager, ActionManageUsers))
	assert.True(t, Can(domain.RoleDeputyManager, ActionManageUsers))
	assert.False(t, Can(domain.RoleDepartmentManager, ActionManageUsers))

	assert.True(t, Can(domain.RoleTechnician, ActionCreateRequest))
	assert.True(t, Can(domain.RoleTechnician, ActionAddCost))
	assert.False(t, Can(domain.RoleTechnician, ActionChangeStatus))
	assert.False(t, Can(domain.RoleTechnician, ActionAssignTechnician))
	assert.False(t, Can(domain.RoleTechnician, ActionCloseRequest))

	assert.True(t, Can(domain.RoleWarehouseKeeper, ActionManageSpareParts))
	assert.False(t, Can(domain.RoleWarehouseKeeper, ActionCreateRequest))

	assert.False(t, Can(domain.Role("UNKNOWN"), ActionCreateRequest))
}

func TestRoleTiers(t *testing.T) {
	assert.True(t, IsManagerLevel(domain.RoleCompanyManager))
	assert.True(t, IsManagerLevel(domain.RoleDeputyManager))
	assert.False(t, IsManagerLevel(domain.RoleDepartmentManager))

	assert.True(t, IsDepartmentScoped(domain.RoleDepartmentManager))
	assert.True(t, IsDepartmentScoped(domain.RoleSectionSupervisor))
	assert.False(t, IsDepartmentScoped(domain.RoleTechnician))

	assert.True(t, CanAssignTechnicians(domain.RoleSectionSupervisor))
	assert.False(t, CanAssignTechnicians(domain.RoleTechnician))
	assert.False(t, CanAssignTechnicians(domain.RoleWarehouseKeeper))

	assert.True(t, IsManagerOrSupervisor(domain.RoleCompanyManager))
	assert.True(t, IsManagerOrSupervisor(domain.RoleSectionSupervisor))
	assert.False(t, IsManagerOrSupervisor(domain.RoleTechnician))
}
