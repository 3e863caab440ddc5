package authz

import "github.com/spec-kit/aftersales-service/internal/domain"

// Action identifies a gated lifecycle operation.
type Action string

const (
	ActionCreateRequest    Action = "request:create"
	ActionChangeStatus     Action = "request:change_status"
	ActionAssignTechnician Action = "request:assign_technician"
	ActionAddCost          Action = "request:add_cost"
	ActionCloseRequest     Action = "request:close"
	ActionManageUsers      Action = "user:manage"
	ActionManageDirectory  Action = "directory:manage"
	ActionManageSpareParts Action = "spare_part:manage"
)

// capabilities maps each role to the actions it may perform. Department
// scoping is layered on top of this table by the lifecycle engine; a role
// listed here may still be confined to its own department.
var capabilities = map[domain.Role]map[Action]struct{}{
	domain.RoleCompanyManager: actionSet(
		ActionCreateRequest, ActionChangeStatus, ActionAssignTechnician,
		ActionAddCost, ActionCloseRequest, ActionManageUsers,
		ActionManageDirectory, ActionManageSpareParts,
	),
	domain.RoleDeputyManager: actionSet(
		ActionCreateRequest, ActionChangeStatus, ActionAssignTechnician,
		ActionAddCost, ActionCloseRequest, ActionManageUsers,
		ActionManageDirectory, ActionManageSpareParts,
	),
	domain.RoleDepartmentManager: actionSet(
		ActionCreateRequest, ActionChangeStatus, ActionAssignTechnician,
		ActionAddCost, ActionCloseRequest, ActionManageDirectory,
	),
	domain.RoleSectionSupervisor: actionSet(
		ActionCreateRequest, ActionChangeStatus, ActionAssignTechnician,
		ActionAddCost, ActionCloseRequest,
	),
	domain.RoleTechnician: actionSet(
		ActionCreateRequest, ActionAddCost,
	),
	domain.RoleWarehouseKeeper: actionSet(
		ActionManageSpareParts,
	),
}

func actionSet(actions ...Action) map[Action]struct{} {
	set := make(map[Action]struct{}, len(actions))
	for _, a := range actions {
		set[a] = struct{}{}
	}
	return set
}

// Can reports whether the role may perform the action at all.
func Can(role domain.Role, action Action) bool {
	set, ok := capabilities[role]
	if !ok {
		return false
	}
	_, ok = set[action]
	return ok
}

// IsManagerLevel reports cross-department authority: company manager and
// deputy manager only.
func IsManagerLevel(role domain.Role) bool {
	return role == domain.RoleCompanyManager || role == domain.RoleDeputyManager
}

// CanAssignTechnicians covers the manager and supervisor tiers.
func CanAssignTechnicians(role domain.Role) bool {
	return Can(role, ActionAssignTechnician)
}

// IsDepartmentScoped reports whether the role's visibility is confined to
// its own department. Manager-level roles see everything; technicians are
// scoped to their own assignments instead.
func IsDepartmentScoped(role domain.Role) bool {
	return role == domain.RoleDepartmentManager || role == domain.RoleSectionSupervisor
}

// IsManagerOrSupervisor covers the recipients of department-level
// notification fan-out.
func IsManagerOrSupervisor(role domain.Role) bool {
	return IsManagerLevel(role) || IsDepartmentScoped(role)
}
