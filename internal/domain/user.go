package domain

import "time"

// Role enumerates internal operator roles. Role and department together
// gate every authorization decision.
type Role string

const (
	RoleCompanyManager    Role = "COMPANY_MANAGER"
	RoleDeputyManager     Role = "DEPUTY_MANAGER"
	RoleDepartmentManager Role = "DEPARTMENT_MANAGER"
	RoleSectionSupervisor Role = "SECTION_SUPERVISOR"
	RoleTechnician        Role = "TECHNICIAN"
	RoleWarehouseKeeper   Role = "WAREHOUSE_KEEPER"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleCompanyManager, RoleDeputyManager, RoleDepartmentManager,
		RoleSectionSupervisor, RoleTechnician, RoleWarehouseKeeper:
		return true
	}
	return false
}

// User is an internal operator account.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Role         Role
	DepartmentID *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// InDepartment reports whether the user belongs to the given department.
func (u *User) InDepartment(departmentID string) bool {
	return u.DepartmentID != nil && *u.DepartmentID == departmentID
}
