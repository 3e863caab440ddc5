package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/aftersales-service/internal/auth"
	"github.com/spec-kit/aftersales-service/internal/authz"
	"github.com/spec-kit/aftersales-service/internal/config"
	"github.com/spec-kit/aftersales-service/internal/domain"
	"github.com/spec-kit/aftersales-service/internal/repository"
	apperrors "github.com/spec-kit/aftersales-service/pkg/util/errorutil"
)

// UserService manages operator accounts. Every mutation requires the
// user-management capability, which only manager-level roles carry.
type UserService struct {
	users       repository.UserRepository
	departments repository.DepartmentRepository
	bcryptCost  int
}

// UserDependencies encapsulates repositories for user management.
type UserDependencies struct {
	UserRepo       repository.UserRepository
	DepartmentRepo repository.DepartmentRepository
}

// NewUserService constructs the service.
func NewUserService(cfg config.Config, deps UserDependencies) *UserService {
	return &UserService{
		users:       deps.UserRepo,
		departments: deps.DepartmentRepo,
		bcryptCost:  cfg.Auth.BcryptCost,
	}
}

// CreateUserInput carries fields for account creation.
type CreateUserInput struct {
	Name         string
	Email        string
	Password     string
	Phone        string
	Role         domain.Role
	DepartmentID *string
}

// UpdateUserInput carries optional fields for account updates. Nil means
// leave the field unchanged.
type UpdateUserInput struct {
	Name         *string
	Phone        *string
	Role         *domain.Role
	DepartmentID *string
	Active       *bool
}

func requireUserManagement(actor *domain.User) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !authz.Can(actor.Role, authz.ActionManageUsers) {
		return apperrors.NewForbidden("only company management can administer accounts")
	}
	return nil
}

// Create registers a new operator account.
func (s *UserService) Create(ctx context.Context, actor *domain.User, input CreateUserInput) (*domain.User, error) {
	if err := requireUserManagement(actor); err != nil {
		return nil, err
	}
	if input.Name == "" || input.Email == "" {
		return nil, apperrors.NewValidationError("name and email are required", nil)
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	if !domain.ValidRole(input.Role) {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}
	if err := s.checkDepartment(ctx, input.Role, input.DepartmentID); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Phone:        input.Phone,
		Role:         input.Role,
		DepartmentID: input.DepartmentID,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Update applies partial changes to an account. Deactivation goes through
// here too; there is no hard delete.
func (s *UserService) Update(ctx context.Context, actor *domain.User, id string, input UpdateUserInput) (*domain.User, error) {
	if err := requireUserManagement(actor); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Role != nil {
		if !domain.ValidRole(*input.Role) {
			return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": *input.Role})
		}
		user.Role = *input.Role
	}
	if input.DepartmentID != nil {
		user.DepartmentID = input.DepartmentID
	}
	if input.Active != nil {
		user.Active = *input.Active
	}
	if err := s.checkDepartment(ctx, user.Role, user.DepartmentID); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// GetByID fetches one account.
func (s *UserService) GetByID(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	// users may look at their own account without the manage capability
	if actor.ID != id {
		if err := requireUserManagement(actor); err != nil {
			return nil, err
		}
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// List returns accounts matching the filter.
func (s *UserService) List(ctx context.Context, actor *domain.User, filter repository.UserFilter) ([]domain.User, error) {
	if err := requireUserManagement(actor); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// checkDepartment enforces that department-bound roles reference a real
// department.
func (s *UserService) checkDepartment(ctx context.Context, role domain.Role, departmentID *string) error {
	needsDepartment := role == domain.RoleDepartmentManager ||
		role == domain.RoleSectionSupervisor ||
		role == domain.RoleTechnician
	if !needsDepartment {
		return nil
	}
	if departmentID == nil || *departmentID == "" {
		return apperrors.NewValidationError("this role requires a department", map[string]any{"role": role})
	}
	if _, err := s.departments.GetByID(ctx, *departmentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("department", map[string]any{"department_id": *departmentID})
		}
		return apperrors.MapError(err)
	}
	return nil
}
