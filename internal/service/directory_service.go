package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/aftersales-service/internal/authz"
	"github.com/spec-kit/aftersales-service/internal/domain"
	"github.com/spec-kit/aftersales-service/internal/repository"
	apperrors "github.com/spec-kit/aftersales-service/pkg/util/errorutil"
)

// DirectoryService manages the reference data behind requests: customers,
// products, departments, spare parts and custom status labels. Reads are
// open to any authenticated operator; writes need the directory or
// spare-part capability.
type DirectoryService struct {
	customers      repository.CustomerRepository
	products       repository.ProductRepository
	departments    repository.DepartmentRepository
	spareParts     repository.SparePartRepository
	customStatuses repository.CustomStatusRepository
}

// DirectoryDependencies encapsulates repositories for reference data.
type DirectoryDependencies struct {
	CustomerRepo     repository.CustomerRepository
	ProductRepo      repository.ProductRepository
	DepartmentRepo   repository.DepartmentRepository
	SparePartRepo    repository.SparePartRepository
	CustomStatusRepo repository.CustomStatusRepository
}

// NewDirectoryService constructs the service.
func NewDirectoryService(deps DirectoryDependencies) *DirectoryService {
	return &DirectoryService{
		customers:      deps.CustomerRepo,
		products:       deps.ProductRepo,
		departments:    deps.DepartmentRepo,
		spareParts:     deps.SparePartRepo,
		customStatuses: deps.CustomStatusRepo,
	}
}

func requireAuthenticated(actor *domain.User) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	return nil
}

func requireDirectoryManagement(actor *domain.User) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !authz.Can(actor.Role, authz.ActionManageDirectory) {
		return apperrors.NewForbidden("role does not permit directory changes")
	}
	return nil
}

func requireSparePartManagement(actor *domain.User) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !authz.Can(actor.Role, authz.ActionManageSpareParts) {
		return apperrors.NewForbidden("role does not permit stock changes")
	}
	return nil
}

// CreateCustomer registers a customer.
func (s *DirectoryService) CreateCustomer(ctx context.Context, actor *domain.User, customer *domain.Customer) (*domain.Customer, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	if customer.Name == "" || customer.Phone == "" {
		return nil, apperrors.NewValidationError("customer name and phone are required", nil)
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// UpdateCustomer applies changes to an existing customer.
func (s *DirectoryService) UpdateCustomer(ctx context.Context, actor *domain.User, customer *domain.Customer) (*domain.Customer, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	if customer.ID == "" {
		return nil, apperrors.NewValidationError("customer id is required", nil)
	}
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// GetCustomer fetches one customer.
func (s *DirectoryService) GetCustomer(ctx context.Context, actor *domain.User, id string) (*domain.Customer, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// ListCustomers searches customers by name or phone.
func (s *DirectoryService) ListCustomers(ctx context.Context, actor *domain.User, search string, limit, offset int) ([]domain.Customer, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	customers, err := s.customers.List(ctx, search, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return customers, nil
}

// CreateProduct registers a serviceable product type.
func (s *DirectoryService) CreateProduct(ctx context.Context, actor *domain.User, product *domain.Product) (*domain.Product, error) {
	if err := requireDirectoryManagement(actor); err != nil {
		return nil, err
	}
	if product.Name == "" {
		return nil, apperrors.NewValidationError("product name is required", nil)
	}
	if product.DepartmentID == "" {
		return nil, apperrors.NewValidationError("product department is required", nil)
	}
	if _, err := s.departments.GetByID(ctx, product.DepartmentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("department", map[string]any{"department_id": product.DepartmentID})
		}
		return nil, apperrors.MapError(err)
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, apperrors.MapError(err)
	}
	return product, nil
}

// UpdateProduct applies changes to an existing product.
func (s *DirectoryService) UpdateProduct(ctx context.Context, actor *domain.User, product *domain.Product) (*domain.Product, error) {
	if err := requireDirectoryManagement(actor); err != nil {
		return nil, err
	}
	if product.ID == "" {
		return nil, apperrors.NewValidationError("product id is required", nil)
	}
	if err := s.products.Update(ctx, product); err != nil {
		return nil, apperrors.MapError(err)
	}
	return product, nil
}

// ListProducts lists products, optionally confined to one department.
func (s *DirectoryService) ListProducts(ctx context.Context, actor *domain.User, departmentID *string, limit, offset int) ([]domain.Product, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	products, err := s.products.List(ctx, departmentID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return products, nil
}

// CreateDepartment registers a department. Manager-level only.
func (s *DirectoryService) CreateDepartment(ctx context.Context, actor *domain.User, dept *domain.Department) (*domain.Department, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	if !authz.IsManagerLevel(actor.Role) {
		return nil, apperrors.NewForbidden("only company management can create departments")
	}
	if dept.Name == "" {
		return nil, apperrors.NewValidationError("department name is required", nil)
	}
	dept.IsActive = true
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// ListDepartments returns active departments.
func (s *DirectoryService) ListDepartments(ctx context.Context, actor *domain.User) ([]domain.Department, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	departments, err := s.departments.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return departments, nil
}

// CreateSparePart registers a stock item.
func (s *DirectoryService) CreateSparePart(ctx context.Context, actor *domain.User, part *domain.SparePart) (*domain.SparePart, error) {
	if err := requireSparePartManagement(actor); err != nil {
		return nil, err
	}
	if part.Name == "" || part.PartNumber == "" {
		return nil, apperrors.NewValidationError("part name and number are required", nil)
	}
	if part.Quantity < 0 {
		return nil, apperrors.NewValidationError("quantity cannot be negative", nil)
	}
	if part.Currency == "" {
		part.Currency = "USD"
	}
	if err := s.spareParts.Create(ctx, part); err != nil {
		return nil, apperrors.MapError(err)
	}
	return part, nil
}

// AdjustSparePartStock applies a stock delta; negative deltas consume stock
// and fail when the balance would go below zero.
func (s *DirectoryService) AdjustSparePartStock(ctx context.Context, actor *domain.User, id string, delta int) (*domain.SparePart, error) {
	if err := requireSparePartManagement(actor); err != nil {
		return nil, err
	}
	if delta == 0 {
		return nil, apperrors.NewValidationError("delta must be non-zero", nil)
	}
	part, err := s.spareParts.AdjustQuantity(ctx, id, delta)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewConflict("insufficient stock or unknown part", map[string]any{"spare_part_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return part, nil
}

// ListSpareParts searches stock items.
func (s *DirectoryService) ListSpareParts(ctx context.Context, actor *domain.User, search string, departmentID *string, limit, offset int) ([]domain.SparePart, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	parts, err := s.spareParts.List(ctx, search, departmentID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return parts, nil
}

// CreateCustomStatus registers a status label. Labels never participate in
// lifecycle transition checks.
func (s *DirectoryService) CreateCustomStatus(ctx context.Context, actor *domain.User, status *domain.CustomStatus) (*domain.CustomStatus, error) {
	if err := requireDirectoryManagement(actor); err != nil {
		return nil, err
	}
	if status.Name == "" {
		return nil, apperrors.NewValidationError("status name is required", nil)
	}
	if domain.ValidStatus(domain.RequestStatus(status.Name)) {
		return nil, apperrors.NewConflict("name collides with a built-in status", map[string]any{"name": status.Name})
	}
	if _, err := s.customStatuses.GetByName(ctx, status.Name); err == nil {
		return nil, apperrors.NewConflict("status name already exists", map[string]any{"name": status.Name})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if err := s.customStatuses.Create(ctx, status); err != nil {
		return nil, apperrors.MapError(err)
	}
	return status, nil
}

// DeleteCustomStatus removes a status label.
func (s *DirectoryService) DeleteCustomStatus(ctx context.Context, actor *domain.User, id string) error {
	if err := requireDirectoryManagement(actor); err != nil {
		return err
	}
	if err := s.customStatuses.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ListCustomStatuses returns all status labels.
func (s *DirectoryService) ListCustomStatuses(ctx context.Context, actor *domain.User) ([]domain.CustomStatus, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	statuses, err := s.customStatuses.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return statuses, nil
}
