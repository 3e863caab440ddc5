package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/aftersales-service/internal/api/dto"
	"github.com/spec-kit/aftersales-service/internal/auth"
	"github.com/spec-kit/aftersales-service/internal/domain"
	"github.com/spec-kit/aftersales-service/internal/service"
)

// DirectoryHandler serves reference-data endpoints: customers, products,
// departments, spare parts and custom status labels.
type DirectoryHandler struct {
	service *service.DirectoryService
}

// NewDirectoryHandler constructs the handler.
func NewDirectoryHandler(directoryService *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: directoryService}
}

// CreateCustomer POST /api/v1/customers.
func (h *DirectoryHandler) CreateCustomer(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateCustomerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	customer, err := h.service.CreateCustomer(c.UserContext(), actor, &domain.Customer{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		return err
	}
	return respondCreated(c, dto.NewCustomerResponse(customer))
}

// GetCustomer GET /api/v1/customers/:id.
func (h *DirectoryHandler) GetCustomer(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	customer, err := h.service.GetCustomer(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewCustomerResponse(customer))
}

// ListCustomers GET /api/v1/customers.
func (h *DirectoryHandler) ListCustomers(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	customers, err := h.service.ListCustomers(c.UserContext(), actor,
		c.Query("search"), queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		return err
	}
	items := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, dto.NewCustomerResponse(&customers[i]))
	}
	return respondOK(c, items)
}

// CreateProduct POST /api/v1/products.
func (h *DirectoryHandler) CreateProduct(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	product, err := h.service.CreateProduct(c.UserContext(), actor, &domain.Product{
		Name:         req.Name,
		Model:        req.Model,
		Brand:        req.Brand,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		return err
	}
	return respondCreated(c, dto.NewProductResponse(product))
}

// ListProducts GET /api/v1/products.
func (h *DirectoryHandler) ListProducts(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	products, err := h.service.ListProducts(c.UserContext(), actor,
		queryString(c, "department_id"), queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		return err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, dto.NewProductResponse(&products[i]))
	}
	return respondOK(c, items)
}

// CreateDepartment POST /api/v1/departments.
func (h *DirectoryHandler) CreateDepartment(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateDepartmentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	dept, err := h.service.CreateDepartment(c.UserContext(), actor, &domain.Department{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return respondCreated(c, dto.NewDepartmentResponse(dept))
}

// ListDepartments GET /api/v1/departments.
func (h *DirectoryHandler) ListDepartments(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	departments, err := h.service.ListDepartments(c.UserContext(), actor)
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(departments))
	for i := range departments {
		items = append(items, dto.NewDepartmentResponse(&departments[i]))
	}
	return respondOK(c, items)
}

// CreateSparePart POST /api/v1/spare-parts.
func (h *DirectoryHandler) CreateSparePart(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateSparePartRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	part, err := h.service.CreateSparePart(c.UserContext(), actor, &domain.SparePart{
		Name:         req.Name,
		PartNumber:   req.PartNumber,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		Currency:     req.Currency,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		return err
	}
	return respondCreated(c, dto.NewSparePartResponse(part))
}

// AdjustSparePartStock PATCH /api/v1/spare-parts/:id/stock.
func (h *DirectoryHandler) AdjustSparePartStock(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	var req dto.AdjustStockRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	part, err := h.service.AdjustSparePartStock(c.UserContext(), actor, c.Params("id"), req.Delta)
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewSparePartResponse(part))
}

// ListSpareParts GET /api/v1/spare-parts.
func (h *DirectoryHandler) ListSpareParts(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	parts, err := h.service.ListSpareParts(c.UserContext(), actor,
		c.Query("search"), queryString(c, "department_id"),
		queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		return err
	}
	items := make([]dto.SparePartResponse, 0, len(parts))
	for i := range parts {
		items = append(items, dto.NewSparePartResponse(&parts[i]))
	}
	return respondOK(c, items)
}

// CreateCustomStatus POST /api/v1/custom-statuses.
func (h *DirectoryHandler) CreateCustomStatus(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateCustomStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	status, err := h.service.CreateCustomStatus(c.UserContext(), actor, &domain.CustomStatus{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		return err
	}
	return respondCreated(c, dto.NewCustomStatusResponse(status))
}

// DeleteCustomStatus DELETE /api/v1/custom-statuses/:id.
func (h *DirectoryHandler) DeleteCustomStatus(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteCustomStatus(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return respondMessage(c, "custom status deleted")
}

// ListCustomStatuses GET /api/v1/custom-statuses.
func (h *DirectoryHandler) ListCustomStatuses(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	statuses, err := h.service.ListCustomStatuses(c.UserContext(), actor)
	if err != nil {
		return err
	}
	items := make([]dto.CustomStatusResponse, 0, len(statuses))
	for i := range statuses {
		items = append(items, dto.NewCustomStatusResponse(&statuses[i]))
	}
	return respondOK(c, items)
}
