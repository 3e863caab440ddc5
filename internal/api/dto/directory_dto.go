package dto

import (
	"time"

	"github.com/spec-kit/aftersales-service/internal/domain"
)

// CreateCustomerRequest payload.
type CreateCustomerRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
}

// CustomerResponse response.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateProductRequest payload.
type CreateProductRequest struct {
	Name         string `json:"name" validate:"required"`
	Model        string `json:"model"`
	Brand        string `json:"brand"`
	DepartmentID string `json:"department_id" validate:"required"`
}

// ProductResponse response.
type ProductResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Model        string    `json:"model,omitempty"`
	Brand        string    `json:"brand,omitempty"`
	DepartmentID string    `json:"department_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateDepartmentRequest payload.
type CreateDepartmentRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// DepartmentResponse response.
type DepartmentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateSparePartRequest payload.
type CreateSparePartRequest struct {
	Name         string  `json:"name" validate:"required"`
	PartNumber   string  `json:"part_number" validate:"required"`
	Quantity     int     `json:"quantity" validate:"min=0"`
	UnitPrice    float64 `json:"unit_price" validate:"min=0"`
	Currency     string  `json:"currency"`
	DepartmentID *string `json:"department_id"`
}

// AdjustStockRequest payload. Negative deltas consume stock.
type AdjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// SparePartResponse response.
type SparePartResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PartNumber   string    `json:"part_number"`
	Quantity     int       `json:"quantity"`
	UnitPrice    float64   `json:"unit_price"`
	Currency     string    `json:"currency"`
	DepartmentID *string   `json:"department_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateCustomStatusRequest payload.
type CreateCustomStatusRequest struct {
	Name  string `json:"name" validate:"required"`
	Color string `json:"color"`
}

// CustomStatusResponse response.
type CustomStatusResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCustomerResponse maps a customer.
func NewCustomerResponse(customer *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        customer.ID,
		Name:      customer.Name,
		Phone:     customer.Phone,
		Email:     customer.Email,
		Address:   customer.Address,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}
}

// NewProductResponse maps a product.
func NewProductResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:           product.ID,
		Name:         product.Name,
		Model:        product.Model,
		Brand:        product.Brand,
		DepartmentID: product.DepartmentID,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}
}

// NewDepartmentResponse maps a department.
func NewDepartmentResponse(dept *domain.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          dept.ID,
		Name:        dept.Name,
		Description: dept.Description,
		IsActive:    dept.IsActive,
		CreatedAt:   dept.CreatedAt,
	}
}

// NewSparePartResponse maps a stock item.
func NewSparePartResponse(part *domain.SparePart) SparePartResponse {
	return SparePartResponse{
		ID:           part.ID,
		Name:         part.Name,
		PartNumber:   part.PartNumber,
		Quantity:     part.Quantity,
		UnitPrice:    part.UnitPrice,
		Currency:     part.Currency,
		DepartmentID: part.DepartmentID,
		CreatedAt:    part.CreatedAt,
		UpdatedAt:    part.UpdatedAt,
	}
}

// NewCustomStatusResponse maps a status label.
func NewCustomStatusResponse(status *domain.CustomStatus) CustomStatusResponse {
	return CustomStatusResponse{
		ID:        status.ID,
		Name:      status.Name,
		Color:     status.Color,
		CreatedAt: status.CreatedAt,
	}
}
