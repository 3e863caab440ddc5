package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/aftersales-service/internal/api/dto"
	"github.com/spec-kit/aftersales-service/internal/auth"
	"github.com/spec-kit/aftersales-service/internal/domain"
	"github.com/spec-kit/aftersales-service/internal/repository"
	"github.com/spec-kit/aftersales-service/internal/service"
)

// UsersHandler serves operator account management.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// Create POST /api/v1/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.service.Create(c.UserContext(), actor, service.CreateUserInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Phone:        req.Phone,
		Role:         domain.Role(req.Role),
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		return err
	}
	return respondCreated(c, dto.NewUserResponse(user))
}

// Update PATCH /api/v1/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input := service.UpdateUserInput{
		Name:         req.Name,
		Phone:        req.Phone,
		DepartmentID: req.DepartmentID,
		Active:       req.Active,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		input.Role = &role
	}
	user, err := h.service.Update(c.UserContext(), actor, c.Params("id"), input)
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewUserResponse(user))
}

// Get GET /api/v1/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	user, err := h.service.GetByID(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewUserResponse(user))
}

// List GET /api/v1/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	filter := repository.UserFilter{
		DepartmentID: queryString(c, "department_id"),
		Limit:        queryInt(c, "limit", 50),
		Offset:       queryInt(c, "offset", 0),
	}
	if raw := c.Query("role"); raw != "" {
		role := domain.Role(raw)
		filter.Role = &role
	}
	if raw := c.Query("active"); raw != "" {
		active := raw == "true" || raw == "1"
		filter.Active = &active
	}

	users, err := h.service.List(c.UserContext(), actor, filter)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return respondOK(c, items)
}
