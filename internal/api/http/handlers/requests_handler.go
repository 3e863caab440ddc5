package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/aftersales-service/internal/api/dto"
	"github.com/spec-kit/aftersales-service/internal/auth"
	"github.com/spec-kit/aftersales-service/internal/domain"
	"github.com/spec-kit/aftersales-service/internal/service"
)

// RequestsHandler serves the service-request lifecycle endpoints.
type RequestsHandler struct {
	service *service.RequestService
}

// NewRequestsHandler constructs the handler.
func NewRequestsHandler(requestService *service.RequestService) *RequestsHandler {
	return &RequestsHandler{service: requestService}
}

// Create POST /api/v1/requests.
func (h *RequestsHandler) Create(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateRequestRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	input := service.CreateInput{
		CustomerID:       req.CustomerID,
		ProductID:        req.ProductID,
		IssueDescription: req.IssueDescription,
		ExecutionMethod:  domain.ExecutionMethod(req.ExecutionMethod),
		WarrantyStatus:   domain.WarrantyStatus(req.WarrantyStatus),
		PurchaseDate:     req.PurchaseDate,
		Priority:         domain.RequestPriority(req.Priority),
	}
	request, err := h.service.Create(c.UserContext(), input, actor)
	if err != nil {
		return err
	}
	return respondCreated(c, dto.NewRequestSummary(request))
}

// List GET /api/v1/requests.
func (h *RequestsHandler) List(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	input := parseListQuery(c)
	result, err := h.service.List(c.UserContext(), input, actor)
	if err != nil {
		return err
	}

	items := make([]dto.RequestSummary, 0, len(result.Requests))
	for i := range result.Requests {
		items = append(items, dto.NewRequestSummary(&result.Requests[i]))
	}
	return respondPage(c, items, result.Page, result.Limit, result.Total)
}

// Get GET /api/v1/requests/:id.
func (h *RequestsHandler) Get(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	detail, err := h.service.GetByID(c.UserContext(), c.Params("id"), actor)
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewRequestDetail(detail))
}

// UpdateStatus PUT /api/v1/requests/:id/status.
func (h *RequestsHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	request, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), domain.RequestStatus(req.Status), req.Comment, actor)
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewRequestSummary(request))
}

// Assign PUT /api/v1/requests/:id/assign.
func (h *RequestsHandler) Assign(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	var req dto.AssignTechnicianRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	request, err := h.service.AssignTechnician(c.UserContext(), c.Params("id"), req.TechnicianID, actor)
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewRequestSummary(request))
}

// AddCost POST /api/v1/requests/:id/costs.
func (h *RequestsHandler) AddCost(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	var req dto.AddCostRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input := service.CostInput{
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    req.Currency,
		CostType:    domain.CostType(req.CostType),
	}
	cost, err := h.service.AddCost(c.UserContext(), c.Params("id"), input, actor)
	if err != nil {
		return err
	}
	return respondCreated(c, dto.NewCostResponse(cost))
}

// Close PUT /api/v1/requests/:id/close.
func (h *RequestsHandler) Close(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	var req dto.CloseRequestRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	request, err := h.service.Close(c.UserContext(), c.Params("id"), req.FinalNotes, req.CustomerSatisfaction, actor)
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewRequestSummary(request))
}

func parseListQuery(c *fiber.Ctx) service.ListInput {
	input := service.ListInput{
		Page:         queryInt(c, "page", 1),
		Limit:        queryInt(c, "limit", 20),
		DepartmentID: queryString(c, "department_id"),
		TechnicianID: queryString(c, "technician_id"),
		SearchTerm:   queryString(c, "search"),
	}

	for _, raw := range splitQuery(c.Query("status")) {
		input.Statuses = append(input.Statuses, domain.RequestStatus(raw))
	}
	for _, raw := range splitQuery(c.Query("priority")) {
		input.Priorities = append(input.Priorities, domain.RequestPriority(raw))
	}
	if raw := c.Query("warranty"); raw != "" {
		warranty := domain.WarrantyStatus(raw)
		input.Warranty = &warranty
	}
	if raw := c.Query("overdue"); raw != "" {
		overdue := raw == "true" || raw == "1"
		input.Overdue = &overdue
	}
	if from, ok := parseQueryTime(c.Query("created_from")); ok {
		input.CreatedFrom = &from
	}
	if to, ok := parseQueryTime(c.Query("created_to")); ok {
		input.CreatedTo = &to
	}
	return input
}

func splitQuery(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func parseQueryTime(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
