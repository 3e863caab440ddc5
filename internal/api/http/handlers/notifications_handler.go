package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/aftersales-service/internal/api/dto"
	"github.com/spec-kit/aftersales-service/internal/auth"
	"github.com/spec-kit/aftersales-service/internal/service"
)

// NotificationsHandler serves the per-user notification feed.
type NotificationsHandler struct {
	service *service.NotificationService
}

// NewNotificationsHandler constructs the handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{service: notificationService}
}

// List GET /api/v1/notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	unreadOnly := c.Query("unread") == "true"
	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)

	notifications, err := h.service.ListForUser(c.UserContext(), actor.ID, unreadOnly, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, dto.NewNotificationResponse(&notifications[i]))
	}
	return respondOK(c, items)
}

// MarkRead PUT /api/v1/notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	if err := h.service.MarkRead(c.UserContext(), c.Params("id"), actor.ID); err != nil {
		return err
	}
	return respondMessage(c, "notification marked as read")
}

// MarkAllRead PUT /api/v1/notifications/read-all.
func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	updated, err := h.service.MarkAllRead(c.UserContext(), actor.ID)
	if err != nil {
		return err
	}
	return respondOK(c, dto.MarkAllReadResponse{Updated: updated})
}

// UnreadCount GET /api/v1/notifications/unread-count.
func (h *NotificationsHandler) UnreadCount(c *fiber.Ctx) error {
	actor, err := auth.Principal(c)
	if err != nil {
		return err
	}
	count, err := h.service.UnreadCount(c.UserContext(), actor.ID)
	if err != nil {
		return err
	}
	return respondOK(c, dto.UnreadCountResponse{Unread: count})
}
