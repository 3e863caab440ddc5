package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/aftersales-service/internal/api/dto"
)

// respondOK writes a success envelope with HTTP 200.
func respondOK(c *fiber.Ctx, data any) error {
	return c.JSON(dto.Envelope{Success: true, Data: data})
}

// respondCreated writes a success envelope with HTTP 201.
func respondCreated(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(dto.Envelope{Success: true, Data: data})
}

// respondMessage writes a success envelope carrying only a message.
func respondMessage(c *fiber.Ctx, message string) error {
	return c.JSON(dto.Envelope{Success: true, Message: message})
}

// respondPage writes a success envelope with pagination metadata.
func respondPage(c *fiber.Ctx, data any, page, limit, total int) error {
	return c.JSON(dto.Envelope{
		Success: true,
		Data:    data,
		Meta:    dto.NewMeta(page, limit, total),
	})
}
