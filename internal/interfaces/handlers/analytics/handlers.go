package analytics

import (
	anasvc "estate-backend/internal/application/analytics"
	"estate-backend/internal/middleware"
	"estate-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *anasvc.Service
}

// GET /api/v1/real-estate/properties/:id/analytics
func (h *Handlers) Property(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	propertyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid property id")
	}
	data, err := h.Service.Property(c.Context(), userID, propertyID)
	if err != nil {
		return err
	}
	return response.Success(c, "Property analytics fetched successfully", data, nil)
}

// GET /api/v1/real-estate/portfolio
func (h *Handlers) Portfolio(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	data, err := h.Service.Portfolio(c.Context(), userID)
	if err != nil {
		return err
	}
	return response.Success(c, "Portfolio analytics fetched successfully", data, nil)
}
