package insights

import (
	inssvc "estate-backend/internal/application/insights"
	"estate-backend/internal/middleware"
	"estate-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *inssvc.Service
}

// GET /api/v1/real-estate/insights
func (h *Handlers) List(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	report, err := h.Service.ForUser(c.Context(), userID)
	if err != nil {
		return err
	}
	return response.Success(c, "Insights fetched successfully", report.Insights, fiber.Map{
		"summary":     report.Summary,
		"generatedAt": report.GeneratedAt,
	})
}
