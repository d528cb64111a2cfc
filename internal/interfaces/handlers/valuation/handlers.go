package valuation

import (
	valsvc "estate-backend/internal/application/valuation"
	"estate-backend/internal/middleware"
	"estate-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *valsvc.Service
	// SkipRecentDays applies when revalue-all is called without a body.
	SkipRecentDays int
}

// POST /api/v1/real-estate/properties/:id/revalue
func (h *Handlers) Revalue(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	propertyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid property id")
	}

	res := h.Service.UpdateSystemValuation(c.Context(), userID, propertyID)
	if !res.Success {
		return response.Error(c, res.Error, middleware.StatusFor(res.Err), res)
	}
	return response.Success(c, "Valuation updated successfully", res, nil)
}

// POST /api/v1/real-estate/revalue-all
func (h *Handlers) RevalueAll(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	opts := valsvc.BatchOptions{SkipRecentDays: h.SkipRecentDays}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&opts); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}
	if opts.SkipRecentDays < 0 {
		return response.BadRequest(c, "skip_recent_days must not be negative")
	}

	out, err := h.Service.UpdateAll(c.Context(), userID, opts)
	if err != nil {
		return err
	}
	meta := fiber.Map{"total": out.Total, "successful": out.Successful, "failed": out.Failed, "skipped": out.Skipped}
	return response.Success(c, "Batch valuation finished", out, meta)
}

// GET /api/v1/real-estate/valuation-runs?limit=
func (h *Handlers) Runs(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		return response.BadRequest(c, "limit must be between 1 and 100")
	}
	runs, err := h.Service.Runs(c.Context(), userID, limit)
	if err != nil {
		return err
	}
	return response.Success(c, "Valuation runs fetched successfully", runs, nil)
}
