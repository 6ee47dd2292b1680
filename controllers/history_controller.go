package controllers

import (
	"fulfillment-wms/models"

	"github.com/gofiber/fiber/v2"
)

type HistoryReader interface {
	FindByRefNo(refNo string) ([]models.TransactionHistory, error)
	Recent(eventType string, limit int) ([]models.TransactionHistory, error)
}

// HistoryController serves the event journal. Reader is nil when no
// history database is configured.
type HistoryController struct {
	Reader HistoryReader
}

func NewHistoryController(reader HistoryReader) *HistoryController {
	return &HistoryController{Reader: reader}
}

func (c *HistoryController) disabled(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "event history database is not configured"})
}

func (c *HistoryController) GetRecentHistory(ctx *fiber.Ctx) error {
	if c.Reader == nil {
		return c.disabled(ctx)
	}
	results, err := c.Reader.Recent(ctx.Query("type"), ctx.QueryInt("limit", 100))
	if err != nil {
		return respondInternal(ctx, err)
	}
	return respondOK(ctx, fiber.StatusOK, "History found", results)
}

func (c *HistoryController) GetHistoryByRefNo(ctx *fiber.Ctx) error {
	if c.Reader == nil {
		return c.disabled(ctx)
	}
	results, err := c.Reader.FindByRefNo(ctx.Params("ref"))
	if err != nil {
		return respondInternal(ctx, err)
	}
	return respondOK(ctx, fiber.StatusOK, "History found", results)
}
