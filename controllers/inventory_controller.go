package controllers

import (
	"fulfillment-wms/services"
	"fulfillment-wms/wms/inventory"

	"github.com/gofiber/fiber/v2"
)

type InventoryController struct {
	Ledger        *inventory.Ledger
	Putaway       *services.PutawayService
	Replenishment *services.ReplenishmentService
}

func NewInventoryController(ledger *inventory.Ledger, putaway *services.PutawayService, replenishment *services.ReplenishmentService) *InventoryController {
	return &InventoryController{Ledger: ledger, Putaway: putaway, Replenishment: replenishment}
}

type adjustInput struct {
	ItemID      string `json:"item_id" validate:"required"`
	WarehouseID string `json:"warehouse_id" validate:"required"`
	Delta       int    `json:"delta" validate:"required"`
	Reason      string `json:"reason"`
}

type putawayInput struct {
	ItemID      string `json:"item_id" validate:"required"`
	WarehouseID string `json:"warehouse_id" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
	Reference   string `json:"reference"`
}

func (c *InventoryController) GetInventory(ctx *fiber.Ctx) error {
	return respondOK(ctx, fiber.StatusOK, "Inventory found", c.Ledger.Records())
}

func (c *InventoryController) GetInventoryRecord(ctx *fiber.Ctx) error {
	rec, err := c.Ledger.Record(ctx.Params("item"), ctx.Params("warehouse"))
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusOK, "Inventory record found", rec)
}

func (c *InventoryController) AdjustStock(ctx *fiber.Ctx) error {
	var input adjustInput
	if err := bind(ctx, &input); err != nil {
		return respondError(ctx, err)
	}

	onHand, err := c.Ledger.Adjust(input.ItemID, input.WarehouseID, input.Delta, input.Reason)
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusOK, "Stock adjusted successfully", fiber.Map{
		"item_id":          input.ItemID,
		"warehouse_id":     input.WarehouseID,
		"quantity_on_hand": onHand,
	})
}

func (c *InventoryController) PutawayStock(ctx *fiber.Ctx) error {
	var input putawayInput
	if err := bind(ctx, &input); err != nil {
		return respondError(ctx, err)
	}

	result, err := c.Putaway.Store(input.ItemID, input.WarehouseID, input.Quantity, input.Reference)
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusCreated, "Stock put away successfully", result)
}

func (c *InventoryController) CheckReorder(ctx *fiber.Ctx) error {
	needs, err := c.Ledger.NeedsReorder(ctx.Params("item"))
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusOK, "Reorder check completed", fiber.Map{
		"item_id":       ctx.Params("item"),
		"needs_reorder": needs,
	})
}

// RunReorderScan scans stock and raises requisitions for every low item.
func (c *InventoryController) RunReorderScan(ctx *fiber.Ctx) error {
	run := c.Replenishment.Run()
	return respondOK(ctx, fiber.StatusOK, "Reorder scan completed", run)
}
