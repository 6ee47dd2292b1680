package controllers

import (
	"fulfillment-wms/wms/storage"

	"github.com/gofiber/fiber/v2"
)

type WarehouseController struct {
	Allocator *storage.Allocator
}

func NewWarehouseController(allocator *storage.Allocator) *WarehouseController {
	return &WarehouseController{Allocator: allocator}
}

type warehouseInput struct {
	ID            string `json:"id" validate:"required"`
	Name          string `json:"name" validate:"required"`
	Address       string `json:"address"`
	TotalCapacity int    `json:"total_capacity" validate:"required,min=1"`
}

type binInput struct {
	BinID    string `json:"bin_id" validate:"required"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
}

type unitsInput struct {
	Units int `json:"units" validate:"required,min=1"`
}

func (c *WarehouseController) GetAllWarehouses(ctx *fiber.Ctx) error {
	return respondOK(ctx, fiber.StatusOK, "Warehouses found", c.Allocator.Warehouses())
}

func (c *WarehouseController) GetWarehouseByID(ctx *fiber.Ctx) error {
	wh, err := c.Allocator.Warehouse(ctx.Params("id"))
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusOK, "Warehouse found", fiber.Map{
		"warehouse": wh,
		"available": wh.Available(),
	})
}

func (c *WarehouseController) CreateWarehouse(ctx *fiber.Ctx) error {
	var input warehouseInput
	if err := bind(ctx, &input); err != nil {
		return respondError(ctx, err)
	}

	if err := c.Allocator.AddWarehouse(input.ID, input.Name, input.Address, input.TotalCapacity); err != nil {
		return respondError(ctx, err)
	}
	wh, err := c.Allocator.Warehouse(input.ID)
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusCreated, "Warehouse created successfully", wh)
}

func (c *WarehouseController) CreateBin(ctx *fiber.Ctx) error {
	var input binInput
	if err := bind(ctx, &input); err != nil {
		return respondError(ctx, err)
	}

	if err := c.Allocator.AddBin(ctx.Params("id"), input.BinID, input.Capacity); err != nil {
		return respondError(ctx, err)
	}
	wh, err := c.Allocator.Warehouse(ctx.Params("id"))
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusCreated, "Bin created successfully", wh)
}

func (c *WarehouseController) ReserveSpace(ctx *fiber.Ctx) error {
	var input unitsInput
	if err := bind(ctx, &input); err != nil {
		return respondError(ctx, err)
	}

	binID, err := c.Allocator.Reserve(ctx.Params("id"), input.Units)
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusOK, "Space reserved successfully", fiber.Map{
		"warehouse_id": ctx.Params("id"),
		"bin_id":       binID,
		"units":        input.Units,
	})
}

func (c *WarehouseController) ReleaseSpace(ctx *fiber.Ctx) error {
	var input unitsInput
	if err := bind(ctx, &input); err != nil {
		return respondError(ctx, err)
	}

	if err := c.Allocator.Release(ctx.Params("bin"), input.Units); err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusOK, "Space released successfully", fiber.Map{
		"bin_id": ctx.Params("bin"),
		"units":  input.Units,
	})
}
