package controllers

import (
	"fulfillment-wms/wms/fulfillment"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type OrderController struct {
	Engine *fulfillment.Engine
}

func NewOrderController(engine *fulfillment.Engine) *OrderController {
	return &OrderController{Engine: engine}
}

type orderLineInput struct {
	ItemID    string          `json:"item_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type orderInput struct {
	ID          string           `json:"id"`
	CustomerID  string           `json:"customer_id" validate:"required"`
	WarehouseID string           `json:"warehouse_id" validate:"required"`
	Priority    string           `json:"priority"`
	Lines       []orderLineInput `json:"lines" validate:"required,min=1,dive"`
}

type pickedItemInput struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Notes    string `json:"notes"`
}

func (c *OrderController) CreateOrder(ctx *fiber.Ctx) error {
	var input orderInput
	if err := bind(ctx, &input); err != nil {
		return respondError(ctx, err)
	}

	in := fulfillment.OrderInput{
		ID:          input.ID,
		CustomerID:  input.CustomerID,
		WarehouseID: input.WarehouseID,
		Priority:    input.Priority,
	}
	for _, l := range input.Lines {
		in.Lines = append(in.Lines, fulfillment.OrderLine{ItemID: l.ItemID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}

	order, err := c.Engine.SubmitOrder(in)
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusCreated, "Order created successfully", order)
}

func (c *OrderController) GetAllOrders(ctx *fiber.Ctx) error {
	return respondOK(ctx, fiber.StatusOK, "Orders found", c.Engine.Orders())
}

func (c *OrderController) GetOrderByID(ctx *fiber.Ctx) error {
	order, err := c.Engine.Order(ctx.Params("id"))
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusOK, "Order found", fiber.Map{
		"order": order,
		"total": order.Total(),
	})
}

func (c *OrderController) StartProcessing(ctx *fiber.Ctx) error {
	order, err := c.Engine.StartProcessing(ctx.Params("id"))
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusOK, "Order moved to processing", order)
}

func (c *OrderController) CreatePickList(ctx *fiber.Ctx) error {
	pl, err := c.Engine.GeneratePickList(ctx.Params("id"))
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusCreated, "Pick list created successfully", pl)
}

func (c *OrderController) GetAllPickLists(ctx *fiber.Ctx) error {
	return respondOK(ctx, fiber.StatusOK, "Pick lists found", c.Engine.PickLists())
}

func (c *OrderController) GetPickListByID(ctx *fiber.Ctx) error {
	pl, err := c.Engine.PickList(ctx.Params("id"))
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusOK, "Pick list found", pl)
}

func (c *OrderController) AssignPickList(ctx *fiber.Ctx) error {
	var input struct {
		PickerID string `json:"picker_id" validate:"required"`
	}
	if err := bind(ctx, &input); err != nil {
		return respondError(ctx, err)
	}

	pl, err := c.Engine.AssignPickList(ctx.Params("id"), input.PickerID)
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusOK, "Pick list assigned successfully", pl)
}

func (c *OrderController) RecordPickedItem(ctx *fiber.Ctx) error {
	var input pickedItemInput
	if err := bind(ctx, &input); err != nil {
		return respondError(ctx, err)
	}

	pl, err := c.Engine.RecordPickedItem(ctx.Params("id"), input.ItemID, input.Quantity, input.Notes)
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusOK, "Picked item recorded successfully", pl)
}

func (c *OrderController) CompletePickList(ctx *fiber.Ctx) error {
	pl, err := c.Engine.CompletePickList(ctx.Params("id"))
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusOK, "Pick list completed successfully", pl)
}

func (c *OrderController) RegisterPicker(ctx *fiber.Ctx) error {
	var input struct {
		PickerID string `json:"picker_id" validate:"required"`
	}
	if err := bind(ctx, &input); err != nil {
		return respondError(ctx, err)
	}

	if err := c.Engine.RegisterPicker(input.PickerID); err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusCreated, "Picker registered successfully", fiber.Map{"picker_id": input.PickerID})
}

func (c *OrderController) GetAvailablePickers(ctx *fiber.Ctx) error {
	return respondOK(ctx, fiber.StatusOK, "Available pickers found", c.Engine.AvailablePickers())
}
