package controllers

import (
	"fulfillment-wms/wms/fsm"
	"fulfillment-wms/wms/procurement"

	"github.com/gofiber/fiber/v2"
)

type ProcurementController struct {
	Engine          *procurement.Engine
	DeliveryAddress string
}

func NewProcurementController(engine *procurement.Engine, deliveryAddress string) *ProcurementController {
	return &ProcurementController{Engine: engine, DeliveryAddress: deliveryAddress}
}

type requisitionInput struct {
	ItemID        string `json:"item_id" validate:"required"`
	ObservedStock int    `json:"observed_stock" validate:"min=0"`
	RequestedBy   string `json:"requested_by" validate:"required"`
}

func (c *ProcurementController) CreateRequisition(ctx *fiber.Ctx) error {
	var input requisitionInput
	if err := bind(ctx, &input); err != nil {
		return respondError(ctx, err)
	}

	req, err := c.Engine.CreateRequisition(input.ItemID, input.ObservedStock, input.RequestedBy)
	if err != nil {
		return respondError(ctx, err)
	}
	if req == nil {
		return respondOK(ctx, fiber.StatusOK, "Stock is above reorder point, no requisition needed", nil)
	}
	return respondOK(ctx, fiber.StatusCreated, "Requisition created successfully", req)
}

func (c *ProcurementController) GetRequisitions(ctx *fiber.Ctx) error {
	if ctx.Query("status") == string(fsm.RequisitionPending) {
		return respondOK(ctx, fiber.StatusOK, "Pending requisitions found", c.Engine.PendingRequisitions())
	}
	return respondOK(ctx, fiber.StatusOK, "Requisitions found", c.Engine.Requisitions())
}

func (c *ProcurementController) GetRequisitionByID(ctx *fiber.Ctx) error {
	req, err := c.Engine.Requisition(ctx.Params("id"))
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusOK, "Requisition found", req)
}

func (c *ProcurementController) ApproveRequisition(ctx *fiber.Ctx) error {
	var input struct {
		Approver string `json:"approver" validate:"required"`
	}
	if err := bind(ctx, &input); err != nil {
		return respondError(ctx, err)
	}

	req, err := c.Engine.Approve(ctx.Params("id"), input.Approver)
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusOK, "Requisition approved successfully", req)
}

func (c *ProcurementController) RejectRequisition(ctx *fiber.Ctx) error {
	var input struct {
		Reason string `json:"reason" validate:"required"`
	}
	if err := bind(ctx, &input); err != nil {
		return respondError(ctx, err)
	}

	req, err := c.Engine.Reject(ctx.Params("id"), input.Reason)
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusOK, "Requisition rejected successfully", req)
}

func (c *ProcurementController) CreatePurchaseOrder(ctx *fiber.Ctx) error {
	var input struct {
		DeliveryAddress string `json:"delivery_address"`
	}
	if len(ctx.Body()) > 0 {
		if err := bind(ctx, &input); err != nil {
			return respondError(ctx, err)
		}
	}
	if input.DeliveryAddress == "" {
		input.DeliveryAddress = c.DeliveryAddress
	}

	po, err := c.Engine.GeneratePurchaseOrder(ctx.Params("id"), input.DeliveryAddress)
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusCreated, "Purchase order created successfully", po)
}

func (c *ProcurementController) GetPurchaseOrders(ctx *fiber.Ctx) error {
	return respondOK(ctx, fiber.StatusOK, "Purchase orders found", c.Engine.PurchaseOrders())
}

func (c *ProcurementController) GetPurchaseOrderByID(ctx *fiber.Ctx) error {
	po, err := c.Engine.PurchaseOrder(ctx.Params("id"))
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusOK, "Purchase order found", po)
}
