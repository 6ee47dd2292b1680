package controllers

import (
	"fmt"

	"fulfillment-wms/wms/dispatch"
	"fulfillment-wms/wms/fulfillment"

	"github.com/gofiber/fiber/v2"
)

// ShippingController covers packing, labeling and carrier handover.
type ShippingController struct {
	Engine      *fulfillment.Engine
	Coordinator *dispatch.Coordinator
}

func NewShippingController(engine *fulfillment.Engine, coordinator *dispatch.Coordinator) *ShippingController {
	return &ShippingController{Engine: engine, Coordinator: coordinator}
}

type packageInput struct {
	OrderID     string `json:"order_id" validate:"required"`
	PickListID  string `json:"pick_list_id" validate:"required"`
	PackageType string `json:"package_type"`
}

type labelInput struct {
	CarrierID    string `json:"carrier_id" validate:"required"`
	ServiceLevel string `json:"service_level" validate:"required"`
}

type pickupInput struct {
	Signature          string `json:"signature" validate:"required"`
	ConfirmationNumber string `json:"confirmation_number"`
}

func (c *ShippingController) CreatePackage(ctx *fiber.Ctx) error {
	var input packageInput
	if err := bind(ctx, &input); err != nil {
		return respondError(ctx, err)
	}

	pkg, err := c.Engine.CreatePackage(input.OrderID, input.PickListID, input.PackageType)
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusCreated, "Package created successfully", pkg)
}

func (c *ShippingController) GetAllPackages(ctx *fiber.Ctx) error {
	return respondOK(ctx, fiber.StatusOK, "Packages found", c.Engine.Packages())
}

func (c *ShippingController) GetPackageByID(ctx *fiber.Ctx) error {
	pkg, err := c.Engine.Package(ctx.Params("id"))
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusOK, "Package found", pkg)
}

func (c *ShippingController) VerifyPackage(ctx *fiber.Ctx) error {
	var input struct {
		Notes string `json:"notes"`
	}
	if len(ctx.Body()) > 0 {
		if err := bind(ctx, &input); err != nil {
			return respondError(ctx, err)
		}
	}

	pkg, err := c.Engine.VerifyPackage(ctx.Params("id"), input.Notes)
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusOK, "Package verified successfully", pkg)
}

func (c *ShippingController) GenerateLabel(ctx *fiber.Ctx) error {
	var input labelInput
	if err := bind(ctx, &input); err != nil {
		return respondError(ctx, err)
	}

	label, err := c.Engine.GenerateLabel(ctx.Params("id"), input.CarrierID, input.ServiceLevel)
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusCreated, "Label generated successfully", label)
}

func (c *ShippingController) MarkLabeled(ctx *fiber.Ctx) error {
	pkg, err := c.Engine.MarkLabeled(ctx.Params("id"))
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusOK, "Package marked as labeled", pkg)
}

func (c *ShippingController) GetLabelByID(ctx *fiber.Ctx) error {
	label, err := c.Engine.Label(ctx.Params("id"))
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusOK, "Label found", label)
}

func (c *ShippingController) GetReadyPackages(ctx *fiber.Ctx) error {
	return respondOK(ctx, fiber.StatusOK, "Ready packages found", c.Engine.ReadyPackages(ctx.Params("carrier")))
}

func (c *ShippingController) CreateManifest(ctx *fiber.Ctx) error {
	var input struct {
		CarrierID string `json:"carrier_id" validate:"required"`
	}
	if err := bind(ctx, &input); err != nil {
		return respondError(ctx, err)
	}

	m, err := c.Coordinator.CreateManifest(input.CarrierID)
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusCreated, "Manifest created successfully", m)
}

func (c *ShippingController) GetAllManifests(ctx *fiber.Ctx) error {
	return respondOK(ctx, fiber.StatusOK, "Manifests found", c.Coordinator.Manifests())
}

func (c *ShippingController) GetManifestByID(ctx *fiber.Ctx) error {
	m, err := c.Coordinator.Manifest(ctx.Params("id"))
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusOK, "Manifest found", m)
}

func (c *ShippingController) RecordPickup(ctx *fiber.Ctx) error {
	var input pickupInput
	if err := bind(ctx, &input); err != nil {
		return respondError(ctx, err)
	}

	m, err := c.Coordinator.RecordPickup(ctx.Params("id"), input.Signature, input.ConfirmationNumber)
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusOK, "Carrier pickup recorded successfully", m)
}

func (c *ShippingController) ExportManifest(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if _, err := c.Coordinator.Manifest(id); err != nil {
		return respondError(ctx, err)
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="manifest_%s.xlsx"`, id))
	if err := c.Coordinator.ExportManifest(id, ctx.Response().BodyWriter()); err != nil {
		return respondError(ctx, err)
	}
	return nil
}
