package controllers

import (
	"strings"

	"fulfillment-wms/wms/catalog"

	"github.com/gofiber/fiber/v2"
)

type CatalogController struct {
	Registry *catalog.Registry
}

func NewCatalogController(registry *catalog.Registry) *CatalogController {
	return &CatalogController{Registry: registry}
}

func (c *CatalogController) GetItems(ctx *fiber.Ctx) error {
	return respondOK(ctx, fiber.StatusOK, "Items found", c.Registry.Items())
}

func (c *CatalogController) GetItemByID(ctx *fiber.Ctx) error {
	item, err := c.Registry.Item(ctx.Params("id"))
	if err != nil {
		return respondError(ctx, err)
	}
	return respondOK(ctx, fiber.StatusOK, "Item found", item)
}

func (c *CatalogController) GetSuppliers(ctx *fiber.Ctx) error {
	return respondOK(ctx, fiber.StatusOK, "Suppliers found", c.Registry.Suppliers())
}

func (c *CatalogController) GetCarriers(ctx *fiber.Ctx) error {
	return respondOK(ctx, fiber.StatusOK, "Carriers found", c.Registry.Carriers())
}

// UploadCatalog imports the Suppliers, Items and Carriers sheets of an
// uploaded workbook. Existing ids are skipped.
func (c *CatalogController) UploadCatalog(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "File is required",
		})
	}

	if !strings.HasSuffix(strings.ToLower(file.Filename), ".xlsx") {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Only Excel files (.xlsx) are allowed",
		})
	}

	fileContent, err := file.Open()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to open file",
		})
	}
	defer fileContent.Close()

	result, err := catalog.LoadWorkbook(fileContent, c.Registry)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	return respondOK(ctx, fiber.StatusOK, "Catalog imported", result)
}
