package routes

import (
	"fulfillment-wms/config"
	"fulfillment-wms/controllers"

	"github.com/gofiber/fiber/v2"
)

func SetupInventoryRoutes(app *fiber.App, inventoryController *controllers.InventoryController) {
	api := app.Group(config.MAIN_ROUTES + "/inventory")

	api.Get("/", inventoryController.GetInventory)
	api.Post("/adjust", inventoryController.AdjustStock)
	api.Post("/putaway", inventoryController.PutawayStock)
	api.Post("/reorder-scan", inventoryController.RunReorderScan)
	api.Get("/:item/reorder", inventoryController.CheckReorder)
	api.Get("/:item/:warehouse", inventoryController.GetInventoryRecord)
}
