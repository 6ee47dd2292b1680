package routes

import (
	"fulfillment-wms/config"
	"fulfillment-wms/controllers"

	"github.com/gofiber/fiber/v2"
)

func SetupCatalogRoutes(app *fiber.App, catalogController *controllers.CatalogController) {
	api := app.Group(config.MAIN_ROUTES + "/catalog")

	api.Post("/upload-excel", catalogController.UploadCatalog)
	api.Get("/items", catalogController.GetItems)
	api.Get("/items/:id", catalogController.GetItemByID)
	api.Get("/suppliers", catalogController.GetSuppliers)
	api.Get("/carriers", catalogController.GetCarriers)
}
