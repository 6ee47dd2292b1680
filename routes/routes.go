package routes

import (
	"fulfillment-wms/config"
	"fulfillment-wms/controllers"

	"github.com/gofiber/fiber/v2"
)

func SetupWarehouseRoutes(app *fiber.App, controller *controllers.WarehouseController) {
	api := app.Group(config.MAIN_ROUTES + "/warehouses")
	api.Get("/", controller.GetAllWarehouses)
	api.Post("/", controller.CreateWarehouse)
	api.Post("/bins/:bin/release", controller.ReleaseSpace)
	api.Get("/:id", controller.GetWarehouseByID)
	api.Post("/:id/bins", controller.CreateBin)
	api.Post("/:id/reserve", controller.ReserveSpace)
}

func SetupHistoryRoutes(app *fiber.App, controller *controllers.HistoryController) {
	api := app.Group(config.MAIN_ROUTES + "/history")
	api.Get("/", controller.GetRecentHistory)
	api.Get("/:ref", controller.GetHistoryByRefNo)
}
