package routes

import (
	"fulfillment-wms/config"
	"fulfillment-wms/controllers"

	"github.com/gofiber/fiber/v2"
)

func SetupOutboundRoutes(app *fiber.App, orderController *controllers.OrderController) {
	orders := app.Group(config.MAIN_ROUTES + "/orders")
	orders.Post("/", orderController.CreateOrder)
	orders.Get("/", orderController.GetAllOrders)
	orders.Get("/:id", orderController.GetOrderByID)
	orders.Post("/:id/process", orderController.StartProcessing)
	orders.Post("/:id/pick-list", orderController.CreatePickList)

	pickLists := app.Group(config.MAIN_ROUTES + "/pick-lists")
	pickLists.Get("/", orderController.GetAllPickLists)
	pickLists.Get("/:id", orderController.GetPickListByID)
	pickLists.Post("/:id/assign", orderController.AssignPickList)
	pickLists.Post("/:id/items", orderController.RecordPickedItem)
	pickLists.Post("/:id/complete", orderController.CompletePickList)

	pickers := app.Group(config.MAIN_ROUTES + "/pickers")
	pickers.Post("/", orderController.RegisterPicker)
	pickers.Get("/available", orderController.GetAvailablePickers)
}
