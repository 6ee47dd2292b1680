package routes

import (
	"fulfillment-wms/config"
	"fulfillment-wms/controllers"

	"github.com/gofiber/fiber/v2"
)

func SetupProcurementRoutes(app *fiber.App, controller *controllers.ProcurementController) {
	req := app.Group(config.MAIN_ROUTES + "/requisitions")
	req.Post("/", controller.CreateRequisition)
	req.Get("/", controller.GetRequisitions)
	req.Get("/:id", controller.GetRequisitionByID)
	req.Post("/:id/approve", controller.ApproveRequisition)
	req.Post("/:id/reject", controller.RejectRequisition)
	req.Post("/:id/purchase-order", controller.CreatePurchaseOrder)

	po := app.Group(config.MAIN_ROUTES + "/purchase-orders")
	po.Get("/", controller.GetPurchaseOrders)
	po.Get("/:id", controller.GetPurchaseOrderByID)
}
