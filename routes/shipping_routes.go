package routes

import (
	"fulfillment-wms/config"
	"fulfillment-wms/controllers"

	"github.com/gofiber/fiber/v2"
)

func SetupShippingRoutes(app *fiber.App, shippingController *controllers.ShippingController) {
	packages := app.Group(config.MAIN_ROUTES + "/packages")
	packages.Post("/", shippingController.CreatePackage)
	packages.Get("/", shippingController.GetAllPackages)
	packages.Get("/ready/:carrier", shippingController.GetReadyPackages)
	packages.Get("/:id", shippingController.GetPackageByID)
	packages.Post("/:id/verify", shippingController.VerifyPackage)
	packages.Post("/:id/label", shippingController.GenerateLabel)
	packages.Post("/:id/labeled", shippingController.MarkLabeled)

	app.Get(config.MAIN_ROUTES+"/labels/:id", shippingController.GetLabelByID)

	manifests := app.Group(config.MAIN_ROUTES + "/manifests")
	manifests.Post("/", shippingController.CreateManifest)
	manifests.Get("/", shippingController.GetAllManifests)
	manifests.Get("/:id", shippingController.GetManifestByID)
	manifests.Get("/:id/export", shippingController.ExportManifest)
	manifests.Post("/:id/pickup", shippingController.RecordPickup)
}
