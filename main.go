package main

import (
	"context"
	"fulfillment-wms/config"
	"fulfillment-wms/controllers"
	"fulfillment-wms/controllers/idgen"
	"fulfillment-wms/database"
	"fulfillment-wms/logger"
	"fulfillment-wms/messaging"
	"fulfillment-wms/middleware"
	"fulfillment-wms/notify"
	"fulfillment-wms/repositories"
	"fulfillment-wms/routes"
	seed "fulfillment-wms/seeder"
	"fulfillment-wms/services"
	"fulfillment-wms/wms/catalog"
	"fulfillment-wms/wms/dispatch"
	"fulfillment-wms/wms/events"
	"fulfillment-wms/wms/fulfillment"
	"fulfillment-wms/wms/inventory"
	"fulfillment-wms/wms/procurement"
	"fulfillment-wms/wms/storage"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()

	log := logger.New(config.ServiceName, config.LogLevel)
	defer log.Sync()

	if err := idgen.Init(config.IDNode); err != nil {
		log.Fatal("failed to init snowflake node", zap.Error(err))
	}
	ids, err := idgen.New(config.IDStrategy, config.IDNode)
	if err != nil {
		log.Fatal("failed to create id generator", zap.Error(err))
	}

	registry := catalog.NewRegistry()
	if config.CatalogFile != "" {
		if err := loadCatalog(config.CatalogFile, registry, log); err != nil {
			log.Fatal("failed to load catalog workbook", zap.String("file", config.CatalogFile), zap.Error(err))
		}
	}

	db, err := database.Open(log)
	if err != nil {
		log.Fatal("failed to open event history database", zap.Error(err))
	}

	var sinks []events.Sink
	var history controllers.HistoryReader
	if db != nil {
		repo := repositories.NewHistoryRepository(db)
		sinks = append(sinks, repo)
		history = repo
	}
	var kafkaPublisher *messaging.KafkaPublisher
	if config.KafkaBroker != "" {
		kafkaPublisher = messaging.NewKafkaPublisher(
			messaging.NewKafkaWriter(config.KafkaBroker, config.KafkaTopic), config.KafkaTopic)
		sinks = append(sinks, kafkaPublisher)
		log.Info("streaming events to kafka",
			zap.String("broker", config.KafkaBroker),
			zap.String("topic", config.KafkaTopic))
	}
	if config.SMTPHost != "" {
		dialer := notify.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword)
		sinks = append(sinks, notify.NewMailer(dialer, registry, config.SMTPFrom, log))
	}
	dispatcher := events.NewDispatcher(log, config.EventBuffer, sinks...)

	ledger := inventory.NewLedger(registry, dispatcher, log)
	allocator := storage.NewAllocator(ids, config.BinHeadroom, dispatcher, log)
	procurementEngine := procurement.NewEngine(registry, ids, dispatcher, log)
	fulfillmentEngine := fulfillment.NewEngine(ledger, registry, ids, dispatcher, log)
	coordinator := dispatch.NewCoordinator(fulfillmentEngine, registry, ids, dispatcher, log)

	putaway := services.NewPutawayService(allocator, ledger, log)
	replenishment := services.NewReplenishmentService(ledger, procurementEngine, "", log)

	if config.SeedDemo {
		err := seed.RunSeeders(seed.Deps{
			Registry:       registry,
			Allocator:      allocator,
			Putaway:        putaway,
			Fulfillment:    fulfillmentEngine,
			WarehouseAddr:  config.DeliveryAddr,
			IncludeCatalog: config.CatalogFile == "",
		}, log)
		if err != nil {
			log.Fatal("failed to seed demo data", zap.Error(err))
		}
	}

	controllers.SetLogger(log)
	app := fiber.New(fiber.Config{ErrorHandler: controllers.ErrorHandler})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))

	// Setup CORS middleware
	config.SetupCORS(app)

	routes.SetupCatalogRoutes(app, controllers.NewCatalogController(registry))
	routes.SetupInventoryRoutes(app, controllers.NewInventoryController(ledger, putaway, replenishment))
	routes.SetupWarehouseRoutes(app, controllers.NewWarehouseController(allocator))
	routes.SetupProcurementRoutes(app, controllers.NewProcurementController(procurementEngine, config.DeliveryAddr))
	routes.SetupOutboundRoutes(app, controllers.NewOrderController(fulfillmentEngine))
	routes.SetupShippingRoutes(app, controllers.NewShippingController(fulfillmentEngine, coordinator))
	routes.SetupHistoryRoutes(app, controllers.NewHistoryController(history))

	go func() {
		port := config.APP_PORT
		log.Info("server listening", zap.String("port", port))
		if err := app.Listen(":" + port); err != nil {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := dispatcher.Close(ctx); err != nil {
		log.Error("flushing events", zap.Error(err))
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			log.Error("closing kafka writer", zap.Error(err))
		}
	}
}

func loadCatalog(path string, registry *catalog.Registry, log *zap.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := catalog.LoadWorkbook(f, registry)
	if err != nil {
		return err
	}
	log.Info("catalog loaded",
		zap.Int("rows", result.TotalRows),
		zap.Int("imported", result.SuccessCount),
		zap.Int("skipped", result.SkippedCount),
		zap.Int("errors", result.ErrorCount))
	for _, msg := range result.ErrorMessages {
		log.Warn("catalog row rejected", zap.String("detail", msg))
	}
	return nil
}
