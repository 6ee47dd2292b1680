package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

var (
	MAIN_ROUTES string
	APP_PORT    string
	ServiceName string
	LogLevel    string

	IDStrategy string
	IDNode     int64

	// DBDriver "none" keeps the event history in the log only.
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	KafkaBroker string
	KafkaTopic  string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	CatalogFile  string
	SeedDemo     bool
	BinHeadroom  int
	EventBuffer  int
	DeliveryAddr string

	allowedOrigins map[string]bool
)

// LoadConfig reads .env (when present) and the environment.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Server
	MAIN_ROUTES = getEnv("MAIN_ROUTES", "/api/v1")
	APP_PORT = getEnv("APP_PORT", "9000")
	ServiceName = getEnv("SERVICE_NAME", "fulfillment-wms")
	LogLevel = getEnv("LOG_LEVEL", "info")

	// Identifiers
	IDStrategy = getEnv("ID_STRATEGY", "snowflake")
	IDNode = int64(getEnvAsInt("ID_NODE", 1))

	// Event history database
	DBDriver = strings.ToLower(getEnv("DB_DRIVER", "none"))
	DBHost = getEnv("DB_HOST", "localhost")
	DBPort = getEnv("DB_PORT", "5432")
	DBUser = getEnv("DB_USER", "postgres")
	DBPassword = getEnv("DB_PASSWORD", "")
	DBName = getEnv("DB_NAME", "fulfillment_wms")

	// Event stream
	KafkaBroker = getEnv("KAFKA_BROKER", "")
	KafkaTopic = getEnv("KAFKA_TOPIC", "wms.events")

	// Carrier mail
	SMTPHost = getEnv("SMTP_HOST", "")
	SMTPPort = getEnvAsInt("SMTP_PORT", 587)
	SMTPUser = getEnv("SMTP_USER", "")
	SMTPPassword = getEnv("SMTP_PASSWORD", "")
	SMTPFrom = getEnv("SMTP_FROM", SMTPUser)

	// Domain
	CatalogFile = getEnv("CATALOG_FILE", "")
	SeedDemo = getEnvAsBool("SEED_DEMO", true)
	BinHeadroom = getEnvAsInt("BIN_HEADROOM", 50)
	EventBuffer = getEnvAsInt("EVENT_BUFFER", 1024)
	DeliveryAddr = getEnv("PROCUREMENT_DELIVERY_ADDRESS", "123 Supply Chain St")

	loadAllowedOrigins()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func loadAllowedOrigins() {
	allowedOrigins = make(map[string]bool)
	originsStr := getEnv("ALLOWED_ORIGINS", "")

	if originsStr == "" {
		allowedOrigins = map[string]bool{
			"http://127.0.0.1:3000": true,
		}
		return
	}

	for _, origin := range strings.Split(originsStr, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}
}

func SetupCORS(app *fiber.App) {
	app.Use(func(c *fiber.Ctx) error {
		origin := c.Get("Origin")
		if allowedOrigins[origin] {
			c.Set("Access-Control-Allow-Origin", origin)
			c.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			c.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
			c.Set("Access-Control-Allow-Credentials", "true")
		}

		// preflight
		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	})
}
