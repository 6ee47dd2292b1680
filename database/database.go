package database

import (
	"fmt"
	"fulfillment-wms/config"
	"fulfillment-wms/migration"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the event history database and migrates it. It returns
// (nil, nil) when DB_DRIVER is "none".
func Open(log *zap.Logger) (*gorm.DB, error) {
	if config.DBDriver == "" || config.DBDriver == "none" {
		log.Info("event history database disabled")
		return nil, nil
	}

	_, dialector, err := getDSNAndDialector(config.DBDriver, config.DBName)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", config.DBDriver, err)
	}
	if err := migration.Migrate(db); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	log.Info("connected to event history database",
		zap.String("driver", config.DBDriver),
		zap.String("host", config.DBHost),
		zap.String("database", config.DBName))
	return db, nil
}

func getDSNAndDialector(driver, dbName string) (string, gorm.Dialector, error) {
	switch driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			config.DBHost, config.DBUser, config.DBPassword, dbName, config.DBPort)
		return dsn, postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort, dbName)
		return dsn, mysql.Open(dsn), nil
	case "mssql":
		dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort, dbName)
		return dsn, sqlserver.Open(dsn), nil
	default:
		return "", nil, fmt.Errorf("unsupported DB_DRIVER: %s", driver)
	}
}
