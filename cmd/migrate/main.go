package main

import (
	"flag"

	"github.com/retailcore/backend/internal/infrastructure/config"
	"github.com/retailcore/backend/internal/infrastructure/logger"
	"github.com/retailcore/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	cfg.Log.Level = logLevel

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	db, err := persistence.NewDatabase(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	log.Info("Running schema migration",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	if err := persistence.AutoMigrate(db.DB); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
	log.Info("Migration complete")
}
