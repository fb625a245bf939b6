package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/shaibs3/ncnews/internal/config"
	"github.com/shaibs3/ncnews/internal/logger"
	"github.com/shaibs3/ncnews/internal/seed"
	"github.com/shaibs3/ncnews/internal/store/shared"
	"go.uber.org/zap"
)

// Recreates the Postgres schema named by DB_CONFIG and loads the fixture set.
func main() {
	initialLogger, err := logger.NewLogger("production", "info")
	if err != nil {
		log.Fatal("failed to initialize logger:", err)
	}
	cfg := config.Load(initialLogger)

	appLogger, err := logger.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		initialLogger.Fatal("failed to create application logger", zap.Error(err))
	}
	defer func() {
		_ = appLogger.Sync()
	}()

	var dbConfig shared.DbProviderConfig
	if err := json.Unmarshal([]byte(cfg.DBConfig), &dbConfig); err != nil {
		appLogger.Fatal("failed to parse DB_CONFIG", zap.Error(err))
	}
	if dbConfig.DbType != shared.DbTypePostgres {
		appLogger.Fatal("seeding requires a postgres DB_CONFIG", zap.String("db_type", dbConfig.DbType.String()))
	}
	connStr, err := dbConfig.String("conn_str")
	if err != nil {
		appLogger.Fatal("invalid DB_CONFIG", zap.Error(err))
	}

	data, err := seed.Load()
	if err != nil {
		appLogger.Fatal("failed to load fixture data", zap.Error(err))
	}

	seeder, err := seed.Open(connStr, appLogger)
	if err != nil {
		appLogger.Fatal("failed to connect", zap.Error(err))
	}
	defer func() {
		_ = seeder.Close()
	}()

	if err := seeder.Seed(context.Background(), data); err != nil {
		appLogger.Fatal("failed to seed database", zap.Error(err))
	}
	appLogger.Info("database seeded",
		zap.Int("topics", len(data.Topics)),
		zap.Int("users", len(data.Users)),
		zap.Int("articles", len(data.Articles)),
		zap.Int("comments", len(data.Comments)),
	)
}
