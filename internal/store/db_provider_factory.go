package store

import (
	"encoding/json"
	"fmt"

	"github.com/shaibs3/ncnews/internal/seed"
	"github.com/shaibs3/ncnews/internal/store/postgres"
	"github.com/shaibs3/ncnews/internal/store/shared"
	"github.com/shaibs3/ncnews/internal/telemetry"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ProviderFactory defines the interface for creating database providers
type ProviderFactory interface {
	CreateProvider(configJSON string) (DbProvider, error)
}

// DbProviderFactory implements ProviderFactory for creating database providers
type DbProviderFactory struct {
	logger    *zap.Logger
	telemetry *telemetry.Telemetry
}

func NewDbProviderFactory(logger *zap.Logger, tel *telemetry.Telemetry) *DbProviderFactory {
	return &DbProviderFactory{
		logger:    logger.Named("factory"),
		telemetry: tel,
	}
}

func (f *DbProviderFactory) CreateProvider(configJSON string) (DbProvider, error) {
	var config shared.DbProviderConfig
	if err := json.Unmarshal([]byte(configJSON), &config); err != nil {
		return nil, fmt.Errorf("failed to parse database configuration JSON: %w", err)
	}

	// extra_details may carry credentials, only the type is logged
	f.logger.Info("creating database provider", zap.String("db_type", config.DbType.String()))

	if !config.DbType.IsValid() {
		return nil, fmt.Errorf("unsupported database type: %s", config.DbType)
	}

	var meter metric.Meter
	if f.telemetry != nil {
		meter = f.telemetry.Meter
	}

	switch config.DbType {
	case shared.DbTypePostgres:
		return postgres.NewPostgresProvider(config, f.logger, meter)
	case shared.DbTypeMemory:
		provider := NewInMemoryProvider()
		if config.Bool("seed") {
			d, err := seed.Load()
			if err != nil {
				return nil, fmt.Errorf("failed to load seed data: %w", err)
			}
			provider.Load(d.Topics, d.Users, d.ArticleRows(), d.CommentRows())
			f.logger.Info("in-memory provider seeded",
				zap.Int("articles", len(d.Articles)), zap.Int("comments", len(d.Comments)))
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", config.DbType)
	}
}
