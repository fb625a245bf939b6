package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shaibs3/ncnews/internal/store/shared"
	"go.uber.org/zap"
)

// Config holds the service configuration read from the environment.
type Config struct {
	Environment     string
	LogLevel        string
	Port            string
	DBConfig        string
	RPSLimit        float64
	RPSBurst        int
	ShutdownTimeout time.Duration
}

// DefaultDBConfig selects the in-memory provider loaded with the fixture data.
var DefaultDBConfig = mustJSON(shared.DbProviderConfig{
	DbType:       shared.DbTypeMemory,
	ExtraDetails: map[string]interface{}{"seed": true},
})

// Load reads an optional .env file and then the process environment.
func Load(logger *zap.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file loaded, using process environment", zap.Error(err))
	}

	l := &loader{logger: logger}
	cfg := &Config{
		Environment:     l.str("ENVIRONMENT", "development"),
		LogLevel:        l.str("LOG_LEVEL", "info"),
		Port:            l.str("PORT", "8080"),
		DBConfig:        l.str("DB_CONFIG", DefaultDBConfig),
		RPSLimit:        l.float("RPS_LIMIT", 100),
		RPSBurst:        l.int("RPS_BURST", 200),
		ShutdownTimeout: l.duration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}

	logger.Info("configuration loaded",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
		zap.String("port", cfg.Port),
		zap.Float64("rps_limit", cfg.RPSLimit),
		zap.Int("rps_burst", cfg.RPSBurst),
	)
	return cfg
}

type loader struct {
	logger *zap.Logger
}

func (l *loader) str(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (l *loader) int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		l.logger.Warn("invalid integer, using default", zap.String("key", key), zap.String("value", v), zap.Int("default", def))
		return def
	}
	return n
}

func (l *loader) float(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		l.logger.Warn("invalid number, using default", zap.String("key", key), zap.String("value", v), zap.Float64("default", def))
		return def
	}
	return f
}

func (l *loader) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		l.logger.Warn("invalid duration, using default", zap.String("key", key), zap.String("value", v), zap.Duration("default", def))
		return def
	}
	return d
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
