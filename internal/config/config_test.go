package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shaibs3/ncnews/internal/store/shared"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "LOG_LEVEL", "PORT", "DB_CONFIG", "RPS_LIMIT", "RPS_BURST", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg := Load(zap.NewNop())
	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, 100.0, cfg.RPSLimit)
	require.Equal(t, 200, cfg.RPSBurst)
	require.Equal(t, 30*time.Second, cfg.ShutdownTimeout)

	var dbCfg shared.DbProviderConfig
	require.NoError(t, json.Unmarshal([]byte(cfg.DBConfig), &dbCfg))
	require.Equal(t, shared.DbTypeMemory, dbCfg.DbType)
	require.True(t, dbCfg.Bool("seed"))
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("RPS_LIMIT", "5.5")
	t.Setenv("RPS_BURST", "not-a-number")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("DB_CONFIG", `{"db_type":"postgres","extra_details":{"conn_str":"postgres://localhost/nc_news"}}`)

	cfg := Load(zap.NewNop())
	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, 5.5, cfg.RPSLimit)
	require.Equal(t, 200, cfg.RPSBurst)
	require.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	require.Contains(t, cfg.DBConfig, "postgres://localhost/nc_news")
}
