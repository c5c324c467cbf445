package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("PROCESSOR_API_KEY", "pk_test")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "dispute_service", cfg.Database.Database)
	assert.Equal(t, 10*time.Second, cfg.Processor.Timeout)
	assert.Equal(t, "local", cfg.Secrets.Backend)
	assert.Nil(t, cfg.Ops.AlertRecipient)
}

func TestLoadFromEnv_RequiredFields(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("PROCESSOR_API_KEY", "pk_test")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}

func TestLoadFromEnv_InvalidOpsRecipient(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("PROCESSOR_API_KEY", "pk_test")
	t.Setenv("OPS_ALERT_RECIPIENT", "not-a-uuid")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPS_ALERT_RECIPIENT")
}

func TestConnectionString(t *testing.T) {
	c := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "disputes",
		Password: "pw",
		Database: "dispute_service",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=disputes password=pw dbname=dispute_service sslmode=require",
		c.ConnectionString(),
	)
}
