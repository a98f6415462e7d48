package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseURL string        `env:"TEST_CFG_URL" envDefault:"http://localhost:8000/api"`
	Timeout time.Duration `env:"TEST_CFG_TIMEOUT" envDefault:"30s"`
	Retries int           `env:"TEST_CFG_RETRIES" envDefault:"0"`
	Breaker bool          `env:"TEST_CFG_BREAKER" envDefault:"false"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "http://localhost:8000/api", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Zero(t, cfg.Retries)
	assert.False(t, cfg.Breaker)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_URL", "https://market.example.com/api")
	t.Setenv("TEST_CFG_TIMEOUT", "5s")
	t.Setenv("TEST_CFG_RETRIES", "2")
	t.Setenv("TEST_CFG_BREAKER", "true")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "https://market.example.com/api", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.Retries)
	assert.True(t, cfg.Breaker)
}

type requiredConfig struct {
	Token string `env:"TEST_CFG_TOKEN,required"`
}

func TestLoad_RequiredFieldMissing(t *testing.T) {
	var cfg requiredConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_InvalidType(t *testing.T) {
	t.Setenv("TEST_CFG_TIMEOUT", "soon")

	var cfg testConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadWithPrefix(t *testing.T) {
	t.Setenv("STAGING_TEST_CFG_URL", "https://staging.example.com/api")

	var cfg testConfig
	require.NoError(t, LoadWithPrefix(&cfg, "STAGING_"))
	assert.Equal(t, "https://staging.example.com/api", cfg.BaseURL)
}
