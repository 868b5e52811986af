package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"angleYield/internal/angle"
)

func apyFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("apy", pflag.ContinueOnError)
	fs.String("endpoint", angle.IncentivesEndpoint, "")
	fs.Duration("timeout", 30*time.Second, "")
	fs.Int("max-retries", 0, "")
	fs.String("out", "-", "")
	fs.String("pg-dsn", "", "")
	fs.String("metrics-file", "", "")
	fs.String("log-level", "info", "")
	return fs
}

func TestLoadAPYDefaults(t *testing.T) {
	cfg, err := LoadAPY("", nil)
	require.NoError(t, err)

	assert.Equal(t, angle.IncentivesEndpoint, cfg.Endpoint)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 0, cfg.MaxRetries)
	assert.Equal(t, "-", cfg.Out)
	assert.Equal(t, "angle", cfg.StateName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.PGDSN)
}

func TestLoadAPYFlagsAndEnv(t *testing.T) {
	t.Setenv("ANGLE_MAX_RETRIES", "3")
	t.Setenv("ANGLE_PG_DSN", "postgres://env")

	fs := apyFlags()
	require.NoError(t, fs.Parse([]string{"--endpoint", "http://localhost:8080/incentives", "--timeout", "5s"}))

	cfg, err := LoadAPY("", fs)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/incentives", cfg.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, "postgres://env", cfg.PGDSN)
}

func TestLoadAPYConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "angle.yaml")
	require.NoError(t, os.WriteFile(path, []byte("out: ./data/pools.jsonl\nmetrics-file: ./data/angle.prom\nlog-level: debug\n"), 0o644))

	cfg, err := LoadAPY(path, apyFlags())
	require.NoError(t, err)
	assert.Equal(t, "./data/pools.jsonl", cfg.Out)
	assert.Equal(t, "./data/angle.prom", cfg.MetricsFile)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadAPYMissingConfigFile(t *testing.T) {
	_, err := LoadAPY(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadNormalize(t *testing.T) {
	fs := pflag.NewFlagSet("normalize", pflag.ContinueOnError)
	fs.String("in", "", "")
	fs.String("out", "-", "")
	require.NoError(t, fs.Parse([]string{"--in", "raw.json"}))

	cfg, err := LoadNormalize("", fs)
	require.NoError(t, err)
	assert.Equal(t, "raw.json", cfg.In)
	assert.Equal(t, "-", cfg.Out)
	assert.Equal(t, "info", cfg.LogLevel)
}
