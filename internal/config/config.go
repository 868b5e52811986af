package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"angleYield/internal/angle"
)

// EnvPrefix is prepended to every environment override, e.g. ANGLE_PG_DSN.
const EnvPrefix = "ANGLE"

// APYConfig holds configuration for the apy command.
type APYConfig struct {
	Endpoint     string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	Out          string
	Append       bool
	PGDSN        string
	StateName    string
	StateFile    string
	MetricsFile  string
	LogLevel     string
}

// LoadAPY merges config file, environment variables, and flags into APYConfig.
func LoadAPY(cfgFile string, flags *pflag.FlagSet) (APYConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"endpoint":      angle.IncentivesEndpoint,
		"timeout":       30 * time.Second,
		"max-retries":   0,
		"retry-backoff": 500 * time.Millisecond,
		"out":           "-",
		"append":        false,
		"state-name":    angle.Project,
		"log-level":     "info",
	})
	if err != nil {
		return APYConfig{}, err
	}

	cfg := APYConfig{
		Endpoint:     v.GetString("endpoint"),
		Timeout:      v.GetDuration("timeout"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		Out:          v.GetString("out"),
		Append:       v.GetBool("append"),
		PGDSN:        v.GetString("pg-dsn"),
		StateName:    v.GetString("state-name"),
		StateFile:    v.GetString("state-file"),
		MetricsFile:  v.GetString("metrics-file"),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet, defaults map[string]interface{}) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}
