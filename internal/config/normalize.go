package config

import "github.com/spf13/pflag"

// NormalizeConfig holds configuration for the offline normalize command.
type NormalizeConfig struct {
	In       string
	Out      string
	LogLevel string
}

// LoadNormalize merges config file, environment variables, and flags into NormalizeConfig.
func LoadNormalize(cfgFile string, flags *pflag.FlagSet) (NormalizeConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"out":       "-",
		"log-level": "info",
	})
	if err != nil {
		return NormalizeConfig{}, err
	}

	return NormalizeConfig{
		In:       v.GetString("in"),
		Out:      v.GetString("out"),
		LogLevel: v.GetString("log-level"),
	}, nil
}
