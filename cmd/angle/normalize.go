package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"angleYield/internal/angle"
	"angleYield/internal/config"
	"angleYield/internal/model"
	"angleYield/internal/storage"
)

func runNormalize(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadNormalize(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.In == "" {
		return fmt.Errorf("input path is required")
	}

	logger.Info("normalize start", zap.String("in", cfg.In), zap.String("out", cfg.Out))

	raw, err := readSnapshot(cfg.In)
	if err != nil {
		return err
	}

	pools, _, err := angle.NewNormalizer(logger).Normalize(raw)
	if err != nil {
		return err
	}

	return storage.NewJsonlStorage(cfg.Out, false).PutPools(context.Background(), pools)
}

func readSnapshot(path string) (map[string]model.IncentiveRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var raw map[string]model.IncentiveRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}
	return raw, nil
}
