package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"angleYield/internal/angle"
	"angleYield/internal/config"
	"angleYield/internal/metrics"
	"angleYield/internal/model"
	"angleYield/internal/provider"
	"angleYield/internal/storage"
	"angleYield/internal/storage/postgres"
)

func runAPY(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadAPY(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := provider.NewClient(provider.Config{
		Endpoint:     cfg.Endpoint,
		Timeout:      cfg.Timeout,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, logger)
	adapter := angle.NewAdapter(client, logger)
	runMetrics := metrics.New()

	logger.Info("apy start",
		zap.String("endpoint", cfg.Endpoint),
		zap.Duration("timeout", cfg.Timeout),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.String("out", cfg.Out),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.String("metrics_file", cfg.MetricsFile),
	)

	runErr := publish(ctx, cfg, adapter, runMetrics, logger)
	if runErr != nil {
		runMetrics.MarkFailure()
	}
	if err := runMetrics.WriteTextfile(cfg.MetricsFile); err != nil {
		logger.Warn("metrics textfile", zap.Error(err))
	}
	return runErr
}

func publish(ctx context.Context, cfg config.APYConfig, adapter *angle.Adapter, runMetrics *metrics.Metrics, logger *zap.Logger) error {
	start := time.Now()
	pools, stats, err := adapter.Collect(ctx)
	if err != nil {
		return err
	}
	runMetrics.Observe(stats, time.Since(start))

	sinks := []storage.Sink{storage.NewJsonlStorage(cfg.Out, cfg.Append)}

	var store *postgres.Store
	if cfg.PGDSN != "" {
		store, err = postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()

		if err := store.Migrate(ctx); err != nil {
			return err
		}
		sinks = append(sinks, store)
	}

	stateStore := newStateStore(cfg, store)
	if stateStore != nil {
		prev, ok, err := stateStore.Load(ctx)
		if err != nil {
			return fmt.Errorf("load run state: %w", err)
		}
		if ok {
			logger.Info("previous run", zap.Time("last_run_at", prev.LastRunAt), zap.Int("pools", prev.PoolCount))
		}
	}

	if err := putAll(ctx, sinks, pools); err != nil {
		return err
	}

	finishedAt := time.Now().UTC()
	if stateStore != nil {
		if err := stateStore.Save(ctx, storage.RunState{LastRunAt: finishedAt, PoolCount: len(pools)}); err != nil {
			return fmt.Errorf("save run state: %w", err)
		}
	}
	runMetrics.MarkSuccess(finishedAt)

	logger.Info("apy complete",
		zap.Int("pools", len(pools)),
		zap.Int("deprecated", stats.Deprecated),
		zap.Int("unknown_chain", stats.UnknownChain),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func newStateStore(cfg config.APYConfig, store *postgres.Store) storage.StateStore {
	if cfg.StateFile != "" {
		return &storage.FileStateStore{Path: cfg.StateFile}
	}
	if store != nil {
		return &postgres.DBStateStore{Store: store, Name: cfg.StateName}
	}
	return nil
}

func putAll(ctx context.Context, sinks []storage.Sink, pools []model.Pool) error {
	for _, sink := range sinks {
		if err := sink.PutPools(ctx, pools); err != nil {
			return fmt.Errorf("store pools: %w", err)
		}
	}
	return nil
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
