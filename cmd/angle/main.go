package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"angleYield/internal/angle"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "angle",
		Short:        "Angle incentives yield adapter",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	apyCmd := &cobra.Command{
		Use:   "apy",
		Short: "Fetch incentives and publish normalized pools",
		RunE:  runAPY,
	}

	apyCmd.Flags().String("endpoint", angle.IncentivesEndpoint, "incentives API URL")
	apyCmd.Flags().Duration("timeout", 30*time.Second, "HTTP request timeout")
	apyCmd.Flags().Int("max-retries", 0, "HTTP retry attempts on transport errors")
	apyCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	apyCmd.Flags().String("out", "-", "output pools JSONL path, - for stdout")
	apyCmd.Flags().Bool("append", false, "append to the output file instead of replacing it")
	apyCmd.Flags().String("pg-dsn", "", "optional Postgres DSN to upsert pools into")
	apyCmd.Flags().String("state-name", angle.Project, "adapter_state row name")
	apyCmd.Flags().String("state-file", "", "optional local state file for the last successful run")
	apyCmd.Flags().String("metrics-file", "", "optional Prometheus textfile output path")
	apyCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(apyCmd)

	normalizeCmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize a saved incentives snapshot",
		RunE:  runNormalize,
	}

	normalizeCmd.Flags().String("in", "", "input incentives JSON (as served by the API)")
	normalizeCmd.Flags().String("out", "-", "output pools JSONL path, - for stdout")
	normalizeCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(normalizeCmd)

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Print adapter metadata",
		RunE: func(cmd *cobra.Command, _ []string) error {
			adapter := angle.NewAdapter(nil, nil)
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "project: %s\nurl: %s\ntimetravel: %t\n",
				angle.Project, adapter.URL, adapter.Timetravel)
			return err
		},
	}

	root.AddCommand(infoCmd)

	return root
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
