// Command moneybot proposes rebalancing trades for crypto fund portfolios.
// Portfolios are defined in a YAML file; see config.Config for the fields.
//
// Usage:
//
//	moneybot trades --config config.yaml
//	moneybot trades --config config.yaml --every 1h
//	moneybot signals --config config.yaml
//
// Only public market data endpoints are used, no API keys are required.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jb68/moneybot/config"
	"github.com/jb68/moneybot/internal"
	"github.com/jb68/moneybot/internal/report"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	configPath string
	dev        bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "moneybot",
		Short:        "Propose trades that keep crypto portfolios balanced",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config.yaml", "path to yaml config")
	root.PersistentFlags().BoolVar(&opts.dev, "dev", false, "human readable debug logging")

	root.AddCommand(newTradesCmd(opts), newSignalsCmd(opts))
	return root
}

func newTradesCmd(opts *options) *cobra.Command {
	var every time.Duration

	cmd := &cobra.Command{
		Use:   "trades",
		Short: "Run one decision cycle per portfolio and print the proposed trades",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			runner, logger, err := setup(ctx, opts)
			if err != nil {
				return err
			}
			defer logger.Sync()

			run := func() error {
				cycles, err := runner.Run(ctx)
				if err != nil {
					return err
				}
				return report.Cycles(cmd.OutOrStdout(), cycles)
			}

			if err := run(); err != nil || every <= 0 {
				return err
			}

			ticker := time.NewTicker(every)
			defer ticker.Stop()

			logger.Info("starting decision loop", zap.Duration("interval", every))
			for {
				select {
				case <-ctx.Done():
					logger.Info("context done, stopping decision loop")
					return nil
				case <-ticker.C:
					if err := run(); err != nil {
						logger.Error("decision cycle failed", zap.Error(err))
					}
				}
			}
		},
	}
	cmd.Flags().DurationVar(&every, "every", 0, "repeat the decision cycle at this interval, 0 runs once")

	return cmd
}

func newSignalsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "signals",
		Short: "Print buffed and momentum readings of held coins",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			runner, logger, err := setup(ctx, opts)
			if err != nil {
				return err
			}
			defer logger.Sync()

			reports, err := runner.Signals(ctx)
			if err != nil {
				return err
			}
			return report.Signals(cmd.OutOrStdout(), reports)
		},
	}
}

func setup(ctx context.Context, opts *options) (*internal.FundRunner, *zap.Logger, error) {
	logger, err := newLogger(opts.dev)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create logger")
	}

	configs, err := config.Get(opts.configPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get configuration")
	}

	portfolios, err := internal.NewPortfolios(ctx, configs)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("portfolios loaded", zap.Int("count", len(portfolios)), zap.String("config", opts.configPath))
	return internal.NewFundRunner(logger, portfolios), logger, nil
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
