package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/light-bringer/feliz-storefront/internal/config"
	"github.com/light-bringer/feliz-storefront/internal/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return newRootCmd().ExecuteContext(context.Background())
}

// cli carries the persistent flags shared by every subcommand.
type cli struct {
	configPath string
	dev        bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Feliz Navidad storefront server and maintenance tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "optional config file (env vars override it)")
	root.PersistentFlags().BoolVar(&c.dev, "dev", false, "human readable console logging")

	root.AddCommand(
		newServeCmd(c),
		newOutboxCmd(c),
		newQueriesCmd(),
	)
	return root
}

// setup reads the configuration, runs validate on it and builds the logger.
func (c *cli) setup(validate func(*config.Config) error) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Read(c.configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel, c.dev || cfg.LogDevelopment)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
