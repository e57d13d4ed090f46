// Package cli is the formulastats command line.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"formulastats/pkg/config"
	"formulastats/pkg/dashboard"
	"formulastats/pkg/model"
	"formulastats/pkg/pubsub"
	"formulastats/pkg/scrape"
	"formulastats/pkg/store"

	"github.com/spf13/cobra"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

type rootOptions struct {
	configPath string
	dataDir    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "formulastats",
		Short:         "Formula 1 session charts and statistics",
		Long:          "Draws lap time, pace, weather and track charts from a local data directory and serves them over HTTP and Telegram.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "session data directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newBotCmd(opts))
	rootCmd.AddCommand(newScrapeCmd(opts))
	rootCmd.AddCommand(newSeedCmd(opts))
	rootCmd.AddCommand(newScheduleCmd(opts))
	rootCmd.AddCommand(newPaceCmd(opts))
	rootCmd.AddCommand(newRecordsCmd(opts))
	rootCmd.AddCommand(newChartCmd(opts))

	return rootCmd
}

// load resolves the configuration with flag > env > file > default
// precedence and builds the logger.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = o.dataDir
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	for _, w := range cfg.Warnings {
		logger.Warn("config", "warning", w)
	}
	return cfg, logger, nil
}

// services is what every command shares: the data store, the roster cache
// and the dashboard on top of them.
type services struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store
	cache  *scrape.Cache
	svc    *dashboard.Service
	events *pubsub.PubSub[model.RosterRefreshed]
}

func (o *rootOptions) services(cmd *cobra.Command) (*services, error) {
	cfg, logger, err := o.load(cmd)
	if err != nil {
		return nil, err
	}
	st := store.New(cfg.DataDir, logger)
	cache := scrape.NewCache(cfg.DataDir, scrape.NewScraper(logger), logger)
	events := pubsub.NewPubSub[model.RosterRefreshed](4, logger)
	cache.PublishTo(events, pubsub.TopicRosterRefreshed)
	return &services{
		cfg:    cfg,
		logger: logger,
		store:  st,
		cache:  cache,
		svc:    dashboard.NewService(st, cache, cfg.DashboardOptions(), logger),
		events: events,
	}, nil
}
