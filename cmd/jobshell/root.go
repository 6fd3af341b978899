package main

import (
	"context"
	"fmt"
	"net"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"jobshell/internal/config"
	"jobshell/internal/log"
	"jobshell/internal/metrics"
	"jobshell/internal/shell"
)

type flags struct {
	configPath  string
	verbose     bool
	noPrompt    bool
	metricsAddr string
	maxJobs     int
}

func newRootCmd() *cobra.Command {
	return rootCmd(&flags{})
}

func rootCmd(f *flags) *cobra.Command {
	c := &cobra.Command{
		Use:           "jobshell",
		Short:         "Interactive shell with job control",
		Example:       "jobshell -v\njobshell -p < commands.txt",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	c.Flags().StringVar(&f.configPath, "config", "", "Config file to load (default $HOME/"+config.DefaultFileName+")")
	c.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Print additional diagnostic information")
	c.Flags().BoolVarP(&f.noPrompt, "no-prompt", "p", false, "Do not emit a command prompt")
	c.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "Address to serve Prometheus metrics on, disabled when empty")
	c.Flags().IntVar(&f.maxJobs, "max-jobs", 0, "Maximum number of tracked jobs")

	return c
}

// loadConfig reads the config file and applies the flags that were set on
// the command line over it.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	path := f.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	fs := cmd.Flags()
	if fs.Changed("verbose") {
		cfg.Verbose = f.verbose
	}
	if fs.Changed("no-prompt") {
		cfg.NoPrompt = f.noPrompt
	}
	if fs.Changed("metrics-addr") {
		cfg.MetricsAddr = f.metricsAddr
	}
	if fs.Changed("max-jobs") {
		if f.maxJobs < 1 {
			return nil, fmt.Errorf("max-jobs must be positive, got %d", f.maxJobs)
		}
		cfg.MaxJobs = f.maxJobs
	}

	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := log.New(cfg.Verbose)
	collector := metrics.NewCollector()

	sh, err := shell.New(cfg, logger, collector)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.MetricsAddr != "" {
		l, err := net.Listen("tcp", cfg.MetricsAddr)
		if err != nil {
			return fmt.Errorf("listen for metrics: %w", err)
		}
		logger.Info("serving metrics", "addr", l.Addr().String())

		g.Go(func() error {
			return collector.Serve(gctx, l)
		})
	}

	g.Go(func() error {
		defer cancel()
		return sh.Run(gctx)
	})

	return g.Wait()
}
