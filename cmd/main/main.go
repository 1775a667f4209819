package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"catalog/harvester/internal/config"
	"catalog/harvester/internal/container"
	"catalog/harvester/internal/logging"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Application exited with error: %v", err)
	}
}

type options struct {
	configPath  string
	maxProducts int
	outputDir   string
	concurrency int
}

func newRootCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "harvester",
		Short:         "Harvest product records and assets from the catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags(), opts)
			if err != nil {
				return err
			}

			if err := logging.Setup(cfg.Log); err != nil {
				return err
			}
			log.Info("Configuration loaded successfully")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to the YAML config file (default ./config.yaml)")
	cmd.Flags().IntVar(&opts.maxProducts, "max-products", 0, "maximum number of products to harvest")
	cmd.Flags().StringVar(&opts.outputDir, "output", "", "directory for product records; assets go to <output>/assets")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "parallel fetches and products (0 = unbounded)")

	return cmd
}

// loadConfig reads the config file and applies the flags that were set.
func loadConfig(flags *pflag.FlagSet, opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	if flags.Changed("max-products") {
		cfg.Harvest.MaxProducts = opts.maxProducts
	}
	if flags.Changed("output") {
		cfg.Output.Dir = opts.outputDir
		cfg.Output.AssetsDir = filepath.Join(opts.outputDir, "assets")
	}
	if flags.Changed("concurrency") {
		cfg.Harvest.Concurrency = opts.concurrency
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	log.Info("Starting catalog harvester...")

	app, err := container.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	summary, err := app.Run(ctx)
	if err != nil {
		return err
	}

	log.Infof("Application finished successfully (run %s)", summary.RunID)
	return nil
}
