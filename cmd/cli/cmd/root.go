// Package cmd provides the CLI commands for cloud-quote.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cloud-quote/adapters/catalog/postgres"
	"cloud-quote/adapters/hclfile"
	"cloud-quote/core/catalog"
	"cloud-quote/core/engine"
	"cloud-quote/internal/config"
	"cloud-quote/internal/logging"
)

// Version is set at build time
var Version = "0.1.0"

var (
	cfgFile     string
	verbose     bool
	catalogPath string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cloud-quote",
	Short: "Resolve cloud offers and quote their cost",
	Long: `cloud-quote matches abstract compute, storage, database, function and
container requirements against a price catalog and returns the cheapest
(or lowest-carbon) eligible offer with its floating cost range.

Examples:
  cloud-quote lookup --category instance --cpu 2 --ram 8 --location us-east-1
  cloud-quote quote ./shop.hcl --format markdown
  cloud-quote serve --addr :8080`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cloud-quote/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "catalog file or directory, overrides the configured source")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
}

func initConfig() {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if catalogPath != "" {
		cfg.Catalog.Source = config.SourceFile
		cfg.Catalog.Path = catalogPath
	}
	config.Set(cfg)

	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// openSource opens the configured catalog source. The returned func releases it.
func openSource(ctx context.Context, cfg *config.Config) (catalog.Source, func(), error) {
	switch cfg.Catalog.Source {
	case config.SourcePostgres:
		pool, err := postgres.Connect(ctx, cfg.Catalog.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewSource(pool), pool.Close, nil
	default:
		c, err := hclfile.NewLoader().LoadCatalog(cfg.Catalog.Path)
		if err != nil {
			return nil, nil, err
		}
		return c, func() {}, nil
	}
}

// newEngine opens the catalog and builds an engine over it
func newEngine(ctx context.Context, cfg *config.Config) (*engine.Engine, func(), error) {
	source, closeFn, err := openSource(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return engine.New(source, cfg.EngineConfig()), closeFn, nil
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cloud-quote version %s\n", Version)
	},
}

// configCmd manages configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// configInitCmd writes the effective configuration
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}
		if err := config.Get().Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
		return nil
	},
}
