// Package cmd - catalog commands
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"cloud-quote/adapters/catalog/postgres"
	"cloud-quote/adapters/hclfile"
	"cloud-quote/core/output"
	"cloud-quote/internal/config"
	"cloud-quote/internal/errors"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Catalog management",
}

var catalogStatsCmd = &cobra.Command{
	Use:   "stats [path]",
	Short: "Validate a catalog file and summarize its entries",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCatalogStats,
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Load a catalog file into PostgreSQL",
	Long: `Validate a catalog file or directory and upsert its entries into the
configured PostgreSQL database, creating the table when missing.

Examples:
  CLOUD_QUOTE_DATABASE_URL=postgres://quote@localhost/catalog cloud-quote catalog import ./catalog`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogImport,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogStatsCmd)
	catalogCmd.AddCommand(catalogImportCmd)
}

func runCatalogStats(cmd *cobra.Command, args []string) error {
	path := config.Get().Catalog.Path
	if len(args) > 0 {
		path = args[0]
	}

	c, err := hclfile.NewLoader().LoadCatalog(path)
	if err != nil {
		return err
	}
	output.NewTableFormatter(false).RenderStats(cmd.OutOrStdout(), c.Stats(), c.Locations())
	return nil
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if cfg.Catalog.DatabaseURL == "" {
		return errors.Config("catalog import requires a database url ("+config.EnvDatabaseURL+")", nil)
	}

	c, err := hclfile.NewLoader().LoadCatalog(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	pool, err := postgres.Connect(ctx, cfg.Catalog.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	source := postgres.NewSource(pool)
	if err := source.Migrate(ctx); err != nil {
		return err
	}
	if err := source.Put(ctx, c.All()...); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries\n", c.Len())
	return nil
}
