// Package cmd - quote command
package cmd

import (
	"github.com/spf13/cobra"

	"cloud-quote/adapters/hclfile"
	"cloud-quote/adapters/profile"
	"cloud-quote/internal/config"
	"cloud-quote/internal/logging"
)

var (
	quoteFormat string
	quoteSave   bool
)

// quoteCmd recomputes a quote file
var quoteCmd = &cobra.Command{
	Use:   "quote <file.hcl>",
	Short: "Resolve every resource of a quote file",
	Long: `Resolve every resource of a quote file, expand the floating cost range
and consume the budgets in resource order.

Examples:
  cloud-quote quote ./shop.hcl
  cloud-quote quote ./shop.hcl --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().StringVarP(&quoteFormat, "format", "f", "", "output format (table, markdown, json)")
	quoteCmd.Flags().BoolVar(&quoteSave, "save", false, "record the result in the quote history")
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	file, err := hclfile.NewLoader().LoadQuote(args[0], profile.NewStore())
	if err != nil {
		return err
	}
	quote := file.Quote
	if quote.CurrencyRate.IsZero() {
		quote.CurrencyRate = cfg.Engine.CurrencyRate
	}

	eng, closeFn, err := newEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := eng.Recompute(cmd.Context(), quote)
	if err != nil {
		return err
	}
	for _, r := range result.Resources {
		if r.Err != nil {
			logging.Warn(r.Err.Error(), logging.Resource(r.Resource.Name))
		}
	}

	if quoteSave {
		if err := saveSnapshot(cmd.Context(), cfg, result); err != nil {
			return err
		}
	}

	formatter, err := formatterFor(cfg, quoteFormat, 0)
	if err != nil {
		return err
	}
	return formatter.RenderQuote(cmd.OutOrStdout(), result)
}
