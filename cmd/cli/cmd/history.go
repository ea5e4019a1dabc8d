// Package cmd - quote history commands
package cmd

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"cloud-quote/adapters/storage"
	"cloud-quote/core/types"
	"cloud-quote/internal/config"
	"cloud-quote/internal/errors"
	"cloud-quote/internal/logging"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history <quote-name>",
	Short: "List the recorded recomputes of a quote, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

var compareCmd = &cobra.Command{
	Use:   "compare <quote-name>",
	Short: "Compare the two newest recorded recomputes of a quote",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompare,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum snapshots listed")
	quoteCmd.AddCommand(historyCmd)
	quoteCmd.AddCommand(compareCmd)
}

func openHistory(cfg *config.Config) (storage.Store, error) {
	return storage.New(storage.Backend(cfg.History.Backend), cfg.History.Path)
}

// saveSnapshot records a file quote under its name, ids being regenerated on every load
func saveSnapshot(ctx context.Context, cfg *config.Config, result *types.QuoteResult) error {
	history, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer history.Close()

	snapshot := storage.NewSnapshot(result)
	snapshot.QuoteID = snapshot.QuoteName
	if err := history.Save(ctx, snapshot); err != nil {
		return err
	}
	logging.Info("snapshot recorded", logging.Quote(snapshot.QuoteID), logging.Entry(snapshot.ID))
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	history, err := openHistory(config.Get())
	if err != nil {
		return err
	}
	defer history.Close()

	snapshots, err := history.List(cmd.Context(), &storage.ListFilter{QuoteID: args[0], Limit: historyLimit})
	if err != nil {
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(cmd.OutOrStdout())
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("History of " + args[0])
	tw.AppendHeader(table.Row{"Snapshot", "Recorded", "Monthly min", "Monthly max", "Initial"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	for _, s := range snapshots {
		tw.AppendRow(table.Row{
			s.ID, s.CreatedAt.Format("2006-01-02 15:04"),
			s.Total.Min.StringFixed(2), s.Total.Max.StringFixed(2), s.Total.Initial.StringFixed(2),
		})
	}
	tw.Render()
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	history, err := openHistory(config.Get())
	if err != nil {
		return err
	}
	defer history.Close()

	snapshots, err := history.List(cmd.Context(), &storage.ListFilter{QuoteID: args[0], Limit: 2})
	if err != nil {
		return err
	}
	if len(snapshots) < 2 {
		return errors.NotFound("history", args[0]).WithContext("snapshots", len(snapshots))
	}

	cmp := storage.Diff(snapshots[1], snapshots[0])
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Monthly min: %s (%s%%)\n", signed(cmp.MinDelta.StringFixed(2)), cmp.MinDeltaPercent.String())
	fmt.Fprintf(out, "Monthly max: %s\n", signed(cmp.MaxDelta.StringFixed(2)))
	for _, r := range cmp.Changed {
		fmt.Fprintf(out, "  changed offer: %s\n", r)
	}
	return nil
}

func signed(amount string) string {
	if len(amount) > 0 && amount[0] != '-' {
		return "+" + amount
	}
	return amount
}
