package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"

	"cloud-quote/core/catalog"
	"cloud-quote/core/engine"
	"cloud-quote/core/types"
)

// TableFormatter renders go-pretty tables, plain or markdown
type TableFormatter struct {
	markdown bool

	// MaxCandidates caps the lookup rows, 0 for all
	MaxCandidates int
}

// NewTableFormatter creates a table formatter
func NewTableFormatter(markdown bool) *TableFormatter {
	return &TableFormatter{markdown: markdown, MaxCandidates: 10}
}

// Format returns FormatTable or FormatMarkdown
func (f *TableFormatter) Format() Format {
	if f.markdown {
		return FormatMarkdown
	}
	return FormatTable
}

// RenderLookup writes the ranked candidates, the winner first
func (f *TableFormatter) RenderLookup(w io.Writer, result *engine.LookupResult) error {
	tw := f.newTable(w)
	tw.SetTitle(fmt.Sprintf("Usage %s: %d%% over %d month(s)",
		usageName(result.Usage), result.Usage.RatePercent, result.Usage.DurationMonths))
	tw.AppendHeader(table.Row{"#", "Entry", "Type", "Term", "Location", "Monthly", "Total", "Initial", "CO2/month"})
	tw.SetColumnConfigs(rightAligned(6, 9))

	candidates := result.Candidates
	if f.MaxCandidates > 0 && len(candidates) > f.MaxCandidates {
		candidates = candidates[:f.MaxCandidates]
	}
	for i, p := range candidates {
		id := p.Entry.ID
		if i == 0 && !f.markdown {
			id = text.FgHiGreen.Sprint(id)
		}
		tw.AppendRow(table.Row{
			i + 1, id, p.Entry.TypeCode(), termName(p.Entry), p.Entry.Location,
			money(p.MonthlyCost), money(p.TotalCost), money(p.InitialCost), money(p.MonthlyCO2),
		})
	}
	if len(result.Candidates) == 0 {
		tw.AppendRow(table.Row{"", "no eligible offer", "", "", "", "", "", "", ""})
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d candidate(s)", len(result.Candidates)), "", "", "",
		"", "", "", fmt.Sprintf("%d rejected", len(result.Rejections))})
	f.render(tw)

	if len(result.Candidates) == 0 && len(result.Rejections) > 0 {
		return f.renderRejections(w, result.Rejections)
	}
	return nil
}

// RenderQuote writes one row per resource and the floating total
func (f *TableFormatter) RenderQuote(w io.Writer, result *types.QuoteResult) error {
	tw := f.newTable(w)
	if result.Quote != nil && result.Quote.Name != "" {
		tw.SetTitle("Quote " + result.Quote.Name)
	}
	tw.AppendHeader(table.Row{"Resource", "Entry", "Qty", "Monthly min", "Monthly max", "Initial", "CO2 min", "Status"})
	tw.SetColumnConfigs(rightAligned(3, 7))

	for _, r := range result.Resources {
		entry := "-"
		if r.Price != nil {
			entry = r.Price.Entry.ID
		}
		tw.AppendRow(table.Row{
			r.Resource.Name, entry, quantity(r.Resource),
			money(r.Floating.Min), maxMoney(r.Floating), money(r.Floating.Initial), money(r.Floating.MinCO2),
			f.status(r),
		})
	}

	total := result.Total
	tw.AppendFooter(table.Row{"Total", "", "", money(total.Min), maxMoney(total), money(total.Initial), money(total.MinCO2), unboundNote(total)})
	f.render(tw)

	if len(result.Budgets) > 0 {
		return f.renderBudgets(w, result.Budgets)
	}
	return nil
}

func (f *TableFormatter) renderRejections(w io.Writer, rejections []types.Rejection) error {
	tw := f.newTable(w)
	tw.SetTitle("Rejected entries")
	tw.AppendHeader(table.Row{"Entry", "Constraint"})
	for _, r := range rejections {
		tw.AppendRow(table.Row{r.EntryID, r.Constraint})
	}
	f.render(tw)
	return nil
}

func (f *TableFormatter) renderBudgets(w io.Writer, budgets []*types.Budget) error {
	tw := f.newTable(w)
	tw.SetTitle("Budgets")
	tw.AppendHeader(table.Row{"Budget", "Ceiling", "Required"})
	tw.SetColumnConfigs(rightAligned(2, 3))
	for _, b := range budgets {
		ceiling := "unlimited"
		if b.InitialCostCeiling != nil {
			ceiling = money(*b.InitialCostCeiling)
		}
		tw.AppendRow(table.Row{b.Name, ceiling, money(b.RequiredInitialCost)})
	}
	f.render(tw)
	return nil
}

func (f *TableFormatter) newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	return tw
}

func (f *TableFormatter) render(tw table.Writer) {
	if f.markdown {
		tw.RenderMarkdown()
		return
	}
	tw.Render()
}

func (f *TableFormatter) status(r *types.ResourceResult) string {
	var status string
	switch {
	case r.Price == nil:
		status = "no match"
	case r.OverBudget:
		status = "over budget"
	default:
		return "ok"
	}
	if f.markdown {
		return status
	}
	return text.FgHiRed.Sprint(status)
}

// rightAligned aligns the numeric columns from..to
func rightAligned(from, to int) []table.ColumnConfig {
	configs := make([]table.ColumnConfig, 0, to-from+1)
	for n := from; n <= to; n++ {
		configs = append(configs, table.ColumnConfig{Number: n, Align: text.AlignRight})
	}
	return configs
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func maxMoney(f types.FloatingCost) string {
	if f.Unbound {
		return money(f.Max) + "+"
	}
	return money(f.Max)
}

func unboundNote(f types.FloatingCost) string {
	if f.UnboundCount == 0 {
		return ""
	}
	return fmt.Sprintf("%d unbound", f.UnboundCount)
}

func quantity(r *types.Resource) string {
	if r.MaxQuantity == nil {
		return fmt.Sprintf("%d..", r.MinQuantity)
	}
	if *r.MaxQuantity == r.MinQuantity {
		return fmt.Sprint(r.MinQuantity)
	}
	return fmt.Sprintf("%d..%d", r.MinQuantity, *r.MaxQuantity)
}

func termName(e *types.Entry) string {
	if e.Term == nil {
		return ""
	}
	return e.Term.Name
}

func usageName(u types.Usage) string {
	if strings.TrimSpace(u.Name) == "" {
		return "default"
	}
	return u.Name
}

// RenderStats writes the per-category composition of a catalog
func (f *TableFormatter) RenderStats(w io.Writer, stats catalog.Stats, locations []string) {
	tw := f.newTable(w)
	tw.SetTitle(fmt.Sprintf("Catalog: %d entries, %d location(s)", stats.Total, len(locations)))
	tw.AppendHeader(table.Row{"Category", "Entries", "Fixed", "Dynamic", "Global"})
	tw.SetColumnConfigs(rightAligned(2, 5))
	for _, c := range stats.Categories() {
		cs := stats.ByCategory[c]
		tw.AppendRow(table.Row{c.String(), cs.Total, cs.Fixed, cs.Dynamic, cs.Global})
	}
	if len(locations) > 0 {
		tw.AppendFooter(table.Row{"Locations", strings.Join(locations, ", "), "", "", ""})
	}
	f.render(tw)
}
