// Package cmd - lookup command
package cmd

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"cloud-quote/core/engine"
	"cloud-quote/core/output"
	"cloud-quote/core/types"
	"cloud-quote/internal/config"
	"cloud-quote/internal/errors"
)

var lookupFlags struct {
	category    string
	cpu         float64
	cpuMax      float64
	ram         float64
	ramMax      float64
	gpu         float64
	os          string
	engine      string
	edition     string
	license     string
	software    string
	processor   string
	location    string
	terms       []string
	reservation string
	optimizer   string
	size        float64
	requests    float64
	duration    float64
	concurrency float64
	covered     string

	rate     int
	months   int
	ceiling  string
	strict   bool
	format   string
	maxShown int
}

// lookupCmd resolves the best offer of one requirement
var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Find the best catalog offer for a requirement",
	Long: `Match a single requirement against the catalog and list the eligible
offers in rank order, the winner first.

Examples:
  cloud-quote lookup --category instance --cpu 2 --ram 8
  cloud-quote lookup --category instance --cpu 4 --ram 16 --term 1y --rate 50 --months 36
  cloud-quote lookup --category storage --size 500 --format json
  cloud-quote lookup --category function --requests 2 --request-duration 120 --ram 0.5`,
	Args: cobra.NoArgs,
	RunE: runLookup,
}

func init() {
	f := lookupCmd.Flags()
	f.StringVar(&lookupFlags.category, "category", "instance", "instance, database, container, function, storage or support")
	f.Float64Var(&lookupFlags.cpu, "cpu", 0, "requested vCPU")
	f.Float64Var(&lookupFlags.cpuMax, "cpu-max", 0, "maximum observed vCPU, used with --reservation max")
	f.Float64Var(&lookupFlags.ram, "ram", 0, "requested RAM in GiB")
	f.Float64Var(&lookupFlags.ramMax, "ram-max", 0, "maximum observed RAM in GiB, used with --reservation max")
	f.Float64Var(&lookupFlags.gpu, "gpu", 0, "requested GPU")
	f.StringVar(&lookupFlags.os, "os", "", "operating system")
	f.StringVar(&lookupFlags.engine, "engine", "", "database engine")
	f.StringVar(&lookupFlags.edition, "edition", "", "database edition")
	f.StringVar(&lookupFlags.license, "license", "", "license model")
	f.StringVar(&lookupFlags.software, "software", "", "pre-installed software")
	f.StringVar(&lookupFlags.processor, "processor", "", "processor family prefix")
	f.StringVarP(&lookupFlags.location, "location", "l", "", "location code")
	f.StringSliceVar(&lookupFlags.terms, "term", nil, "accepted term prefixes")
	f.StringVar(&lookupFlags.reservation, "reservation", "", "reserved or max")
	f.StringVar(&lookupFlags.optimizer, "optimizer", "", "cost or co2")
	f.Float64Var(&lookupFlags.size, "size", 0, "storage size in GiB")
	f.Float64Var(&lookupFlags.requests, "requests", 0, "function requests in millions per month")
	f.Float64Var(&lookupFlags.duration, "request-duration", 0, "function request duration in milliseconds")
	f.Float64Var(&lookupFlags.concurrency, "concurrency", 0, "function provisioned concurrency")
	f.StringVar(&lookupFlags.covered, "covered", "0", "monthly cost covered by a support plan")
	f.IntVar(&lookupFlags.rate, "rate", 0, "usage rate percent, 1..100")
	f.IntVar(&lookupFlags.months, "months", 0, "usage duration in months")
	f.StringVar(&lookupFlags.ceiling, "initial-cost", "", "upfront cost ceiling")
	f.BoolVar(&lookupFlags.strict, "strict", false, "fail when no offer matches")
	f.StringVarP(&lookupFlags.format, "format", "f", "", "output format (table, markdown, json)")
	f.IntVar(&lookupFlags.maxShown, "max", 0, "maximum candidates listed, 0 for the configured default")

	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	req, err := lookupRequest(cmd)
	if err != nil {
		return err
	}

	eng, closeFn, err := newEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := eng.Lookup(cmd.Context(), req)
	if err != nil {
		return err
	}

	formatter, err := formatterFor(cfg, lookupFlags.format, lookupFlags.maxShown)
	if err != nil {
		return err
	}
	return formatter.RenderLookup(cmd.OutOrStdout(), result)
}

// lookupRequest builds the engine request from the flags
func lookupRequest(cmd *cobra.Command) (*engine.LookupRequest, error) {
	lf := lookupFlags
	req := &engine.LookupRequest{
		Requirement: types.Requirement{
			Category:        types.Category(lf.category),
			CPU:             lf.cpu,
			RAM:             lf.ram,
			GPU:             lf.gpu,
			OS:              lf.os,
			Engine:          lf.engine,
			Edition:         lf.edition,
			License:         lf.license,
			Software:        lf.software,
			Processor:       lf.processor,
			Location:        lf.location,
			TermPrefixes:    lf.terms,
			Reservation:     types.Reservation(lf.reservation),
			Optimizer:       types.Optimizer(lf.optimizer),
			Size:            lf.size,
			Requests:        lf.requests,
			RequestDuration: lf.duration,
			Concurrency:     lf.concurrency,
		},
		Strict: lf.strict,
	}
	if cmd.Flags().Changed("cpu-max") {
		req.Requirement.CPUMax = &lf.cpuMax
	}
	if cmd.Flags().Changed("ram-max") {
		req.Requirement.RAMMax = &lf.ramMax
	}

	covered, err := decimal.NewFromString(lf.covered)
	if err != nil {
		return nil, errors.Validation("covered", "covered cost is not a number")
	}
	req.Covered = covered

	if lf.rate > 0 || lf.months > 0 {
		u := &types.Usage{Name: "cli", RatePercent: 100, DurationMonths: 1}
		if lf.rate > 0 {
			u.RatePercent = lf.rate
		}
		if lf.months > 0 {
			u.DurationMonths = lf.months
		}
		if err := u.Validate(); err != nil {
			return nil, err
		}
		req.Usage = u
	}

	if lf.ceiling != "" {
		ceiling, err := decimal.NewFromString(lf.ceiling)
		if err != nil {
			return nil, errors.Validation("initial_cost", "initial cost ceiling is not a number")
		}
		req.Budget = &types.Budget{Name: "cli", InitialCostCeiling: &ceiling}
	}
	return req, nil
}

// formatterFor picks the flag format, else the configured one
func formatterFor(cfg *config.Config, format string, maxShown int) (output.Formatter, error) {
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	f, err := output.NewRegistry().Get(output.Format(format))
	if err != nil {
		return nil, err
	}
	if tf, ok := f.(*output.TableFormatter); ok {
		tf.MaxCandidates = cfg.Output.MaxCandidates
		if maxShown > 0 {
			tf.MaxCandidates = maxShown
		}
	}
	return f, nil
}
