package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cloud-quote/adapters/storage"
	"cloud-quote/internal/config"
)

const testCatalog = "../../../adapters/hclfile/testdata/catalog"

func setup(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvDatabaseURL, "")
	t.Setenv(config.EnvLogLevel, "error")
}

func execute(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestVersion(t *testing.T) {
	setup(t)
	out := execute(t, "version")
	if !strings.Contains(out, Version) {
		t.Errorf("output = %q", out)
	}
}

func TestLookupCommand(t *testing.T) {
	setup(t)
	out := execute(t, "lookup", "--catalog", testCatalog,
		"--category", "instance", "--cpu", "2", "--ram", "8", "--term", "on-demand", "--format", "json")

	var doc struct {
		Price struct {
			Entry struct {
				ID string `json:"id"`
			} `json:"entry"`
		} `json:"price"`
		Candidates []json.RawMessage `json:"candidates"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if doc.Price.Entry.ID != "t3-large-od-use1" {
		t.Errorf("winner = %s, want t3-large-od-use1", doc.Price.Entry.ID)
	}
	if len(doc.Candidates) != 2 {
		t.Errorf("candidates = %d, want 2", len(doc.Candidates))
	}
}

func TestCatalogStatsCommand(t *testing.T) {
	setup(t)
	out := execute(t, "catalog", "stats", testCatalog)
	for _, want := range []string{"instance", "storage", "us-east-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestQuoteCommand(t *testing.T) {
	setup(t)
	out := execute(t, "quote", "--catalog", testCatalog, "--format", "markdown", "../../../adapters/hclfile/testdata/quote.hcl")
	for _, want := range []string{"web", "m5-large-1y-use1", "capex"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestQuoteHistoryCommands(t *testing.T) {
	setup(t)
	quoteFile := "../../../adapters/hclfile/testdata/quote.hcl"

	execute(t, "quote", "--catalog", testCatalog, "--save", "--format", "json", quoteFile)
	execute(t, "quote", "--catalog", testCatalog, "--save", "--format", "json", quoteFile)

	history, err := storage.NewFileStore(filepath.Join(os.Getenv("HOME"), ".cloud-quote", "history"))
	if err != nil {
		t.Fatal(err)
	}
	snapshots, err := history.List(context.Background(), &storage.ListFilter{QuoteID: "shop"})
	if err != nil || len(snapshots) != 2 {
		t.Fatalf("recorded snapshots = %d, %v", len(snapshots), err)
	}

	out := execute(t, "quote", "history", "shop")
	for _, s := range snapshots {
		if !strings.Contains(out, s.ID) {
			t.Errorf("history missing snapshot %s:\n%s", s.ID, out)
		}
	}

	out = execute(t, "quote", "compare", "shop")
	if !strings.Contains(out, "Monthly min: +0.00") {
		t.Errorf("identical recomputes should not differ:\n%s", out)
	}
	quoteSave = false
}
