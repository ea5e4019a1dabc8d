package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitializeWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.log")

	err := Initialize(Config{Level: "debug", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer InitializeDefault()

	Named("matcher").Debug("candidates", Entry("t3.large-od"), Category("instance"))
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	for _, want := range []string{`"logger":"matcher"`, `"entry":"t3.large-od"`, `"category":"instance"`} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %s", line, want)
		}
	}
}

func TestInitializeUnknownLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.log")
	if err := Initialize(Config{Level: "chatty", Format: "json", Output: path}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer InitializeDefault()

	Debug("hidden")
	Info("shown")
	Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") {
		t.Error("debug message logged at info level")
	}
	if !strings.Contains(string(data), "shown") {
		t.Error("info message missing")
	}
}

func TestInitializeUnwritableOutputKeepsLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.log")
	if err := Initialize(Config{Level: "info", Format: "json", Output: path}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer InitializeDefault()

	missing := filepath.Join(t.TempDir(), "missing", "engine.log")
	if err := Initialize(Config{Output: missing}); err == nil {
		t.Fatal("expected an error for an unwritable output")
	}

	Warn("budget overflow", Budget("capex"), Quote("q1"), Resource("web"))
	Sync()

	data, _ := os.ReadFile(path)
	for _, want := range []string{`"budget":"capex"`, `"quote":"q1"`, `"resource":"web"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log %q missing %s", data, want)
		}
	}
}
