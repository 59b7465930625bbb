package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"go/parser"
	"go/token"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/YuminosukeSato/housevalue/pkg/errors"
)

func TestTestLoggerLevels(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelInfo)

	testLogger.Debug("this should not appear")
	testLogger.Info("model fitted", OperationKey, OperationFit, SamplesKey, 404)
	testLogger.Warn("dirty input", MissingKey, 2)
	testLogger.Error("fit failed", ErrAttrKey, fmt.Errorf("singular matrix"))

	if buffer.Len() == 0 {
		t.Fatal("Expected log output, got empty string")
	}
	if testLogger.ContainsMessage("this should not appear") {
		t.Error("Debug message should not appear when level is Info")
	}
	if !testLogger.ContainsField(SamplesKey, 404.0) {
		t.Error("Expected samples field")
	}
	if !testLogger.ContainsField(ErrAttrKey, "singular matrix") {
		t.Error("Errors should be logged by message")
	}
	if testLogger.Enabled(context.Background(), LevelDebug) {
		t.Error("Logger should not be enabled for Debug level")
	}
}

func TestTestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	child := testLogger.With(ModelNameKey, "log_price", TargetScaleKey, "log")
	child.Info("scored", R2ScoreKey, 0.79, PhaseKey, PhaseTraining)

	entries, err := testLogger.GetLogEntries()
	if err != nil {
		t.Fatalf("Failed to parse log entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 log entry, got %d", len(entries))
	}

	expected := map[string]interface{}{
		ModelNameKey:   "log_price",
		TargetScaleKey: "log",
		R2ScoreKey:     0.79,
		PhaseKey:       PhaseTraining,
	}
	for key, want := range expected {
		if got, ok := entries[0][key]; !ok || got != want {
			t.Errorf("Field %s: expected %v, got %v", key, want, got)
		}
	}
}

func TestTestLoggerConcurrentWrites(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)
	raw := testLogger.With(TargetScaleKey, "raw")
	logScale := testLogger.With(TargetScaleKey, "log")

	var wg sync.WaitGroup
	for _, l := range []Logger{raw, logScale} {
		wg.Add(1)
		go func(l Logger) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				l.Info("step", "i", i)
			}
		}(l)
	}
	wg.Wait()

	entries, err := testLogger.GetLogEntries()
	if err != nil {
		t.Fatalf("Failed to parse log entries: %v", err)
	}
	if len(entries) != 100 {
		t.Errorf("Expected 100 entries, got %d", len(entries))
	}
}

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ToLogLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ToLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ToLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSetupLoggerToAddsStacktrace(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	if err := SetupLoggerTo(&buf, "info"); err != nil {
		t.Fatalf("SetupLoggerTo: %v", err)
	}

	err := errors.NewDomainError("ToLogScale", 0, -1, "log requires a positive value")
	GetLogger().Error("transform failed", ErrAttrKey, err)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON output %q: %v", buf.String(), err)
	}
	if entry["message"] != "transform failed" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["severity"] != "ERROR" {
		t.Errorf("severity = %v", entry["severity"])
	}
	if _, ok := entry[StacktraceAttrKey]; !ok {
		t.Error("expected stacktrace attribute for cockroachdb error")
	}
}

func TestSetupWarnings(t *testing.T) {
	var buf bytes.Buffer
	SetupWarnings(&buf)
	defer ResetWarnings()

	errors.Warn(errors.NewDataQualityWarning("boston.csv", 3, 1))

	line := strings.TrimSpace(buf.String())
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("invalid JSON output %q: %v", line, err)
	}
	if entry["level"] != "warn" {
		t.Errorf("level = %v, want warn", entry["level"])
	}
	if entry["missing"] != 3.0 || entry["duplicates"] != 1.0 {
		t.Errorf("structured warning fields missing: %v", entry)
	}
	if entry["type"] != "DataQualityWarning" {
		t.Errorf("type = %v", entry["type"])
	}
}

func TestNop(t *testing.T) {
	l := Nop().With(ModelNameKey, "x")
	l.Info("ignored")
	if l.Enabled(context.Background(), LevelError) {
		t.Error("Nop logger should never be enabled")
	}
}

func TestPackageDocInOneFile(t *testing.T) {
	files, err := filepath.Glob("*.go")
	if err != nil {
		t.Fatal(err)
	}
	var documented []string
	fset := token.NewFileSet()
	for _, name := range files {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, name, nil, parser.PackageClauseOnly|parser.ParseComments)
		if err != nil {
			t.Fatal(err)
		}
		if f.Doc != nil {
			documented = append(documented, name)
			if !strings.HasPrefix(f.Doc.Text(), "Package log ") {
				t.Errorf("%s: package comment should start with \"Package log \"", name)
			}
		}
	}
	if len(documented) != 1 || documented[0] != "interface.go" {
		t.Errorf("package doc found in %v, want only interface.go", documented)
	}
}
