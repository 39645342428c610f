package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetOutput_ComponentField(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "debug")
	defer SetOutput(&bytes.Buffer{}, "info")

	Paginate.Debug().Int("round", 1).Msg("round done")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if entry["component"] != "paginate" {
		t.Errorf("component = %v, want paginate", entry["component"])
	}
	if entry["message"] != "round done" {
		t.Errorf("message = %v", entry["message"])
	}
}

func TestSetOutput_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "warn")
	defer SetOutput(&bytes.Buffer{}, "info")

	Provider.Debug().Msg("hidden")
	Provider.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug line should be filtered at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("warn line should be written")
	}
}

func TestParseLevel_Disabled(t *testing.T) {
	if got := parseLevel("disabled"); got != zerolog.Disabled {
		t.Errorf("parseLevel(disabled) = %v", got)
	}
}

func TestInit_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardakit.log")
	if err := Init("debug", true, path); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	defer SetOutput(&bytes.Buffer{}, "info")

	Wallet.Debug().Int("utxos", 3).Msg("snapshot")

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(raw), `"component":"wallet"`) {
		t.Errorf("log file missing component field: %s", raw)
	}
}

func TestInit_ClosesPreviousFile(t *testing.T) {
	dir := t.TempDir()
	if err := Init("info", true, filepath.Join(dir, "a.log")); err != nil {
		t.Fatalf("Init(a) error: %v", err)
	}
	first := logFile

	if err := Init("info", true, filepath.Join(dir, "b.log")); err != nil {
		t.Fatalf("Init(b) error: %v", err)
	}
	if _, err := first.Write([]byte("x")); !errors.Is(err, os.ErrClosed) {
		t.Errorf("first log file still open: write error = %v", err)
	}

	second := logFile
	if err := Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if logFile != nil {
		t.Error("Close() kept a log file")
	}
	if _, err := second.Write([]byte("x")); !errors.Is(err, os.ErrClosed) {
		t.Errorf("second log file still open: write error = %v", err)
	}
	SetOutput(&bytes.Buffer{}, "info")
}

func TestInit_BadFile(t *testing.T) {
	if err := Init("info", false, filepath.Join(t.TempDir(), "missing", "x.log")); err == nil {
		t.Error("Init() with unwritable path should fail")
	}
}

func TestBenchmark(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "debug")
	defer SetOutput(&bytes.Buffer{}, "info")

	Benchmark("fold")()
	if !strings.Contains(buf.String(), `"operation":"fold"`) {
		t.Errorf("missing benchmark line: %s", buf.String())
	}
}
