package storage

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestLoggerWritesLevels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, err := NewLogger(path, "")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	logger.Info("relatório gerado")
	logger.Error("falhou")
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), data)
	}
	re := regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] INFO: relatório gerado$`)
	if !re.MatchString(lines[0]) {
		t.Errorf("unexpected line format: %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "ERROR: falhou") {
		t.Errorf("unexpected line: %q", lines[1])
	}
}

func TestLoggerSubscribe(t *testing.T) {
	logger, err := NewLogger(filepath.Join(t.TempDir(), "app.log"), "")
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	ch := logger.Subscribe()
	logger.Warning("sem coluna sq_mt_useful")

	select {
	case msg := <-ch:
		if !strings.Contains(msg, "WARNING: sem coluna sq_mt_useful") {
			t.Errorf("unexpected message: %q", msg)
		}
	default:
		t.Fatal("subscriber received nothing")
	}
}

func TestLoggerRotate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	logger, err := NewLogger(path, "2 * 8")
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	logger.Info("linha longa o bastante para passar do limite")
	if err := logger.CheckRotate(); err != nil {
		t.Fatalf("CheckRotate: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "app.*.log"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("rotated files: got %v", matches)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 0 {
		t.Errorf("new log should be empty, got %d bytes", info.Size())
	}
}

func TestLoggerReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := NewLogger(path, "")
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := logger.Reopen(); err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	logger.Info("depois do SIGHUP")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "depois do SIGHUP") {
		t.Errorf("reopened log missing entry: %q", data)
	}
}

func TestNilLoggerIsNoop(t *testing.T) {
	var logger *Logger
	logger.Info("ignorado")
	if err := logger.CheckRotate(); err != nil {
		t.Fatal(err)
	}
}

func TestEval(t *testing.T) {
	tests := []struct {
		expr string
		want int64
	}{
		{"10 * 1024 * 1024", 10 * 1024 * 1024},
		{"512", 512},
		{"", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		if got := eval(tt.expr); got != tt.want {
			t.Errorf("eval(%q) = %d, want %d", tt.expr, got, tt.want)
		}
	}
}
