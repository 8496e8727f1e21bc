package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kingrea/habit-chart/internal/document"
)

func TestRootRejectsExtraArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"a.yaml", "b.yaml"})
	cmd.SetOut(&strings.Builder{})
	cmd.SetErr(&strings.Builder{})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for two paths")
	}
}

func TestRunFailsOnMalformedDocument(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	path := filepath.Join(dir, "habits.yaml")
	if err := os.WriteFile(path, []byte("habits: [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := run(path)
	var parseErr *document.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("run err = %v, want ParseError", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "state", "habitchart", "habitchart.log")); statErr != nil {
		t.Fatalf("log file not written: %v", statErr)
	}
}
