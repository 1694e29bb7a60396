package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lawnchairsociety/dungeongen/internal/config"
	"github.com/lawnchairsociety/dungeongen/internal/export"
	"github.com/lawnchairsociety/dungeongen/internal/server"
)

// run executes the CLI with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv("DUNGEONGEN_LOG_LEVEL", "ERROR")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, args...))

	err := cmd.Execute()
	return stdout.String(), err
}

func TestGenerateASCII(t *testing.T) {
	out, err := run(t, "generate", "--seed", "42", "--rooms", "5")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if !strings.HasPrefix(out, "Dungeon Map (Seed: 42, Rooms: 5/5)") {
		t.Errorf("unexpected header in:\n%s", out)
	}
	if !strings.Contains(out, "Legend:") {
		t.Error("legend missing")
	}

	again, _ := run(t, "generate", "--seed", "42", "--rooms", "5")
	if out != again {
		t.Error("same seed produced different output")
	}
}

func TestGenerateJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "layout.json")

	if _, err := run(t, "generate", "--seed-phrase", "goblin warren", "--format", "json", "--out", path); err != nil {
		t.Fatalf("generate: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var doc export.LayoutJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not layout JSON: %v", err)
	}
	if doc.Seed <= 0 {
		t.Errorf("Seed = %d, want a positive phrase-derived seed", doc.Seed)
	}
	if doc.Furnishing == nil {
		t.Error("furnishing missing")
	}
}

func TestGenerateYAML(t *testing.T) {
	out, err := run(t, "generate", "--seed", "9", "--format", "yaml", "--no-furnish")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(out, "# Dungeon 50x50") {
		t.Errorf("unexpected YAML header:\n%s", out)
	}
	if strings.Contains(out, "furnishing:") {
		t.Error("furnishing written with --no-furnish")
	}
}

func TestGenerateRejectsInvalidInput(t *testing.T) {
	if _, err := run(t, "generate", "--format", "svg"); err == nil {
		t.Error("unknown format accepted")
	}
	if _, err := run(t, "generate", "--rooms", "3", "--seed", "1", "extra"); err == nil {
		t.Error("positional argument accepted")
	}
}

func TestArchiveCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "archive.db")

	if _, err := run(t, "--db", db, "generate", "--seed", "11", "--save", "--name", "Bone Pit", "--format", "json"); err != nil {
		t.Fatalf("generate --save: %v", err)
	}

	list, err := run(t, "--db", db, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(list, "Bone Pit") || !strings.Contains(list, "11") {
		t.Errorf("list output missing the saved layout:\n%s", list)
	}

	shown, err := run(t, "--db", db, "show", "1", "--format", "ascii")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.HasPrefix(shown, "Dungeon Map (Seed: 11") {
		t.Errorf("show output:\n%s", shown)
	}

	if _, err := run(t, "--db", db, "show", "abc"); err == nil {
		t.Error("show accepted a non-numeric id")
	}

	if _, err := run(t, "--db", db, "delete", "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := run(t, "--db", db, "delete", "1"); err == nil {
		t.Error("deleting a missing layout succeeded")
	}

	empty, err := run(t, "--db", db, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(empty, "No archived layouts.") {
		t.Errorf("list after delete:\n%s", empty)
	}
}

func TestMigrateCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "old.db")
	dst := filepath.Join(dir, "new.db")

	for _, s := range []string{"1", "2"} {
		if _, err := run(t, "--db", src, "generate", "--seed", s, "--save", "--format", "json"); err != nil {
			t.Fatalf("generate --save: %v", err)
		}
	}

	out, err := run(t, "--db", dst, "migrate", "--from", src, "--dry-run")
	if err != nil {
		t.Fatalf("migrate --dry-run: %v", err)
	}
	if !strings.Contains(out, "Would copy 2 layouts") {
		t.Errorf("dry run output = %q", out)
	}

	out, err = run(t, "--db", dst, "migrate", "--from", src)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.Contains(out, "Copied 2 layouts") {
		t.Errorf("migrate output = %q", out)
	}

	if _, err := run(t, "--db", src, "migrate", "--from", src); err == nil {
		t.Error("migrating an archive into itself succeeded")
	}
	if _, err := run(t, "--db", dst, "migrate"); err == nil {
		t.Error("migrate without --from succeeded")
	}
}

func TestStreamCommand(t *testing.T) {
	ts := httptest.NewServer(server.NewServer(config.DefaultConfig(), nil).Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	out, err := run(t, "stream", "--url", url, "--seed", "9", "--rooms", "4")
	if err != nil {
		t.Fatalf("stream: %v", err)
	}

	var doc export.LayoutJSON
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("stream output is not JSON: %v", err)
	}
	if doc.Seed != 9 || len(doc.Rooms) != 4 {
		t.Errorf("seed/rooms = %d/%d, want 9/4", doc.Seed, len(doc.Rooms))
	}

	if _, err := run(t, "stream", "--url", url, "--rooms", "0"); err != nil {
		t.Errorf("stream with zero rooms: %v", err)
	}
}
