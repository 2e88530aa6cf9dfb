package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmartinelli/plume/internal/config"
)

func TestInit_CreatesFiles(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"plume.yaml", "source.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
}

func TestInit_TemplateIsValidConfig(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(filepath.Join(dir, "plume.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name == "" || cfg.StoryWriter.Tool == "" {
		t.Fatalf("cfg = %+v", cfg)
	}
	for _, m := range config.Modalities {
		tc, ok := cfg.ModalityTool(m)
		if !ok || tc.Tool == "" {
			t.Fatalf("template missing %s tool", m)
		}
	}
}

func TestInit_RefusesExistingConfig(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatal(err)
	}
	err := Init(dir)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("err = %v", err)
	}
}

func TestInit_KeepsExistingSource(t *testing.T) {
	dir := t.TempDir()
	sourcePath := filepath.Join(dir, "source.txt")
	if err := os.WriteFile(sourcePath, []byte("my material"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Init(dir); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "my material" {
		t.Fatalf("source overwritten: %q", data)
	}
}
