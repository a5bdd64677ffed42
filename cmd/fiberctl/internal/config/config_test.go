package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := DefaultConfig()
	if cfg.Devserver.Host != want.Devserver.Host || cfg.Devserver.Port != want.Devserver.Port {
		t.Fatalf("Load() = %+v, want defaults %+v", cfg.Devserver, want.Devserver)
	}
	if cfg.StackSize != want.StackSize {
		t.Fatalf("StackSize = %d, want %d", cfg.StackSize, want.StackSize)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()

	cfg := &Config{
		Devserver: &DevserverConfig{Host: "0.0.0.0", Port: 9999, ScenarioConfigPath: "scenarios.yaml"},
		StackSize: 128 * 1024,
	}
	if err := Save(cfg, dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, fileName)); err != nil {
		t.Fatalf("expected %s to exist: %v", fileName, err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got.Devserver != *cfg.Devserver {
		t.Fatalf("Devserver = %+v, want %+v", *got.Devserver, *cfg.Devserver)
	}
	if got.StackSize != cfg.StackSize {
		t.Fatalf("StackSize = %d, want %d", got.StackSize, cfg.StackSize)
	}
}

func TestApplyDefaultsFillsPartialConfig(t *testing.T) {
	cfg := &Config{Devserver: &DevserverConfig{Port: 1234}}
	applyDefaults(cfg)

	if cfg.Devserver.Host != "localhost" {
		t.Fatalf("Host = %q, want %q", cfg.Devserver.Host, "localhost")
	}
	if cfg.Devserver.Port != 1234 {
		t.Fatalf("Port = %d, want unchanged 1234", cfg.Devserver.Port)
	}
	if cfg.StackSize != 64*1024 {
		t.Fatalf("StackSize = %d, want default", cfg.StackSize)
	}
}
