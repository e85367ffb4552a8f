package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lixenwraith/particle-sandbox/config"
	"github.com/lixenwraith/particle-sandbox/physics"
	"github.com/lixenwraith/particle-sandbox/service"
	"github.com/lixenwraith/particle-sandbox/status"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv(config.EnvMetricsAddr, "")

	cfg, err := loadConfig("", ":9999")
	if err != nil {
		t.Fatalf("Default config failed: %v", err)
	}
	if cfg.Metrics.Addr != ":9999" {
		t.Errorf("Expected flag to set metrics address, got %q", cfg.Metrics.Addr)
	}

	path := filepath.Join(t.TempDir(), "sandbox.toml")
	if err := os.WriteFile(path, []byte("[simulation]\ngravity = \"sideways\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(path, ""); err == nil {
		t.Error("Expected invalid gravity mode to fail")
	}
}

func TestNewSimulation_SeedsScenario(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.Gravity = physics.GravityNone.String()
	cfg.Particles = append(cfg.Particles, config.Particle{X: 200, Y: 200, Radius: 1}) // Overlaps the first

	reg := status.NewRegistry()
	sim := newSimulation(cfg, reg)

	if n := len(sim.Particles()); n != 2 {
		t.Fatalf("Expected 2 seeded particles, got %d", n)
	}
	if sim.CanUndo() {
		t.Error("Expected seeding to leave no history")
	}
	if sim.GravityMode() != physics.GravityNone {
		t.Errorf("Expected gravity none, got %v", sim.GravityMode())
	}
	if got := reg.Ints.Get("sim.particles").Load(); got != 2 {
		t.Errorf("Expected sim.particles 2, got %d", got)
	}
}

// TestNewHub_Lifecycle verifies services start silent without a device or listener
func TestNewHub_Lifecycle(t *testing.T) {
	cfg := config.Default()
	reg := status.NewRegistry()

	hub, player, err := newHub(cfg, reg)
	if err != nil {
		t.Fatalf("newHub failed: %v", err)
	}
	if got := hub.Names(); len(got) != 2 || got[0] != "audio" || got[1] != "metrics" {
		t.Errorf("Unexpected services %v", got)
	}
	if err := hub.InitAll(true); err != nil {
		t.Fatalf("InitAll failed: %v", err)
	}
	if !player.IsMuted() {
		t.Error("Expected muted player")
	}
	if service.MustGet[*status.Exporter](hub, "metrics").Addr() != nil {
		t.Error("Expected metrics disabled without an address")
	}
	hub.StopAll()
}
