package status

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricName(t *testing.T) {
	tests := []struct {
		key, expected string
	}{
		{"sim.steps", "sim_steps"},
		{"history.undo", "history_undo"},
		{"audio-clicks", "audio_clicks"},
	}
	for _, tt := range tests {
		if got := MetricName(tt.key); got != tt.expected {
			t.Errorf("MetricName(%q) = %q, expected %q", tt.key, got, tt.expected)
		}
	}
}

func TestCollector_Exposition(t *testing.T) {
	reg := NewRegistry()
	reg.Ints.Get("sim.steps").Store(3)
	reg.Ints.Get("sim.particles").Store(2)
	reg.Floats.Get("sim.gravitational_constant").Store(1.5)
	reg.Bools.Get("audio.enabled").Store(true)
	reg.Strings.Get("sim.gravity_mode").Store("integrate")

	c := NewCollector(reg, "sandbox", "sim.steps")

	expected := `
# HELP sandbox_audio_enabled audio.enabled
# TYPE sandbox_audio_enabled gauge
sandbox_audio_enabled 1
# HELP sandbox_sim_gravitational_constant sim.gravitational_constant
# TYPE sandbox_sim_gravitational_constant gauge
sandbox_sim_gravitational_constant 1.5
# HELP sandbox_sim_gravity_mode sim.gravity_mode
# TYPE sandbox_sim_gravity_mode gauge
sandbox_sim_gravity_mode{value="integrate"} 1
# HELP sandbox_sim_particles sim.particles
# TYPE sandbox_sim_particles gauge
sandbox_sim_particles 2
# HELP sandbox_sim_steps sim.steps
# TYPE sandbox_sim_steps counter
sandbox_sim_steps 3
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected)); err != nil {
		t.Fatalf("Unexpected exposition: %v", err)
	}
	if n := testutil.CollectAndCount(c); n != 5 {
		t.Errorf("Expected 5 metrics, got %d", n)
	}
}

func TestCollector_FollowsRegistry(t *testing.T) {
	reg := NewRegistry()
	c := NewCollector(reg, "sandbox")
	if n := testutil.CollectAndCount(c); n != 0 {
		t.Fatalf("Expected no metrics, got %d", n)
	}

	reg.Ints.Get("sim.collisions").Add(4)
	if n := testutil.CollectAndCount(c, "sandbox_sim_collisions"); n != 1 {
		t.Errorf("Expected late-registered metric to appear, got %d", n)
	}
}

func TestExporter_ServesMetrics(t *testing.T) {
	reg := NewRegistry()
	reg.Ints.Get("sim.steps").Store(7)

	e := NewExporter("127.0.0.1:0", "sandbox", reg)
	if err := e.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := e.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer e.Stop()

	resp, err := http.Get("http://" + e.Addr().String() + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), "sandbox_sim_steps 7") {
		t.Errorf("Expected sandbox_sim_steps in output, got:\n%s", body)
	}

	if err := e.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
	if err := e.Stop(); err != nil {
		t.Errorf("Second Stop should be a no-op, got %v", err)
	}
}

func TestExporter_Disabled(t *testing.T) {
	e := NewExporter("", "sandbox", NewRegistry())
	if err := e.Init(); err != nil {
		t.Fatal(err)
	}
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	if e.Addr() != nil {
		t.Error("Expected no listener when disabled")
	}
	if err := e.Stop(); err != nil {
		t.Fatal(err)
	}
}
