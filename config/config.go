// Package config loads sandbox settings from TOML
//
// A file only needs the keys it changes; everything else keeps the value from
// Default. Unknown keys are rejected so typos do not silently fall back.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/particle-sandbox/physics"
)

// Config is the full sandbox configuration
type Config struct {
	Simulation Simulation `toml:"simulation"`
	Particles  []Particle `toml:"particles"`
	Audio      Audio      `toml:"audio"`
	Metrics    Metrics    `toml:"metrics"`
	View       View       `toml:"view"`
}

// Simulation selects the physics models
type Simulation struct {
	Gravity               string  `toml:"gravity"`    // none, integrate, approximate
	Collisions            string  `toml:"collisions"` // none, elastic
	GravitationalConstant float64 `toml:"gravitational_constant"`
	Density               float64 `toml:"density"` // mass per cubed radius
	Theta                 float64 `toml:"theta"`   // Barnes-Hut opening angle
}

// Particle is one particle of the initial scenario
// Zero mass derives mass from density
type Particle struct {
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
	Radius float64 `toml:"radius"`
	VX     float64 `toml:"vx"`
	VY     float64 `toml:"vy"`
	Mass   float64 `toml:"mass"`
}

// Audio configures collision clicks
type Audio struct {
	Enabled    bool    `toml:"enabled"`
	Volume     float64 `toml:"volume"` // 0.0-1.0
	SampleRate int     `toml:"sample_rate"`
}

// Metrics configures the Prometheus endpoint; empty Addr disables it
type Metrics struct {
	Addr      string `toml:"addr"`
	Namespace string `toml:"namespace"`
}

// View configures the terminal front-end
type View struct {
	Scale    float64       `toml:"scale"`    // model units per terminal cell
	Autoplay time.Duration `toml:"autoplay"` // delay between steps while playing
}

// Default returns the built-in configuration: the two-body collision demo
func Default() *Config {
	return &Config{
		Simulation: Simulation{
			Gravity:               physics.GravityIntegrate.String(),
			Collisions:            physics.CollisionElastic.String(),
			GravitationalConstant: 1,
			Density:               physics.DefaultDensity,
			Theta:                 0.5,
		},
		Particles: []Particle{
			{X: 200, Y: 200, Radius: 5, VX: 20, Mass: 5},
			{X: 240, Y: 200, Radius: 5, VX: -40, Mass: 15},
		},
		Audio: Audio{
			Enabled:    true,
			Volume:     0.5,
			SampleRate: 44100,
		},
		Metrics: Metrics{
			Namespace: "sandbox",
		},
		View: View{
			Scale:    4,
			Autoplay: 100 * time.Millisecond,
		},
	}
}

// Load reads path over the defaults and validates the result
func Load(path string) (*Config, error) {
	cfg := Default()
	// Decoding merges into existing slice elements; a file scenario must replace the default one
	scenario := cfg.Particles
	cfg.Particles = nil

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if !md.IsDefined("particles") {
		cfg.Particles = scenario
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and mode names
func (c *Config) Validate() error {
	var errs []error
	if _, err := physics.ParseGravityMode(c.Simulation.Gravity); err != nil {
		errs = append(errs, err)
	}
	if _, err := physics.ParseCollisionMode(c.Simulation.Collisions); err != nil {
		errs = append(errs, err)
	}
	if c.Simulation.Density <= 0 {
		errs = append(errs, fmt.Errorf("density must be positive, got %g", c.Simulation.Density))
	}
	if c.Simulation.Theta < 0 {
		errs = append(errs, fmt.Errorf("theta must not be negative, got %g", c.Simulation.Theta))
	}
	for i, p := range c.Particles {
		if p.Radius <= 0 {
			errs = append(errs, fmt.Errorf("particles[%d]: radius must be positive, got %g", i, p.Radius))
		}
		if p.Mass < 0 {
			errs = append(errs, fmt.Errorf("particles[%d]: mass must not be negative, got %g", i, p.Mass))
		}
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio volume must be within [0, 1], got %g", c.Audio.Volume))
	}
	if c.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio sample rate must be positive, got %d", c.Audio.SampleRate))
	}
	if c.View.Scale <= 0 {
		errs = append(errs, fmt.Errorf("view scale must be positive, got %g", c.View.Scale))
	}
	if c.View.Autoplay <= 0 {
		errs = append(errs, fmt.Errorf("autoplay interval must be positive, got %s", c.View.Autoplay))
	}
	return errors.Join(errs...)
}

// Modes returns the parsed gravity and collision modes
// Call after Validate
func (s Simulation) Modes() (physics.GravityMode, physics.CollisionMode) {
	g, _ := physics.ParseGravityMode(s.Gravity)
	c, _ := physics.ParseCollisionMode(s.Collisions)
	return g, c
}
