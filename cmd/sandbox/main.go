// Command sandbox is the interactive terminal front-end for the particle simulation
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/particle-sandbox/audio"
	"github.com/lixenwraith/particle-sandbox/config"
	"github.com/lixenwraith/particle-sandbox/engine"
	"github.com/lixenwraith/particle-sandbox/service"
	"github.com/lixenwraith/particle-sandbox/status"
)

const frameInterval = time.Second / 30

var (
	configFlag  = flag.String("config", "", "TOML configuration file; built-in defaults when empty")
	debugFlag   = flag.Bool("debug", false, "Write logs to "+filepath.Join(logDir, logFileName))
	metricsFlag = flag.String("metrics", "", "Serve Prometheus metrics on this address, e.g. :9090")
	muteFlag    = flag.Bool("mute", false, "Start with audio muted")
)

func main() {
	flag.Parse()

	logFile := setupLogging(*debugFlag)
	err := run()
	if err != nil {
		log.Printf("[MAIN] exit: %v", err)
	}
	closeLog(logFile)

	if err != nil {
		fmt.Fprintf(os.Stderr, "sandbox: %v\n", err)
		os.Exit(1)
	}
}

// closeLog detaches the logger and closes f; main calls it before os.Exit
func closeLog(f *os.File) {
	if f == nil {
		return
	}
	log.SetOutput(io.Discard)
	f.Close()
}

// loadConfig reads path over the defaults, then applies environment and flag overrides
func loadConfig(path, metricsAddr string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	if metricsAddr != "" {
		cfg.Metrics.Addr = metricsAddr
	}
	return cfg, cfg.Validate()
}

// newSimulation builds the engine from cfg and seeds the configured scenario
func newSimulation(cfg *config.Config, reg *status.Registry) *service.Simulation {
	gravity, collisions := cfg.Simulation.Modes()
	sim := engine.New(
		engine.WithGravity(gravity),
		engine.WithCollisions(collisions),
		engine.WithGravitationalConstant(cfg.Simulation.GravitationalConstant),
		engine.WithDensity(cfg.Simulation.Density),
		engine.WithTheta(cfg.Simulation.Theta),
		engine.WithRegistry(reg),
	)

	svc := service.NewSimulation(sim, reg)
	specs := make([]service.ParticleSpec, len(cfg.Particles))
	for i, p := range cfg.Particles {
		specs[i] = service.ParticleSpec{X: p.X, Y: p.Y, Radius: p.Radius, VX: p.VX, VY: p.VY, Mass: p.Mass}
	}
	if n := svc.Seed(specs); n != len(specs) {
		log.Printf("[MAIN] seeded %d of %d particles", n, len(specs))
	}
	return svc
}

// newHub registers the infrastructure services
func newHub(cfg *config.Config, reg *status.Registry) (*service.Hub, *audio.Player, error) {
	hub := service.NewHub()
	player := audio.NewPlayer(cfg.Audio, reg)
	if err := hub.Register(player); err != nil {
		return nil, nil, err
	}
	if err := hub.Register(status.NewExporter(cfg.Metrics.Addr, cfg.Metrics.Namespace, reg)); err != nil {
		return nil, nil, err
	}
	return hub, player, nil
}

// run returns an error instead of exiting so main can close the log first
func run() (err error) {
	cfg, err := loadConfig(*configFlag, *metricsFlag)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	reg := status.NewRegistry()
	sim := newSimulation(cfg, reg)

	hub, player, err := newHub(cfg, reg)
	if err != nil {
		return err
	}
	muted := *muteFlag || !cfg.Audio.Enabled
	if err := hub.InitAll(muted); err != nil {
		return fmt.Errorf("init services: %w", err)
	}
	if err := hub.StartAll(); err != nil {
		return fmt.Errorf("start services: %w", err)
	}
	defer hub.StopAll()

	sim.OnContacts(player.HandleContacts)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}

	// Panic recovery: restore the terminal before printing the trace
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			log.Printf("[MAIN] panic: %v\n%s", r, debug.Stack())
			fmt.Fprintf(os.Stderr, "\n\x1b[31mSANDBOX CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	defer screen.Fini()

	screen.EnableMouse()
	screen.HideCursor()

	a := newApp(screen, sim, player, cfg.View.Scale)
	log.Printf("[MAIN] started with %d particles", len(sim.Particles()))
	a.loop(cfg.View.Autoplay)
	return nil
}

// loop multiplexes terminal events, autoplay ticks and redraws until quit
func (a *app) loop(autoplay time.Duration) {
	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	stepTicker := time.NewTicker(autoplay)
	defer stepTicker.Stop()
	frameTicker := time.NewTicker(frameInterval)
	defer frameTicker.Stop()

	a.draw()
	for {
		select {
		case ev, ok := <-events:
			if !ok || !a.handleEvent(ev) {
				return
			}
		case <-stepTicker.C:
			a.tick()
		case <-frameTicker.C:
			a.draw()
		}
	}
}
