// Package audio renders collision contacts as short clicks through beep
//
// The Player is an infrastructure service: when no output device is
// available it degrades to silence and every call stays safe.
package audio

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/particle-sandbox/config"
	"github.com/lixenwraith/particle-sandbox/physics"
	"github.com/lixenwraith/particle-sandbox/status"
)

// Speaker buffer length; larger values add latency
const bufferDuration = 100 * time.Millisecond

// Player mixes collision clicks into the speaker
type Player struct {
	mu    sync.Mutex
	cfg   config.Audio
	rate  beep.SampleRate
	mixer *beep.Mixer

	// Output sink, the speaker once started
	play    func(beep.Streamer)
	running bool

	disabled atomic.Bool
	muted    atomic.Bool

	statClicks  *atomic.Int64
	statEnabled *atomic.Bool
}

// NewPlayer creates a player for cfg; reg may be nil
func NewPlayer(cfg config.Audio, reg *status.Registry) *Player {
	stats := reg.Scope("audio")
	p := &Player{
		cfg:         cfg,
		rate:        beep.SampleRate(cfg.SampleRate),
		mixer:       &beep.Mixer{},
		statClicks:  stats.Int("clicks"),
		statEnabled: stats.Bool("enabled"),
	}
	p.muted.Store(!cfg.Enabled)
	return p
}

func (p *Player) Name() string           { return "audio" }
func (p *Player) Dependencies() []string { return nil }

// Init accepts a bool arg as the initial mute state; other args are ignored
func (p *Player) Init(args ...any) error {
	for _, arg := range args {
		if muted, ok := arg.(bool); ok {
			p.muted.Store(muted)
		}
	}
	p.statEnabled.Store(!p.muted.Load())
	return nil
}

// Start opens the speaker; on failure the player is disabled and no error is returned
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running || p.disabled.Load() {
		return nil
	}

	if err := speaker.Init(p.rate, p.rate.N(bufferDuration)); err != nil {
		log.Printf("[AUDIO] speaker unavailable, running silent: %v", err)
		p.disabled.Store(true)
		p.statEnabled.Store(false)
		return nil
	}

	speaker.Play(p.mixer)
	p.play = func(s beep.Streamer) {
		speaker.Lock()
		p.mixer.Add(s)
		speaker.Unlock()
	}
	p.running = true
	log.Printf("[AUDIO] speaker started at %d Hz", p.rate)
	return nil
}

// Stop drops pending clicks and releases the device; idempotent
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return nil
	}
	speaker.Clear()
	speaker.Close()
	p.play = nil
	p.running = false
	return nil
}

// HandleContacts plays one tick's contacts; matches service.ContactHandler
func (p *Player) HandleContacts(report physics.Report) {
	if len(report.Contacts) == 0 || p.disabled.Load() || p.muted.Load() {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.play == nil {
		return
	}
	sound := NewTickSound(report, p.cfg.Volume, p.rate)
	if sound == nil {
		return
	}
	p.play(sound)
	p.statClicks.Add(int64(min(len(report.Contacts), MaxVoices)))
}

// ToggleMute flips the mute state and returns the new state
func (p *Player) ToggleMute() bool {
	muted := !p.muted.Load()
	p.muted.Store(muted)
	p.statEnabled.Store(!muted && !p.disabled.Load())
	return muted
}

func (p *Player) IsMuted() bool    { return p.muted.Load() }
func (p *Player) IsDisabled() bool { return p.disabled.Load() }

// IsRunning reports whether the speaker is open
func (p *Player) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
