package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/particle-sandbox/physics"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// Click shaping
const (
	ClickDuration = 40 * time.Millisecond
	ClickAttack   = 2 * time.Millisecond
	ClickRelease  = 30 * time.Millisecond

	// Contacts within one tick are spread over this span by their tick fraction
	TickSpan = 60 * time.Millisecond

	// Closing speed mapped to full volume; faster contacts clip at 1
	ReferenceSpeed = 100.0

	// Pitch rises one octave per tenfold closing speed above the base
	BaseFrequency = 220.0
	MaxFrequency  = 1760.0

	// Extra contacts in one tick are dropped
	MaxVoices = 8
)

// oscillator generates raw audio waves
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	rng      *rand.Rand
}

// NewOscillator creates a finite oscillator; noise is seeded for reproducible renders
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		rng:      rand.New(rand.NewSource(int64(freq*1000) + 1)),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope creates a linear attack/sustain/release envelope over duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := max(total-att-rel, 0)

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			remaining := e.totalSamples - e.position
			vol = max(float64(remaining)/float64(e.releaseSamples), 0)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s in a linear gain; zero or negative gain is silent
// effects.Volume works in log2 units
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// ClickGain maps a closing speed to a linear gain in [0, 1]
func ClickGain(closingSpeed float64) float64 {
	if closingSpeed <= 0 {
		return 0
	}
	return min(closingSpeed/ReferenceSpeed, 1)
}

// ClickFrequency maps a closing speed to a pitch in [BaseFrequency, MaxFrequency]
func ClickFrequency(closingSpeed float64) float64 {
	if closingSpeed <= 1 {
		return BaseFrequency
	}
	return min(BaseFrequency*math.Pow(2, math.Log10(closingSpeed)), MaxFrequency)
}

// NewClick synthesizes one contact: a pitched sine body plus a noise transient
func NewClick(c physics.Contact, volume float64, rate beep.SampleRate) beep.Streamer {
	freq := ClickFrequency(c.ClosingSpeed)

	tone := NewEnvelope(NewOscillator(freq, ClickDuration, WaveSine, rate), ClickDuration, ClickAttack, ClickRelease, rate)
	noise := NewEnvelope(NewOscillator(freq, ClickAttack*2, WaveNoise, rate), ClickAttack*2, 0, ClickAttack, rate)

	mixed := beep.Mix(
		newVolume(tone, 0.8),
		newVolume(noise, 0.2),
	)
	return newVolume(mixed, ClickGain(c.ClosingSpeed)*volume)
}

// NewTickSound places every contact of a tick at its fraction of TickSpan
// Returns nil when there is nothing to play
func NewTickSound(report physics.Report, volume float64, rate beep.SampleRate) beep.Streamer {
	contacts := report.Contacts
	if len(contacts) == 0 || volume <= 0 {
		return nil
	}
	if len(contacts) > MaxVoices {
		contacts = contacts[:MaxVoices]
	}

	voices := make([]beep.Streamer, 0, len(contacts))
	for _, c := range contacts {
		offset := time.Duration(c.Time * float64(TickSpan))
		voices = append(voices, beep.Seq(
			beep.Silence(rate.N(offset)),
			NewClick(c, volume, rate),
		))
	}
	return beep.Mix(voices...)
}
