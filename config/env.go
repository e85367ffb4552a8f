package config

import (
	"os"
	"strconv"
)

// Environment overrides, applied after the file and before flags
const (
	EnvAudioEnabled = "SANDBOX_AUDIO_ENABLED"
	EnvAudioVolume  = "SANDBOX_AUDIO_VOLUME" // 0-100
	EnvSampleRate   = "SANDBOX_SAMPLE_RATE"
	EnvMetricsAddr  = "SANDBOX_METRICS_ADDR"
)

// ApplyEnv overrides audio and metrics settings from the environment
// Unparseable values are ignored; volume is clamped to [0, 1]
func (c *Config) ApplyEnv() {
	if enabled := os.Getenv(EnvAudioEnabled); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			c.Audio.Enabled = val
		}
	}

	if volume := os.Getenv(EnvAudioVolume); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			c.Audio.Volume = min(max(float64(val)/100.0, 0), 1)
		}
	}

	if rate := os.Getenv(EnvSampleRate); rate != "" {
		if val, err := strconv.Atoi(rate); err == nil && val > 0 {
			c.Audio.SampleRate = val
		}
	}

	if addr, ok := os.LookupEnv(EnvMetricsAddr); ok {
		c.Metrics.Addr = addr
	}
}
