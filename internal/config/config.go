// ABOUTME: YAML configuration for the tone engine CLI
// ABOUTME: Loads device and tone settings with sane defaults
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the user-tunable settings for the demo application.
type Config struct {
	Device struct {
		SampleRate int `yaml:"sample_rate"`
		Channels   int `yaml:"channels"`
	} `yaml:"device"`

	Tone struct {
		// Frequency drives the first channel; FrequencyB the second
		// channel on stereo devices.
		Frequency  float64 `yaml:"frequency"`
		FrequencyB float64 `yaml:"frequency_b"`
		Amplitude  float64 `yaml:"amplitude"`
	} `yaml:"tone"`
}

// Default returns the out-of-the-box configuration: 48kHz stereo with
// a quarter-scale 440/660Hz tone pair.
func Default() Config {
	var c Config
	c.Device.SampleRate = 48000
	c.Device.Channels = 2
	c.Tone.Frequency = 440.0
	c.Tone.FrequencyB = 660.0
	c.Tone.Amplitude = 0.25
	return c
}

// Load reads a YAML file over the defaults, so a partial file only
// overrides the keys it names.
func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return config, nil
}
