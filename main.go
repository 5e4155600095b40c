// ABOUTME: Entry point for the Puretone tone engine
// ABOUTME: Parses CLI flags and starts the application
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Puretone-Audio/puretone-go/internal/app"
	"github.com/Puretone-Audio/puretone-go/internal/config"
	"github.com/Puretone-Audio/puretone-go/internal/version"
	"github.com/Puretone-Audio/puretone-go/pkg/audio"
	"github.com/Puretone-Audio/puretone-go/pkg/engine"
)

var (
	configPath = flag.String("config", "", "YAML config file (flags override it)")
	freq       = flag.Float64("freq", 0, "Tone frequency for the first channel in Hz")
	freqB      = flag.Float64("freq-b", 0, "Tone frequency for the second channel in Hz")
	amplitude  = flag.Float64("amplitude", 0, "Tone amplitude in [0, 1]")
	sampleRate = flag.Int("sample-rate", 0, "Output sample rate in Hz")
	channels   = flag.Int("channels", 0, "Output channel count (1 or 2)")
	logFile    = flag.String("log-file", "puretone.log", "Log file path")
	noTUI      = flag.Bool("no-tui", false, "Disable TUI, log to stdout and start playing immediately")
)

func main() {
	flag.Parse()

	useTUI := !*noTUI

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file so the interface stays clean
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	cfg := config.Default()
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
	}

	// CLI flags override the config file
	if *freq > 0 {
		cfg.Tone.Frequency = *freq
	}
	if *freqB > 0 {
		cfg.Tone.FrequencyB = *freqB
	}
	if *amplitude > 0 {
		cfg.Tone.Amplitude = *amplitude
	}
	if *sampleRate > 0 {
		cfg.Device.SampleRate = *sampleRate
	}
	if *channels > 0 {
		cfg.Device.Channels = *channels
	}

	log.Printf("Starting %s v%s: %dHz %dch, tone %.1f/%.1fHz",
		version.Product, version.Version,
		cfg.Device.SampleRate, cfg.Device.Channels,
		cfg.Tone.Frequency, cfg.Tone.FrequencyB)

	application := app.New(app.Config{
		Format: audio.Format{
			SampleRate: cfg.Device.SampleRate,
			Channels:   cfg.Device.Channels,
			BitDepth:   16,
		},
		Tone: engine.Config{
			ToneFrequency:  cfg.Tone.Frequency,
			ToneFrequencyB: cfg.Tone.FrequencyB,
			Amplitude:      cfg.Tone.Amplitude,
		},
		UseTUI:   useTUI,
		AutoPlay: !useTUI,
	})

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Printf("Received shutdown signal")
		application.Stop()
	}()

	if err := application.Run(); err != nil {
		log.Fatalf("puretone: %v", err)
	}
}
