// ABOUTME: Main application orchestration
// ABOUTME: Wires config, device, engine, and TUI together
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Puretone-Audio/puretone-go/internal/ui"
	"github.com/Puretone-Audio/puretone-go/pkg/audio"
	"github.com/Puretone-Audio/puretone-go/pkg/device"
	"github.com/Puretone-Audio/puretone-go/pkg/engine"
	"github.com/Puretone-Audio/puretone-go/pkg/stream"
)

// statusInterval is how often the TUI is refreshed from the engine.
const statusInterval = 200 * time.Millisecond

// Config holds application configuration
type Config struct {
	Format audio.Format
	Tone   engine.Config

	// UseTUI enables the interactive interface; otherwise the app runs
	// headless and logs to stdout.
	UseTUI bool

	// AutoPlay starts the tone immediately instead of waiting for a
	// keypress. Headless runs default to this.
	AutoPlay bool

	// Opener overrides the device backend; nil means the default
	// output device.
	Opener stream.Opener
}

// App represents the running application
type App struct {
	config  Config
	engine  *engine.Engine
	control *ui.Control
	tuiProg *tea.Program
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates the application. Nothing is opened until Run.
func New(config Config) *App {
	if config.Opener == nil {
		config.Opener = device.Open
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		config:  config,
		control: ui.NewControl(),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Run creates the engine and blocks until quit or a fatal error.
func (a *App) Run() error {
	eng, err := engine.Create(a.config.Opener, a.config.Format, a.config.Tone)
	if err != nil {
		return fmt.Errorf("app: create engine: %w", err)
	}
	a.engine = eng

	if a.config.AutoPlay {
		if err := eng.StartPlayback(); err != nil {
			log.Printf("app: autoplay failed: %v", err)
		}
	}

	if a.config.UseTUI {
		prog, err := ui.Run(a.control)
		if err != nil {
			a.shutdown()
			return fmt.Errorf("app: start TUI: %w", err)
		}
		a.tuiProg = prog
		go a.tuiProg.Run()
	}

	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.publishStatus()

		case <-a.control.Toggle:
			a.togglePlayback()

		case <-a.control.Quit:
			a.cancel()

		case <-eng.Done():
			// The render loop only exits on its own after a fatal
			// device error.
			if a.tuiProg != nil {
				a.tuiProg.Quit()
			}
			return errors.New("app: render loop ended unexpectedly")

		case <-a.ctx.Done():
			return a.shutdown()
		}
	}
}

// Stop requests shutdown; safe to call from a signal handler goroutine.
func (a *App) Stop() {
	a.cancel()
}

// togglePlayback flips between tone and silence.
func (a *App) togglePlayback() {
	st, ok := a.engine.Snapshot()
	if !ok {
		return
	}
	if st.Playing {
		a.engine.StopPlayback()
		log.Printf("app: playback muted")
	} else {
		if err := a.engine.StartPlayback(); err != nil {
			log.Printf("app: start playback: %v", err)
			return
		}
		log.Printf("app: playback started")
	}
}

// publishStatus pushes an engine snapshot to the TUI.
func (a *App) publishStatus() {
	if a.tuiProg == nil {
		return
	}
	st, ok := a.engine.Snapshot()
	if !ok {
		return
	}
	a.tuiProg.Send(ui.StatusMsg{
		Playing:              st.Playing,
		SampleRate:           st.SampleRate,
		Channels:             st.Channels,
		FramesPerBurst:       st.FramesPerBurst,
		BufferSizeFrames:     st.BufferSizeFrames,
		BufferCapacityFrames: st.BufferCapacityFrames,
		XRuns:                st.XRuns,
	})
}

// shutdown destroys the engine and joins the render loop.
func (a *App) shutdown() error {
	if a.tuiProg != nil {
		a.tuiProg.Quit()
	}
	a.engine.Destroy()
	select {
	case <-a.engine.Done():
	case <-time.After(2 * time.Second):
		return errors.New("app: timed out waiting for render loop teardown")
	}
	return nil
}
