// ABOUTME: Bubbletea model for the tone engine TUI
// ABOUTME: Shows stream geometry, tuning results, and playback state
package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Model represents the TUI state
type Model struct {
	// Playback
	playing bool

	// Stream geometry
	sampleRate int
	channels   int
	burst      int
	bufferSize int
	capacity   int
	xruns      int

	// Dimensions
	width  int
	height int

	control *Control
}

// StatusMsg updates TUI state from an engine snapshot.
type StatusMsg struct {
	Playing              bool
	SampleRate           int
	Channels             int
	FramesPerBurst       int
	BufferSizeFrames     int
	BufferCapacityFrames int
	XRuns                int
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderStream()
	s += m.renderHelp()

	return s
}

// renderHeader renders playback state
func (m Model) renderHeader() string {
	state := "Silent"
	if m.playing {
		state = "Playing"
	}

	return fmt.Sprintf(`┌─ Puretone Engine ────────────────────────────────────┐
│ State: %-45s │
├──────────────────────────────────────────────────────┤
`, state)
}

// renderStream renders stream geometry and tuning status
func (m Model) renderStream() string {
	if m.sampleRate == 0 {
		return "│ No stream                                            │\n"
	}

	latency := ""
	if m.sampleRate > 0 {
		latency = fmt.Sprintf("%.1fms", float64(m.bufferSize)*1000.0/float64(m.sampleRate))
	}

	s := fmt.Sprintf("│ Format:  %dHz %s 16-bit%-26s │\n",
		m.sampleRate, channelName(m.channels), "")
	s += fmt.Sprintf("│ Buffer:  %d/%d frames (burst %d) ≈ %s%-8s │\n",
		m.bufferSize, m.capacity, m.burst, latency, "")
	s += fmt.Sprintf("│ XRuns:   %-43d │\n", m.xruns)

	return s
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `│ space:Play/Silence  q:Quit                           │
└──────────────────────────────────────────────────────┘
`
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.control != nil {
			select {
			case m.control.Quit <- struct{}{}:
			default:
			}
		}
		return m, tea.Quit
	case " ", "p":
		if m.control != nil {
			select {
			case m.control.Toggle <- struct{}{}:
			default:
			}
		}
	}

	return m, nil
}

// applyStatus updates model from a status message
func (m *Model) applyStatus(msg StatusMsg) {
	m.playing = msg.Playing
	m.sampleRate = msg.SampleRate
	m.channels = msg.Channels
	m.burst = msg.FramesPerBurst
	m.bufferSize = msg.BufferSizeFrames
	m.capacity = msg.BufferCapacityFrames
	m.xruns = msg.XRuns
}

// channelName maps a channel count to a display label
func channelName(channels int) string {
	switch channels {
	case 1:
		return "Mono"
	case 2:
		return "Stereo"
	}
	return fmt.Sprintf("%dch", channels)
}
