// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and the control channels back to the app
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Control carries user intents from the TUI to the application.
type Control struct {
	Toggle chan struct{}
	Quit   chan struct{}
}

// NewControl creates a control handler.
func NewControl() *Control {
	return &Control{
		Toggle: make(chan struct{}, 10),
		Quit:   make(chan struct{}, 1),
	}
}

// NewModel creates a TUI model wired to ctrl.
func NewModel(ctrl *Control) Model {
	return Model{control: ctrl}
}

// Run starts the TUI program.
func Run(ctrl *Control) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())
	return p, nil
}
