// Copyright (c) 2025 Cheng Jingfeng.
// SPDX-License-Identifier: Apache-2.0

// Package spin renders a terminal spinner for long-running steps. On a
// non-terminal stderr it degrades to a single debug line so CI logs stay
// clean.
package spin

import (
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

type stopMsg struct{}

type model struct {
	spinner  spinner.Model
	label    string
	quitting bool
}

func newModel(label string) model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return model{spinner: s, label: label}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stopMsg:
		m.quitting = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

// Start spins with the given label until the returned stop function is
// called. The spinner writes to stderr and never reads input, so it stays out
// of the way of whatever the step itself prints.
func Start(label string) func() {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		log.Debug(label)
		return func() {}
	}

	p := tea.NewProgram(newModel(label), tea.WithInput(nil), tea.WithOutput(os.Stderr))

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := p.Run(); err != nil {
			log.WithError(err).Debug("spinner exited")
		}
	}()

	return func() {
		p.Send(stopMsg{})
		<-done
	}
}
