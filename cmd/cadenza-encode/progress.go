// ABOUTME: Bubbletea model for the encode progress view
// ABOUTME: Renders a progress bar fed by the whole-source driver
package main

import (
	"fmt"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

const progressBarWidth = 40

type progressMsg struct {
	position int64
	length   int64
}

type doneMsg struct {
	err error
}

type progressModel struct {
	stop     *atomic.Bool
	position int64
	length   int64
	done     bool
	err      error
}

func newProgressModel(stop *atomic.Bool) progressModel {
	return progressModel{stop: stop}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			// Quitting only raises the stop flag; the encode goroutine
			// drains and the session is closed on the main path.
			m.stop.Store(true)
			return m, tea.Quit
		}
	case progressMsg:
		m.position = msg.position
		m.length = msg.length
	case doneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		if m.err != nil {
			return fmt.Sprintf("Encode failed: %v\n", m.err)
		}
		return "Encode complete.\n"
	}

	if m.length == 0 {
		return fmt.Sprintf("Encoding... %d bytes\n(q to quit)\n", m.position)
	}

	ratio := float64(m.position) / float64(m.length)
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * progressBarWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled)
	return fmt.Sprintf("Encoding [%s] %3.0f%%\n(q to quit)\n", bar, ratio*100)
}
