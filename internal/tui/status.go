package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// statusDismiss is how long a status message stays on screen.
const statusDismiss = 5 * time.Second

type statusLevel int

const (
	levelNone statusLevel = iota
	levelInfo
	levelSuccess
	levelWarning
	levelError
)

// statusMessage is the single shell-wide status line.
type statusMessage struct {
	level statusLevel
	text  string
	at    time.Time
}

// statusExpiredMsg carries the generation it expires, so a newer
// status is never dismissed by an older timer.
type statusExpiredMsg int

// setStatus replaces the status line and arms its dismissal timer.
// Status text must never contain secret material.
func (m Model) setStatus(level statusLevel, text string) (Model, tea.Cmd) {
	m = m.setStatusOnly(level, text)
	gen := m.statusGen
	return m, tea.Tick(statusDismiss, func(time.Time) tea.Msg {
		return statusExpiredMsg(gen)
	})
}

func (m Model) setStatusOnly(level statusLevel, text string) Model {
	m.statusGen++
	m.status = statusMessage{level: level, text: text, at: time.Now()}
	return m
}

func formatAttempts(n uint64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// importFailureText maps import errors to actionable, secret-free
// messages.
func importFailureText(err error) string {
	return "import failed: " + err.Error()
}
