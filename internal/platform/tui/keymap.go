package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// ProgressKeyMap defines the key bindings of the session progress view.
type ProgressKeyMap struct {
	Details key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ProgressKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Details, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ProgressKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Details, k.Quit}}
}

// DefaultProgressKeyMap returns default key bindings.
func DefaultProgressKeyMap() ProgressKeyMap {
	return ProgressKeyMap{
		Details: key.NewBinding(
			key.WithKeys("d", "tab"),
			key.WithHelp("d/tab", "toggle details"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "stop session"),
		),
	}
}
