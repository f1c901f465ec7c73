package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestKeyRegistryScopeFallsBackToGlobal(t *testing.T) {
	t.Parallel()

	r := NewKeyRegistry()
	require.Equal(t, actionScan, r.Lookup("enter", scopeRadar).Action)
	require.Equal(t, actionProcess, r.Lookup("enter", scopeGhost).Action)
	require.Equal(t, actionQuit, r.Lookup("ctrl+c", scopeBrain).Action)
	require.Nil(t, r.Lookup("enter", scopeStatus))
	require.Nil(t, r.Lookup("x", scopeRadar))
}

func TestKeyRegistrySpaceBar(t *testing.T) {
	t.Parallel()

	r := NewKeyRegistry()
	require.Equal(t, actionToggle, r.Action(tea.KeyMsg{Type: tea.KeySpace}, scopeRadar))
	require.Equal(t, actionToggle, r.Action(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(" ")}, scopeRadar))
	require.Equal(t, Action(""), r.Action(tea.KeyMsg{Type: tea.KeySpace}, scopeGhost))
}

func TestKeyRegistryFirstBindingWins(t *testing.T) {
	t.Parallel()

	r := NewKeyRegistry()
	r.Register(Binding{Action: actionQuit, Keys: []string{"ctrl+e", "q"}, Help: "quit", Scopes: []string{scopeRadar}})
	require.Equal(t, actionExport, r.Lookup("ctrl+e", scopeRadar).Action)
	require.Nil(t, r.Lookup("q", scopeRadar))
}

func TestHelpBindingsUseLabel(t *testing.T) {
	t.Parallel()

	r := NewKeyRegistry()
	var labels []string
	for _, b := range r.HelpBindings(scopeGlobal) {
		labels = append(labels, b.Help().Key+" "+b.Help().Desc)
	}
	require.Equal(t, []string{"tab next tab", "shift+tab prev tab", "alt+1-4 jump", "ctrl+r refresh", "ctrl+c quit"}, labels)
}
