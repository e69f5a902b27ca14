// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view or cancels a form.
	Back key.Binding

	// Up and Down move the cursor in a list.
	Up   key.Binding
	Down key.Binding

	// PrevPage and NextPage page through a table.
	PrevPage key.Binding
	NextPage key.Binding

	// Select confirms a selection or submits a form.
	Select key.Binding

	// NextField cycles form fields.
	NextField key.Binding

	// Add, Edit and Delete change the selected row.
	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding

	// Find looks a row up by key.
	Find key.Binding

	// Generate appends synthetic rows.
	Generate key.Binding

	// Reload refreshes the view from its service.
	Reload key.Binding

	// Toggle switches a mode, such as the search algorithm.
	Toggle key.Binding

	// Random draws a new random input.
	Random key.Binding

	// More and Less step a numeric input.
	More key.Binding
	Less key.Binding

	// Reset restores a default or clears data.
	Reset key.Binding

	// Confirm and Deny answer a confirmation prompt.
	Confirm key.Binding
	Deny    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h", "pgup"),
			key.WithHelp("←/h", "prev page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "l", "pgdown"),
			key.WithHelp("→/l", "next page"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "next field"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Find: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "find by id"),
		),
		Generate: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "generate"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle"),
		),
		Random: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new board"),
		),
		More: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+/-", "size"),
		),
		Less: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "smaller"),
		),
		Reset: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "reset"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yes"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "no"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Help}
}

// TableHelp returns keybindings for the user table.
func (k *KeyMap) TableHelp() []key.Binding {
	return []key.Binding{k.PrevPage, k.NextPage, k.Add, k.Edit, k.Delete, k.Find, k.Generate}
}

// FormHelp returns keybindings for a form.
func (k *KeyMap) FormHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Select, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back},
		{k.PrevPage, k.NextPage, k.Add, k.Edit, k.Delete, k.Find, k.Generate},
		{k.Toggle, k.Random, k.More, k.Less, k.Reload, k.Reset},
		{k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
