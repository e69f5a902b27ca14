// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/components/input"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/components/status"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/keymap"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/messages"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/styles"
	"github.com/ikeepcalm/ad/internal/core/domain"
	"github.com/ikeepcalm/ad/internal/core/ports/driving"
)

var errNoService = errors.New("settings service not available")

// View lists every setting with its effective value and edits one at a
// time.
type View struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	settingsService driving.SettingsService
	status          *status.Bar

	entries  []domain.SettingEntry
	path     string
	selected int

	// form is non-nil while a value is being edited.
	form *input.Form

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s, km)
	bar.SetHints(km.Select, km.Reset, km.Reload, km.Back)

	return &View{
		styles:          s,
		keymap:          km,
		settingsService: settingsService,
		status:          bar,
		width:           80,
		height:          24,
	}
}

// Init loads the settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsLoaded{Err: errNoService}
		}
		entries, err := svc.Entries()
		return messages.SettingsLoaded{Entries: entries, Path: svc.Path(), Err: err}
	}
}

func (v *View) save(key, value string) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Key: key, Err: errNoService}
		}
		return messages.SettingsSaved{Key: key, Err: svc.Set(key, value)}
	}
}

func (v *View) reset(key string) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Key: key, Err: errNoService}
		}
		return messages.SettingsSaved{Key: key, Err: svc.Reset(key)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.status.Fail(msg.Err)
			return v, nil
		}
		v.entries = msg.Entries
		v.path = msg.Path
		v.selected = min(v.selected, max(len(v.entries)-1, 0))
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.status.Fail(msg.Err)
			return v, nil
		}
		v.status.Done(fmt.Sprintf("Saved %s", msg.Key))
		return v, v.loadSettings()

	case messages.ConfigChanged:
		v.status.Done("Config file changed, reloaded")
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.form != nil {
			return v.handleFormKeys(msg)
		}
		return v.handleListKeys(msg)
	}

	var cmd tea.Cmd
	if v.form != nil {
		v.form, cmd = v.form.Update(msg)
		return v, cmd
	}
	v.status, cmd = v.status.Update(msg)
	return v, cmd
}

func (v *View) handleListKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case key.Matches(msg, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case key.Matches(msg, v.keymap.Down):
		if v.selected < len(v.entries)-1 {
			v.selected++
		}
	case key.Matches(msg, v.keymap.Select):
		entry, ok := v.current()
		if !ok {
			return v, nil
		}
		v.form = input.NewForm(v.styles, "Edit "+entry.Key, input.Field{Label: entry.Key})
		v.form.SetWidth(v.width)
		v.form.SetValues(entry.Value)
		return v, v.form.Init()
	case key.Matches(msg, v.keymap.Reset):
		if entry, ok := v.current(); ok {
			return v, v.reset(entry.Key)
		}
	case key.Matches(msg, v.keymap.Reload):
		return v, v.loadSettings()
	}
	return v, nil
}

func (v *View) handleFormKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Back):
		v.form = nil
		return v, nil
	case key.Matches(msg, v.keymap.Select):
		entry, ok := v.current()
		value := v.form.Values()[0]
		v.form = nil
		if !ok {
			return v, nil
		}
		return v, v.save(entry.Key, value)
	}
	var cmd tea.Cmd
	v.form, cmd = v.form.Update(msg)
	return v, cmd
}

func (v *View) current() (domain.SettingEntry, bool) {
	if v.selected < 0 || v.selected >= len(v.entries) {
		return domain.SettingEntry{}, false
	}
	return v.entries[v.selected], true
}

// View renders the settings list or the edit form.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.form != nil {
		b.WriteString(v.form.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("[Enter] Save  [Esc] Cancel"))
		return b.String()
	}

	width := 0
	for _, e := range v.entries {
		width = max(width, len(e.Key))
	}
	for i, e := range v.entries {
		cursor := "  "
		if i == v.selected {
			cursor = "> "
		}
		value := e.Value
		if value == "" {
			value = "(not set)"
		}
		line := fmt.Sprintf("%-*s  %s", width, e.Key, value)
		if i == v.selected {
			line = v.styles.Selected.Render(line)
		} else {
			line = v.styles.Normal.Render(line)
		}
		b.WriteString(cursor + line)
		if e.Default {
			b.WriteString(v.styles.Muted.Render("  default"))
		}
		b.WriteString("\n")
	}
	if v.path != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Config file: " + v.path))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.status.View())
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.status.SetWidth(width)
	if v.form != nil {
		v.form.SetWidth(width)
	}
}

// Reset returns to the list with the first entry selected.
func (v *View) Reset() {
	v.form = nil
	v.selected = 0
	v.status.Clear()
}

// Entries returns the loaded settings.
func (v *View) Entries() []domain.SettingEntry {
	return v.entries
}

// Selected returns the index of the selected entry.
func (v *View) Selected() int {
	return v.selected
}

// Editing reports whether the edit form is open.
func (v *View) Editing() bool {
	return v.form != nil
}

// Status returns the status bar.
func (v *View) Status() *status.Bar {
	return v.status
}
