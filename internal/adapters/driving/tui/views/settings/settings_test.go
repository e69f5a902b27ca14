package settings

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ikeepcalm/ad/internal/adapters/driven/storage/memory"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/components/status"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/messages"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/styles"
	"github.com/ikeepcalm/ad/internal/core/domain"
	"github.com/ikeepcalm/ad/internal/core/services"
)

// MockSettingsService is a mock implementation of driving.SettingsService.
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get() (*domain.Settings, error) {
	args := m.Called()
	if s, ok := args.Get(0).(*domain.Settings); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSettingsService) Entries() ([]domain.SettingEntry, error) {
	args := m.Called()
	if e, ok := args.Get(0).([]domain.SettingEntry); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSettingsService) Set(key, value string) error {
	return m.Called(key, value).Error(0)
}

func (m *MockSettingsService) Reset(key string) error {
	return m.Called(key).Error(0)
}

func (m *MockSettingsService) Path() string {
	return m.Called().String(0)
}

func (m *MockSettingsService) GetDefaults() domain.Settings {
	return *domain.DefaultSettings()
}

func newRealView(t *testing.T) (*View, *services.SettingsService) {
	t.Helper()
	svc := services.NewSettingsService(memory.NewConfigStore())
	view := NewView(styles.DefaultStyles(), svc)
	view.SetDimensions(100, 40)
	run(view, view.Init())
	return view, svc
}

// run feeds the result of cmd back into the view until no command remains.
func run(v *View, cmd tea.Cmd) {
	for i := 0; cmd != nil && i < 10; i++ {
		msg := cmd()
		if msg == nil {
			return
		}
		_, cmd = v.Update(msg)
	}
}

// press sends a key and drains the commands it produces. Only use it for
// keys that do not open the edit form, whose cursor blinks forever.
func press(v *View, msg tea.KeyMsg) {
	_, cmd := v.Update(msg)
	run(v, cmd)
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func indexOf(entries []domain.SettingEntry, key string) int {
	for i, e := range entries {
		if e.Key == key {
			return i
		}
	}
	return -1
}

func TestNewView(t *testing.T) {
	svc := new(MockSettingsService)

	view := NewView(styles.DefaultStyles(), svc)

	require.NotNil(t, view)
	assert.Equal(t, svc, view.settingsService)
	assert.False(t, view.Editing())
	assert.Empty(t, view.Entries())
}

func TestNewView_NilStyles(t *testing.T) {
	view := NewView(nil, nil)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
}

func TestView_Init_LoadsEntries(t *testing.T) {
	view, svc := newRealView(t)

	entries, err := svc.Entries()
	require.NoError(t, err)
	assert.Equal(t, entries, view.Entries())
	assert.Contains(t, view.View(), "sort.memory_mb")
	assert.Contains(t, view.View(), "aco.ants")
}

func TestView_Init_NilService(t *testing.T) {
	view := NewView(nil, nil)

	run(view, view.Init())

	assert.Equal(t, status.StateError, view.Status().State())
}

func TestView_Navigate(t *testing.T) {
	view, _ := newRealView(t)

	view.Update(runeKey('j'))
	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, view.Selected())

	view.Update(runeKey('k'))
	assert.Equal(t, 1, view.Selected())

	for range 50 {
		view.Update(runeKey('j'))
	}
	assert.Equal(t, len(view.Entries())-1, view.Selected())
}

func TestView_EditAndSave(t *testing.T) {
	view, svc := newRealView(t)
	view.selected = indexOf(view.Entries(), "sort.memory_mb")
	require.GreaterOrEqual(t, view.selected, 0)

	view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, view.Editing())
	assert.Contains(t, view.View(), "Edit sort.memory_mb")

	view.form.SetValues("64")
	press(view, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, view.Editing())
	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, 64, settings.Sort.MemoryMB)
	assert.Equal(t, status.StateDone, view.Status().State())
	assert.Equal(t, "64", view.Entries()[view.selected].Value)
	assert.False(t, view.Entries()[view.selected].Default)
}

func TestView_EditInvalidValue(t *testing.T) {
	view, _ := newRealView(t)
	view.selected = indexOf(view.Entries(), "aco.rho")

	view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	view.form.SetValues("not-a-number")
	press(view, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, status.StateError, view.Status().State())
}

func TestView_EditCancel(t *testing.T) {
	view, svc := newRealView(t)
	before, _ := svc.Entries()

	view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	view.form.SetValues("/tmp/elsewhere")
	view.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, view.Editing())
	after, _ := svc.Entries()
	assert.Equal(t, before, after)
}

func TestView_ResetEntry(t *testing.T) {
	view, svc := newRealView(t)
	require.NoError(t, svc.Set("aco.ants", "7"))
	run(view, view.loadSettings())
	view.selected = indexOf(view.Entries(), "aco.ants")

	press(view, runeKey('x'))

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, svc.GetDefaults().ACO.Ants, settings.ACO.Ants)
	assert.True(t, view.Entries()[view.selected].Default)
}

func TestView_ConfigChangedReloads(t *testing.T) {
	view, svc := newRealView(t)
	require.NoError(t, svc.Set("users.page_size", "5"))

	_, cmd := view.Update(messages.ConfigChanged{})
	run(view, cmd)

	idx := indexOf(view.Entries(), "users.page_size")
	assert.Equal(t, "5", view.Entries()[idx].Value)
	assert.Contains(t, view.Status().Message(), "reloaded")
}

func TestView_EscGoesToMenu(t *testing.T) {
	view, _ := newRealView(t)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_SaveError(t *testing.T) {
	svc := new(MockSettingsService)
	svc.On("Entries").Return([]domain.SettingEntry{{Key: "data.dir", Default: true}}, nil)
	svc.On("Path").Return("/tmp/ad/config.toml")
	svc.On("Set", "data.dir", "/x").Return(errors.New("disk full"))
	view := NewView(nil, svc)
	run(view, view.Init())

	assert.Contains(t, view.View(), "(not set)")
	assert.Contains(t, view.View(), "/tmp/ad/config.toml")

	view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	view.form.SetValues("/x")
	press(view, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, status.StateError, view.Status().State())
	assert.Contains(t, view.Status().Message(), "disk full")
	svc.AssertExpectations(t)
}

func TestView_LoadError(t *testing.T) {
	svc := new(MockSettingsService)
	svc.On("Entries").Return(nil, errors.New("corrupt"))
	svc.On("Path").Return("")
	view := NewView(nil, svc)

	run(view, view.Init())

	assert.Equal(t, status.StateError, view.Status().State())
}

func TestView_Reset(t *testing.T) {
	view, _ := newRealView(t)
	view.selected = 3
	view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	view.Reset()

	assert.False(t, view.Editing())
	assert.Equal(t, 0, view.Selected())
	assert.Equal(t, status.StateReady, view.Status().State())
}
