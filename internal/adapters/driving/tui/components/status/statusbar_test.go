package status

import (
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/keymap"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_Init(t *testing.T) {
	assert.Nil(t, NewBar(nil, nil).Init())
}

func TestStatusBar_Update_IgnoresKeys(t *testing.T) {
	bar := NewBar(nil, nil)

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_StartTicksSpinner(t *testing.T) {
	bar := NewBar(nil, nil)

	cmd := bar.Start("Solving...")
	require.NotNil(t, cmd)
	assert.Equal(t, StateWorking, bar.State())
	assert.Contains(t, bar.View(), "Solving...")

	tick, ok := cmd().(spinner.TickMsg)
	require.True(t, ok)
	_, next := bar.Update(tick)
	assert.NotNil(t, next)
}

func TestStatusBar_TickIgnoredWhenIdle(t *testing.T) {
	bar := NewBar(nil, nil)
	tick := bar.Start("x")()
	bar.Done("finished")

	_, cmd := bar.Update(tick)

	assert.Nil(t, cmd)
}

func TestStatusBar_View_States(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Bar)
		want  string
	}{
		{"ready", func(*Bar) {}, "Ready"},
		{"ready with message", func(b *Bar) { b.SetMessage("3 users") }, "3 users"},
		{"working default", func(b *Bar) { b.SetState(StateWorking) }, "Working..."},
		{"error", func(b *Bar) { b.Fail(errors.New("boom")) }, "Error: boom"},
		{"bare error", func(b *Bar) { b.SetState(StateError) }, "Error"},
		{"done", func(b *Bar) { b.Done("Saved") }, "Saved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			tt.setup(bar)

			assert.Contains(t, bar.View(), tt.want)
		})
	}
}

func TestStatusBar_Hints(t *testing.T) {
	km := keymap.DefaultKeyMap()
	bar := NewBar(nil, km)
	bar.SetWidth(200)

	assert.Contains(t, bar.View(), "esc: back")

	bar.SetHints(km.Generate)
	view := bar.View()
	assert.Contains(t, view, "g: generate")
	assert.NotContains(t, view, "esc: back")
}

func TestStatusBar_FitsOnOneLine(t *testing.T) {
	km := keymap.DefaultKeyMap()
	for _, width := range []int{80, 120, 200} {
		bar := NewBar(nil, km)
		bar.SetWidth(width)
		bar.SetHints(km.TableHelp()[:2]...)
		bar.SetMessage("Loaded 6 users")

		view := bar.View()

		assert.NotContains(t, view, "\n", "width %d", width)
		assert.Equal(t, width, lipgloss.Width(view), "width %d", width)
	}
}

func TestStatusBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.Fail(errors.New("boom"))

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
}

func TestStatusBar_NarrowWidth(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(5)

	assert.NotEmpty(t, bar.View())
}
