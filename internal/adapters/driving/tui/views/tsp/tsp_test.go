package tsp

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikeepcalm/ad/internal/adapters/driven/storage/memory"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/components/status"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/messages"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/styles"
	"github.com/ikeepcalm/ad/internal/core/domain"
	"github.com/ikeepcalm/ad/internal/core/services"
)

// tspFunc adapts a function to driving.TSPService.
type tspFunc func(ctx context.Context, req domain.TSPRequest) (*domain.TSPReport, error)

func (f tspFunc) Solve(ctx context.Context, req domain.TSPRequest, _ func(int, domain.IterationStat)) (*domain.TSPReport, error) {
	return f(ctx, req)
}

func (f tspFunc) Tune(context.Context, domain.TuneRequest, func(domain.Trial)) (*domain.TuneResult, error) {
	return nil, domain.ErrInvalidInput
}

func newTestView(t *testing.T) *View {
	t.Helper()
	settings := services.NewSettingsService(memory.NewConfigStore())
	for key, value := range map[string]string{
		"aco.vertices":   "8",
		"aco.ants":       "5",
		"aco.iterations": "10",
		"tuner.cities":   "6",
	} {
		require.NoError(t, settings.Set(key, value))
	}
	view := NewView(styles.DefaultStyles(), services.NewTSPService(settings, memory.NewRunStore()), settings)
	view.SetDimensions(120, 40)
	return view
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// solve presses enter and delivers the colony result directly.
func solve(t *testing.T, v *View) {
	t.Helper()
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.True(t, v.Solving())
	require.Equal(t, status.StateWorking, v.Status().State())
	v.Update(v.solve()())
}

func TestNewView_Defaults(t *testing.T) {
	view := NewView(nil, nil, nil)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
	assert.Equal(t, fallbackVertices, view.Vertices())
	assert.False(t, view.TwoCriteria())
	assert.Nil(t, view.Init())
}

func TestNewView_VerticesFromSettings(t *testing.T) {
	assert.Equal(t, 8, newTestView(t).Vertices())
}

func TestView_ToggleTwoCriteria(t *testing.T) {
	view := newTestView(t)

	view.Update(runeKey('t'))
	assert.True(t, view.TwoCriteria())
	assert.Equal(t, 6, view.Vertices())
	assert.Contains(t, view.View(), "elitist")

	view.Update(runeKey('t'))
	assert.False(t, view.TwoCriteria())
	assert.Equal(t, 8, view.Vertices())
}

func TestView_ResizeInstance(t *testing.T) {
	view := newTestView(t)

	view.Update(runeKey('+'))
	assert.Equal(t, 18, view.Vertices())
	view.Update(runeKey('-'))
	view.Update(runeKey('-'))
	assert.Equal(t, 2, view.Vertices())
	view.Update(runeKey('-'))
	assert.Equal(t, 2, view.Vertices())
}

func TestView_Solve(t *testing.T) {
	view := newTestView(t)

	solve(t, view)

	assert.False(t, view.Solving())
	report := view.Report()
	require.NotNil(t, report)
	require.Len(t, report.Rounds, rounds)
	assert.Equal(t, 8, report.Vertices)
	assert.Equal(t, 10, report.Rounds[0].Params.Iterations)
	assert.Equal(t, 15, report.Rounds[1].Params.Iterations)
	assert.Equal(t, status.StateDone, view.Status().State())

	output := view.View()
	assert.Contains(t, output, "Round")
	assert.Contains(t, output, "Greedy")
	assert.Contains(t, output, "Best tour: ")
	assert.Contains(t, output, "Seed:")
}

func TestView_SolveTwoCriteria(t *testing.T) {
	view := newTestView(t)
	view.Update(runeKey('t'))

	solve(t, view)

	require.NotNil(t, view.Report())
	assert.Equal(t, 6, view.Report().Vertices)
	assert.Equal(t, domain.ElitistACOParams().Elitists, view.Report().Rounds[0].Params.Elitists)
}

func TestView_SolveError(t *testing.T) {
	view := newTestView(t)
	view.SetVertices(1)

	solve(t, view)

	assert.Equal(t, status.StateError, view.Status().State())
	assert.NotContains(t, view.View(), "Best tour")
}

func TestView_NilService(t *testing.T) {
	view := NewView(nil, nil, nil)

	solve(t, view)

	assert.Equal(t, status.StateError, view.Status().State())
}

func TestView_KeysIgnoredWhileSolving(t *testing.T) {
	view := newTestView(t)
	view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	view.Update(runeKey('+'))

	assert.Equal(t, 8, view.Vertices())
}

func TestView_EscCancelsRun(t *testing.T) {
	var cancelled bool
	svc := tspFunc(func(ctx context.Context, _ domain.TSPRequest) (*domain.TSPReport, error) {
		<-ctx.Done()
		cancelled = true
		return nil, ctx.Err()
	})
	view := NewView(nil, svc, nil)
	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	run := view.solve()

	_, back := view.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, back)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, back())

	msg, ok := run().(messages.TSPSolved)
	require.True(t, ok)
	assert.ErrorIs(t, msg.Err, context.Canceled)
	assert.True(t, cancelled)
}

func TestView_EscGoesToMenu(t *testing.T) {
	_, cmd := newTestView(t).Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestFormatTour(t *testing.T) {
	assert.Equal(t, "-", formatTour(nil))
	assert.Equal(t, "0 -> 2 -> 1 -> 0", formatTour([]int{0, 2, 1}))
}

func TestView_WithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	view := NewView(nil, nil, nil).WithContext(ctx)

	assert.Equal(t, ctx, view.ctx)
}
