// Package tsp provides the ant colony solver view for the TUI.
package tsp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/components/status"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/keymap"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/messages"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/styles"
	"github.com/ikeepcalm/ad/internal/core/domain"
	"github.com/ikeepcalm/ad/internal/core/ports/driving"
)

const (
	// rounds is how many times a run repeats with growing iterations.
	rounds = 3

	// vertexStep is how much +/- changes the instance size.
	vertexStep = 10

	// fallbackVertices is used when settings are unavailable.
	fallbackVertices = 20
)

var errNoService = errors.New("tsp service not available")

// View runs the colony on a random instance and tabulates each round.
type View struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	tspService      driving.TSPService
	settingsService driving.SettingsService
	status          *status.Bar
	ctx             context.Context
	cancel          context.CancelFunc

	vertices    int
	twoCriteria bool
	report      *domain.TSPReport
	solving     bool

	width  int
	height int
	ready  bool
}

// NewView creates a new ant colony view.
func NewView(s *styles.Styles, tspService driving.TSPService, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s, km)
	bar.SetHints(km.Select, km.Toggle, km.More, km.Back)

	v := &View{
		styles:          s,
		keymap:          km,
		tspService:      tspService,
		settingsService: settingsService,
		status:          bar,
		ctx:             context.Background(),
		vertices:        fallbackVertices,
		width:           80,
		height:          24,
	}
	v.loadDefaults()
	return v
}

// loadDefaults takes the instance size from settings.
func (v *View) loadDefaults() {
	if v.settingsService == nil {
		return
	}
	settings, err := v.settingsService.Get()
	if err != nil {
		return
	}
	v.vertices = settings.ACO.Vertices
	if v.twoCriteria {
		v.vertices = settings.Tuner.Cities
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init refreshes defaults from settings.
func (v *View) Init() tea.Cmd {
	if !v.solving && v.report == nil {
		v.loadDefaults()
	}
	return nil
}

func (v *View) solve() tea.Cmd {
	svc := v.tspService
	ctx, cancel := context.WithCancel(v.ctx)
	v.cancel = cancel
	req := domain.TSPRequest{
		Vertices:    v.vertices,
		TwoCriteria: v.twoCriteria,
		Rounds:      rounds,
	}
	return func() tea.Msg {
		defer cancel()
		if svc == nil {
			return messages.TSPSolved{Err: errNoService}
		}
		report, err := svc.Solve(ctx, req, nil)
		return messages.TSPSolved{Report: report, Err: err}
	}
}

// Update handles messages for the ant colony view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.TSPSolved:
		v.solving = false
		v.cancel = nil
		v.report = msg.Report
		if msg.Err != nil {
			v.status.Fail(msg.Err)
			return v, nil
		}
		if msg.Report == nil || len(msg.Report.Rounds) == 0 {
			v.status.Clear()
			return v, nil
		}
		last := msg.Report.Rounds[len(msg.Report.Rounds)-1].Result
		v.status.Done(fmt.Sprintf("Best length %.0f after %d rounds", last.Length, len(msg.Report.Rounds)))
		return v, nil

	case tea.KeyMsg:
		return v.handleKeys(msg)
	}

	var cmd tea.Cmd
	v.status, cmd = v.status.Update(msg)
	return v, cmd
}

func (v *View) handleKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	if key.Matches(msg, v.keymap.Back) {
		v.Stop()
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	if v.solving {
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keymap.Select):
		v.solving = true
		v.report = nil
		return v, tea.Batch(
			v.status.Start(fmt.Sprintf("Running %d rounds on %d vertices...", rounds, v.vertices)),
			v.solve(),
		)
	case key.Matches(msg, v.keymap.Toggle):
		v.twoCriteria = !v.twoCriteria
		v.report = nil
		v.loadDefaults()
	case key.Matches(msg, v.keymap.More):
		v.vertices += vertexStep
	case key.Matches(msg, v.keymap.Less):
		v.vertices = max(v.vertices-vertexStep, 2)
	}
	return v, nil
}

// Stop cancels a running colony.
func (v *View) Stop() {
	if v.cancel != nil {
		v.cancel()
	}
}

// View renders the instance settings and the round table.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Ant Colony"))
	b.WriteString("\n\n")

	mode := "symmetric distances, classic colony"
	if v.twoCriteria {
		mode = "distance and cost, elitist colony"
	}
	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("%d vertices", v.vertices)))
	b.WriteString(v.styles.Muted.Render("  " + mode))
	b.WriteString("\n\n")

	if v.report != nil && len(v.report.Rounds) > 0 {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("Seed: %d", v.report.Seed)))
		b.WriteString("\n")
		b.WriteString(v.renderRounds())
		b.WriteString("\n")
		best := v.report.Rounds[len(v.report.Rounds)-1].Result
		tour := lipgloss.NewStyle().Width(max(v.width-2, 20)).Render("Best tour: " + formatTour(best.Tour))
		b.WriteString(v.styles.Normal.Render(tour))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.status.View())
	return b.String()
}

func (v *View) renderRounds() string {
	rows := make([][]string, 0, len(v.report.Rounds))
	for _, r := range v.report.Rounds {
		rows = append(rows, []string{
			strconv.Itoa(r.Round),
			strconv.Itoa(r.Result.Iterations),
			fmt.Sprintf("%.0f", r.Result.GreedyLength),
			fmt.Sprintf("%.0f", r.Result.Length),
			r.Result.Duration.Round(time.Millisecond).String(),
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(v.styles.Muted).
		Headers("Round", "Iterations", "Greedy", "Best", "Elapsed").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return v.styles.TableHeader
			}
			return v.styles.Normal.Padding(0, 1)
		}).
		Render()
}

func formatTour(tour []int) string {
	if len(tour) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(tour)+1)
	for _, vertex := range tour {
		parts = append(parts, strconv.Itoa(vertex))
	}
	parts = append(parts, strconv.Itoa(tour[0]))
	return strings.Join(parts, " -> ")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.status.SetWidth(width)
}

// SetVertices sets the instance size.
func (v *View) SetVertices(n int) {
	v.vertices = n
}

// Vertices returns the instance size.
func (v *View) Vertices() int {
	return v.vertices
}

// TwoCriteria reports whether instances carry a cost criterion.
func (v *View) TwoCriteria() bool {
	return v.twoCriteria
}

// Report returns the last report.
func (v *View) Report() *domain.TSPReport {
	return v.report
}

// Solving reports whether a colony is running.
func (v *View) Solving() bool {
	return v.solving
}

// Status returns the status bar.
func (v *View) Status() *status.Bar {
	return v.status
}
