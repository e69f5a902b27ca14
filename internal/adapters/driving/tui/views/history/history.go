// Package history provides the run history view for the TUI.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/components/status"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/keymap"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/messages"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/styles"
	"github.com/ikeepcalm/ad/internal/core/domain"
	"github.com/ikeepcalm/ad/internal/core/ports/driving"
)

// listLimit caps how many runs the view loads.
const listLimit = 100

var errNoService = errors.New("history service not available")

// View lists recorded runs and shows one in full.
type View struct {
	styles         *styles.Styles
	keymap         *keymap.KeyMap
	historyService driving.HistoryService
	status         *status.Bar
	ctx            context.Context

	runs     []domain.Run
	selected int

	// detail is non-nil while a run is shown in full.
	detail     *viewport.Model
	confirming bool

	width  int
	height int
	ready  bool
}

// NewView creates a new history view.
func NewView(s *styles.Styles, historyService driving.HistoryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s, km)
	bar.SetHints(km.Select, km.Reload, km.Reset, km.Back)

	return &View{
		styles:         s,
		keymap:         km,
		historyService: historyService,
		status:         bar,
		ctx:            context.Background(),
		width:          80,
		height:         24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the most recent runs.
func (v *View) Init() tea.Cmd {
	return v.loadRuns()
}

func (v *View) loadRuns() tea.Cmd {
	svc, ctx := v.historyService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.HistoryLoaded{Err: errNoService}
		}
		runs, err := svc.List(ctx, domain.RunFilter{Limit: listLimit})
		return messages.HistoryLoaded{Runs: runs, Err: err}
	}
}

func (v *View) clear() tea.Cmd {
	svc, ctx := v.historyService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.HistoryCleared{Err: errNoService}
		}
		n, err := svc.Clear(ctx)
		return messages.HistoryCleared{Count: n, Err: err}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.HistoryLoaded:
		if msg.Err != nil {
			v.status.Fail(msg.Err)
			return v, nil
		}
		v.runs = msg.Runs
		v.selected = min(v.selected, max(len(v.runs)-1, 0))
		if v.status.State() != status.StateDone {
			v.status.SetMessage(fmt.Sprintf("%d runs", len(v.runs)))
		}
		return v, nil

	case messages.HistoryCleared:
		if msg.Err != nil {
			v.status.Fail(msg.Err)
			return v, nil
		}
		v.status.Done(fmt.Sprintf("Deleted %d runs", msg.Count))
		return v, v.loadRuns()

	case tea.KeyMsg:
		switch {
		case v.confirming:
			return v.handleConfirmKeys(msg)
		case v.detail != nil:
			return v.handleDetailKeys(msg)
		default:
			return v.handleListKeys(msg)
		}
	}

	return v, nil
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
		if v.selected < len(v.runs)-1 {
			v.selected++
		}
	case key.Matches(msg, v.keymap.Select):
		if v.selected < len(v.runs) {
			v.openDetail(v.runs[v.selected])
		}
	case key.Matches(msg, v.keymap.Reload):
		v.status.Clear()
		return v, v.loadRuns()
	case key.Matches(msg, v.keymap.Reset):
		if len(v.runs) > 0 {
			v.confirming = true
		}
	}
	return v, nil
}

func (v *View) handleConfirmKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Confirm):
		v.confirming = false
		return v, v.clear()
	case key.Matches(msg, v.keymap.Deny):
		v.confirming = false
	}
	return v, nil
}

func (v *View) handleDetailKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	if key.Matches(msg, v.keymap.Back) {
		v.detail = nil
		return v, nil
	}
	vp, cmd := v.detail.Update(msg)
	v.detail = &vp
	return v, cmd
}

func (v *View) openDetail(run domain.Run) {
	content, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		v.status.Fail(err)
		return
	}
	vp := viewport.New(v.width, max(v.height-4, 5))
	vp.SetContent(string(content))
	v.detail = &vp
}

// View renders the run list or the selected run.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("History"))
	b.WriteString("\n\n")

	if v.detail != nil {
		b.WriteString(v.detail.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("[j/k] Scroll  [Esc] Back"))
		return b.String()
	}

	if len(v.runs) == 0 {
		b.WriteString(v.styles.Muted.Render("No runs recorded."))
		b.WriteString("\n")
	} else {
		b.WriteString(v.renderTable())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.confirming {
		b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Delete all %d runs? [y/n]", len(v.runs))))
		return b.String()
	}
	b.WriteString(v.status.View())
	return b.String()
}

func (v *View) renderTable() string {
	rows := make([][]string, 0, len(v.runs))
	for _, r := range v.runs {
		outcome := "ok"
		if !r.Succeeded() {
			outcome = "failed"
		}
		rows = append(rows, []string{
			shortID(r.ID),
			string(r.Kind),
			humanize.Time(r.StartedAt),
			r.Duration.Round(time.Millisecond).String(),
			outcome,
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(v.styles.Muted).
		Headers("ID", "Kind", "Started", "Duration", "Status").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return v.styles.TableHeader
			case row == v.selected:
				return v.styles.Selected.Padding(0, 1)
			default:
				return v.styles.Normal.Padding(0, 1)
			}
		}).
		Render()
}

// shortID abbreviates a UUID the way git abbreviates hashes.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.status.SetWidth(width)
	if v.detail != nil {
		v.detail.Width = width
		v.detail.Height = max(height-4, 5)
	}
}

// Reset returns to the list.
func (v *View) Reset() {
	v.detail = nil
	v.confirming = false
	v.selected = 0
	v.status.Clear()
}

// Runs returns the loaded runs.
func (v *View) Runs() []domain.Run {
	return v.runs
}

// Selected returns the index of the selected run.
func (v *View) Selected() int {
	return v.selected
}

// ShowingDetail reports whether a run is shown in full.
func (v *View) ShowingDetail() bool {
	return v.detail != nil
}

// Confirming reports whether the clear prompt is open.
func (v *View) Confirming() bool {
	return v.confirming
}

// Status returns the status bar.
func (v *View) Status() *status.Bar {
	return v.status
}
