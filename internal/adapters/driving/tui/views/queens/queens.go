// Package queens provides the eight queens solver view for the TUI.
package queens

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/components/status"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/keymap"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/messages"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/styles"
	"github.com/ikeepcalm/ad/internal/core/domain"
	"github.com/ikeepcalm/ad/internal/core/ports/driving"
	"github.com/ikeepcalm/ad/internal/queens"
)

// maxFrames caps how many examined boards are kept for the replay.
const maxFrames = 400

// defaultDelay is used when settings are unavailable.
const defaultDelay = 100 * time.Millisecond

var errNoService = errors.New("queens service not available")

// View solves a board and replays the boards the search examined.
type View struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	queensService   driving.QueensService
	settingsService driving.SettingsService
	status          *status.Bar
	ctx             context.Context
	rng             *rand.Rand

	algorithm domain.QueensAlgorithm
	board     domain.Board
	result    *domain.QueensResult

	frames    []domain.Board
	frame     int
	animating bool
	solving   bool

	width  int
	height int
	ready  bool
}

// NewView creates a new queens view with a random starting board.
func NewView(s *styles.Styles, queensService driving.QueensService, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s, km)
	bar.SetHints(km.Select, km.Toggle, km.Random, km.Back)

	seed := uint64(time.Now().UnixNano())
	v := &View{
		styles:          s,
		keymap:          km,
		queensService:   queensService,
		settingsService: settingsService,
		status:          bar,
		ctx:             context.Background(),
		rng:             rand.New(rand.NewPCG(seed, seed>>1|1)),
		algorithm:       domain.QueensLDFS,
		width:           80,
		height:          24,
	}
	v.board = queens.Random(v.rng)
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

func (v *View) solve() tea.Cmd {
	svc, ctx := v.queensService, v.ctx
	board := v.board
	req := domain.QueensRequest{Algorithm: v.algorithm, Board: &board}
	return func() tea.Msg {
		if svc == nil {
			return messages.QueensSolved{Err: errNoService}
		}
		frames := make([]domain.Board, 0, maxFrames)
		onBoard := func(b domain.Board) {
			if len(frames) < maxFrames {
				frames = append(frames, b)
			}
		}
		result, err := svc.Solve(ctx, req, onBoard)
		if result != nil && result.Solved &&
			(len(frames) == 0 || frames[len(frames)-1] != result.Solution) {
			frames = append(frames, result.Solution)
		}
		return messages.QueensSolved{Result: result, Frames: frames, Err: err}
	}
}

func (v *View) delay() time.Duration {
	if v.settingsService == nil {
		return defaultDelay
	}
	settings, err := v.settingsService.Get()
	if err != nil {
		return defaultDelay
	}
	return time.Duration(settings.Queens.DelayMS) * time.Millisecond
}

func (v *View) nextFrame() tea.Cmd {
	return tea.Tick(v.delay(), func(time.Time) tea.Msg {
		return messages.QueensFrame{}
	})
}

// Update handles messages for the queens view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.QueensSolved:
		v.solving = false
		v.result = msg.Result
		if msg.Err != nil {
			v.status.Fail(msg.Err)
			return v, nil
		}
		v.frames = msg.Frames
		v.frame = 0
		if len(v.frames) == 0 {
			v.finish()
			return v, nil
		}
		v.animating = true
		v.status.SetState(status.StateReady)
		v.status.SetMessage("Replaying search...")
		return v, v.nextFrame()

	case messages.QueensFrame:
		if !v.animating {
			return v, nil
		}
		v.frame++
		if v.frame >= len(v.frames) {
			v.finish()
			return v, nil
		}
		return v, v.nextFrame()

	case tea.KeyMsg:
		return v.handleKeys(msg)
	}

	var cmd tea.Cmd
	v.status, cmd = v.status.Update(msg)
	return v, cmd
}

func (v *View) finish() {
	v.animating = false
	v.frame = max(len(v.frames)-1, 0)
	if v.result != nil {
		v.status.Done(fmt.Sprintf("Solved in %s iterations", humanize.Comma(int64(v.result.Stats.Iterations))))
	}
}

func (v *View) handleKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.solving {
		return v, nil
	}
	switch {
	case key.Matches(msg, v.keymap.Back):
		v.animating = false
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case key.Matches(msg, v.keymap.Select):
		if v.animating {
			v.finish()
			return v, nil
		}
		v.solving = true
		v.result = nil
		v.frames = nil
		return v, tea.Batch(v.status.Start("Solving..."), v.solve())
	case key.Matches(msg, v.keymap.Toggle):
		if v.algorithm == domain.QueensLDFS {
			v.algorithm = domain.QueensAStar
		} else {
			v.algorithm = domain.QueensLDFS
		}
	case key.Matches(msg, v.keymap.Random):
		v.board = queens.Random(v.rng)
		v.clearResult()
	}
	return v, nil
}

func (v *View) clearResult() {
	v.animating = false
	v.result = nil
	v.frames = nil
	v.frame = 0
	v.status.Clear()
}

// View renders the board and search statistics.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Eight Queens"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Subtitle.Render(v.algorithm.Description()))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("Start %s, %d attacking pairs", v.board, queens.Attacks(v.board))))
	b.WriteString("\n\n")

	shown := v.Current()
	b.WriteString(v.renderBoard(shown))
	b.WriteString("\n")

	if v.result != nil {
		stats := v.result.Stats
		b.WriteString(v.styles.Normal.Render(fmt.Sprintf(
			"Iterations: %s   Total nodes: %s   Max nodes in memory: %s",
			humanize.Comma(int64(stats.Iterations)),
			humanize.Comma(int64(stats.TotalNodes)),
			humanize.Comma(int64(stats.MaxNodesInMemory)),
		)))
		b.WriteString("\n")
		if v.animating {
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("Frame %d of %d", v.frame+1, len(v.frames))))
			b.WriteString("\n")
		} else if v.result.Solved {
			b.WriteString(v.styles.Success.Render("Solution: " + v.result.Solution.String()))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.status.View())
	return b.String()
}

func (v *View) renderBoard(board domain.Board) string {
	rows := make([]string, domain.BoardSize)
	for row := range domain.BoardSize {
		squares := make([]string, domain.BoardSize)
		for col := range domain.BoardSize {
			style := v.styles.LightSquare
			if (row+col)%2 == 1 {
				style = v.styles.DarkSquare
			}
			if int(board[row]) == col {
				squares[col] = v.styles.Queen.Inherit(style).Render(" Q ")
			} else {
				squares[col] = style.Render("   ")
			}
		}
		rows[row] = lipgloss.JoinHorizontal(lipgloss.Top, squares...)
	}
	return v.styles.Border.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// Current returns the board on screen: the replayed frame, the solution or
// the starting board.
func (v *View) Current() domain.Board {
	switch {
	case v.frame < len(v.frames):
		return v.frames[v.frame]
	case v.result != nil && v.result.Solved:
		return v.result.Solution
	default:
		return v.board
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.status.SetWidth(width)
}

// SetBoard replaces the starting board.
func (v *View) SetBoard(b domain.Board) {
	v.board = b
	v.clearResult()
}

// Board returns the starting board.
func (v *View) Board() domain.Board {
	return v.board
}

// Algorithm returns the selected algorithm.
func (v *View) Algorithm() domain.QueensAlgorithm {
	return v.algorithm
}

// Result returns the last search result.
func (v *View) Result() *domain.QueensResult {
	return v.result
}

// Animating reports whether a replay is running.
func (v *View) Animating() bool {
	return v.animating
}

// Reset stops any replay and clears the last result.
func (v *View) Reset() {
	v.solving = false
	v.clearResult()
}

// Status returns the status bar.
func (v *View) Status() *status.Bar {
	return v.status
}
