package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/keymap"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/messages"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/styles"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/views/history"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/views/menu"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/views/queens"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/views/settings"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/views/tsp"
	"github.com/ikeepcalm/ad/internal/adapters/driving/tui/views/users"
	"github.com/ikeepcalm/ad/internal/core/domain"
	"github.com/ikeepcalm/ad/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView     *menu.View
	usersView    *users.View
	queensView   *queens.View
	tspView      *tsp.View
	historyView  *history.View
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// configChanged receives a value whenever the config file changes.
	configChanged chan struct{}

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       keymap.DefaultKeyMap(),
		menuView:     menu.NewView(s),
		usersView:    users.NewView(s, ports.Users),
		queensView:   queens.NewView(s, ports.Queens, ports.Settings),
		tspView:      tsp.NewView(s, ports.TSP, ports.Settings),
		historyView:  history.NewView(s, ports.History),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.usersView.WithContext(ctx)
	a.queensView.WithContext(ctx)
	a.tspView.WithContext(ctx)
	a.historyView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("ad"),
		a.watchConfig(),
	)
}

// watchConfig starts the config watcher and returns the command that waits
// for its first change. It returns nil when no watcher is configured.
func (a *App) watchConfig() tea.Cmd {
	if a.ports.WatchConfig == nil {
		return nil
	}
	ch := make(chan struct{}, 1)
	a.configChanged = ch
	watch, ctx := a.ports.WatchConfig, a.ctx
	go func() {
		notify := func() {
			select {
			case ch <- struct{}{}:
			default:
			}
		}
		if err := watch(ctx, notify); err != nil {
			logger.Debug("config watcher stopped: %v", err)
		}
	}()
	return a.waitForConfig()
}

// waitForConfig blocks until the watcher reports a change.
func (a *App) waitForConfig() tea.Cmd {
	ch, ctx := a.configChanged, a.ctx
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-ch:
			return messages.ConfigChanged{}
		case <-ctx.Done():
			return nil
		}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			a.tspView.Stop()
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if key.Matches(msg, a.keymap.Back) {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}
		return a, a.updateCurrent(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		// Initialise views when switching to them
		switch msg.View {
		case messages.ViewUsers:
			a.usersView.Reset()
			return a, a.usersView.Init()
		case messages.ViewQueens:
			a.queensView.Reset()
			return a, a.queensView.Init()
		case messages.ViewTSP:
			return a, a.tspView.Init()
		case messages.ViewHistory:
			a.historyView.Reset()
			return a, a.historyView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewMenu, messages.ViewHelp:
		}
		return a, nil

	case messages.UsersLoaded, messages.UserSaved, messages.UserDeleted,
		messages.UserFound, messages.UsersGenerated:
		a.usersView, cmd = a.usersView.Update(msg)
		return a, cmd

	case messages.QueensSolved, messages.QueensFrame:
		a.queensView, cmd = a.queensView.Update(msg)
		return a, cmd

	case messages.TSPSolved:
		a.tspView, cmd = a.tspView.Update(msg)
		return a, cmd

	case messages.HistoryLoaded, messages.HistoryCleared:
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ConfigChanged:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, tea.Batch(cmd, a.waitForConfig())

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (spinner ticks, cursor blinks) to the active view
	return a, a.updateCurrent(msg)
}

// updateCurrent forwards msg to the active view.
func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewUsers:
		a.usersView, cmd = a.usersView.Update(msg)
	case messages.ViewQueens:
		a.queensView, cmd = a.queensView.Update(msg)
	case messages.ViewTSP:
		a.tspView, cmd = a.tspView.Update(msg)
	case messages.ViewHistory:
		a.historyView, cmd = a.historyView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}
	return cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewUsers:
		return a.usersView.View()
	case messages.ViewQueens:
		return a.queensView.View()
	case messages.ViewTSP:
		return a.tspView.View()
	case messages.ViewHistory:
		return a.historyView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewMenu:
	}
	return a.menuView.View()
}

// viewHelp renders the help view from the keymap.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")

	titles := []string{"Navigation", "Users", "Solvers", "General"}
	for i, group := range a.keymap.FullHelp() {
		if i < len(titles) {
			b.WriteString(a.styles.Subtitle.Render(titles[i]))
			b.WriteString("\n")
		}
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.viewAbout())
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("[esc] back to menu  [ctrl+c] quit"))
	return b.String()
}

// viewAbout renders the build facts of the binary.
func (a *App) viewAbout() string {
	version := a.ports.Version
	if version == "" {
		version = "dev"
	}
	build := domain.DefaultBuildDescriptor(version)

	var b strings.Builder
	b.WriteString(a.styles.Subtitle.Render("About"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %-10s %s\n", "version", build.Version))
	b.WriteString(fmt.Sprintf("  %-10s %s\n", "group", build.Group))
	b.WriteString(fmt.Sprintf("  %-10s %s\n", "main", build.EntryPoint()))
	b.WriteString(fmt.Sprintf("  %-10s %s", "encoding", build.Encoding))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.usersView.SetDimensions(width, height)
	a.queensView.SetDimensions(width, height)
	a.tspView.SetDimensions(width, height)
	a.historyView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
