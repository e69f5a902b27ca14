// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/ikeepcalm/ad/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewUsers is the paged user table.
	ViewUsers
	// ViewQueens is the eight queens solver.
	ViewQueens
	// ViewTSP is the ant colony solver.
	ViewTSP
	// ViewHistory lists recorded runs.
	ViewHistory
	// ViewSettings is the settings editor.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewUsers:
		return "users"
	case ViewQueens:
		return "queens"
	case ViewTSP:
		return "tsp"
	case ViewHistory:
		return "history"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// UsersLoaded carries one page of the user table.
type UsersLoaded struct {
	Page *domain.UserPage
	Err  error
}

// UserSaved signals a user was created or updated.
type UserSaved struct {
	User    domain.User
	Created bool
	Err     error
}

// UserDeleted signals a user was deleted.
type UserDeleted struct {
	ID  int64
	Err error
}

// UserFound carries the result of an indexed lookup.
type UserFound struct {
	ID     int64
	Lookup *domain.UserLookup
	Err    error
}

// UsersGenerated signals synthetic users were appended.
type UsersGenerated struct {
	Count int
	Err   error
}

// QueensSolved carries a finished search and the boards it examined.
type QueensSolved struct {
	Result *domain.QueensResult
	Frames []domain.Board
	Err    error
}

// QueensFrame advances the queens animation by one board.
type QueensFrame struct{}

// TSPSolved carries a finished colony run.
type TSPSolved struct {
	Report *domain.TSPReport
	Err    error
}

// HistoryLoaded carries recorded runs, newest first.
type HistoryLoaded struct {
	Runs []domain.Run
	Err  error
}

// HistoryCleared signals the run history was deleted.
type HistoryCleared struct {
	Count int
	Err   error
}

// SettingsLoaded carries every setting with its effective value.
type SettingsLoaded struct {
	Entries []domain.SettingEntry
	Path    string
	Err     error
}

// SettingsSaved signals a setting was set or reset.
type SettingsSaved struct {
	Key string
	Err error
}

// ConfigChanged signals the config file changed on disk.
type ConfigChanged struct{}
