// Package tui provides an interactive terminal user interface for ad.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"context"

	"github.com/ikeepcalm/ad/internal/core/ports/driving"
)

// WatchFunc blocks until ctx is done, calling onChange whenever the
// configuration changes outside the TUI.
type WatchFunc func(ctx context.Context, onChange func()) error

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Users manages the B-tree indexed user table.
	Users driving.UserService

	// Queens solves eight queens boards.
	Queens driving.QueensService

	// TSP runs the ant colony.
	TSP driving.TSPService

	// History lists recorded runs.
	History driving.HistoryService

	// Settings manages application settings.
	Settings driving.SettingsService

	// WatchConfig reports external edits of the config file. Optional.
	WatchConfig WatchFunc

	// Version is shown in the about section of the help view.
	Version string
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(users driving.UserService, settings driving.SettingsService) *Ports {
	return &Ports{
		Users:    users,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
// Returns an error if a required port is nil.
func (p *Ports) Validate() error {
	if p.Users == nil {
		return ErrMissingUserService
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	return nil
}
