package mcp

import (
	"github.com/ikeepcalm/ad/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Users backs user_get, user_page and the ad://users resource.
	Users driving.UserService

	// Queens backs queens_solve.
	Queens driving.QueensService

	// TSP backs tsp_solve.
	TSP driving.TSPService

	// Sort backs sort_file.
	Sort driving.SortService

	// History backs the ad://history resources.
	History driving.HistoryService

	// Version is reported to clients. Empty means DefaultVersion.
	Version string
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Users == nil {
		return ErrMissingUserService
	}
	// the engine ports are optional; their tools report errUnavailable
	return nil
}
