package tui

import (
	"testing"

	"github.com/ikeepcalm/ad/internal/adapters/driven/storage/memory"
	"github.com/ikeepcalm/ad/internal/core/services"
)

// newTestPorts wires real services over in-memory stores.
func newTestPorts(t *testing.T) *Ports {
	t.Helper()
	ports, _ := newTestPortsWithConfig(t)
	return ports
}

// newTestPortsWithConfig also returns the config store behind Settings.
func newTestPortsWithConfig(t *testing.T) (*Ports, *memory.ConfigStore) {
	t.Helper()
	runs := memory.NewRunStore()
	config := memory.NewConfigStore()
	settings := services.NewSettingsService(config)
	return &Ports{
		Users:    services.NewUserService(memory.NewUserStore(), settings),
		Queens:   services.NewQueensService(settings, runs),
		TSP:      services.NewTSPService(settings, runs),
		History:  services.NewHistoryService(runs),
		Settings: settings,
	}, config
}
