package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPorts(t *testing.T) {
	full := newTestPorts(t)

	ports := NewPorts(full.Users, full.Settings)

	require.NotNil(t, ports)
	assert.Equal(t, full.Users, ports.Users)
	assert.Equal(t, full.Settings, ports.Settings)
	assert.Nil(t, ports.Queens)
	assert.Nil(t, ports.WatchConfig)
	assert.NoError(t, ports.Validate())
}

func TestPorts_Validate_AllSet(t *testing.T) {
	assert.NoError(t, newTestPorts(t).Validate())
}

func TestPorts_Validate_MissingUsers(t *testing.T) {
	ports := newTestPorts(t)
	ports.Users = nil

	assert.ErrorIs(t, ports.Validate(), ErrMissingUserService)
}

func TestPorts_Validate_MissingSettings(t *testing.T) {
	ports := newTestPorts(t)
	ports.Settings = nil

	assert.ErrorIs(t, ports.Validate(), ErrMissingSettingsService)
}

func TestPorts_Validate_OptionalServices(t *testing.T) {
	ports := newTestPorts(t)
	ports.Queens = nil
	ports.TSP = nil
	ports.History = nil

	assert.NoError(t, ports.Validate())
}
