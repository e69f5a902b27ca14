package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikeepcalm/ad/internal/adapters/driving/mcp"
)

func TestMCPServeCmd_RequiresUserService(t *testing.T) {
	prev := userService
	userService = nil
	t.Cleanup(func() { userService = prev })

	_, err := execute(t, "mcp", "serve")

	require.Error(t, err)
	assert.ErrorIs(t, err, mcp.ErrMissingUserService)
}

func TestMCPServeCmd_HelpListsTools(t *testing.T) {
	out, err := execute(t, "mcp", "serve", "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "queens_solve")
	assert.Contains(t, out, "ad://history")
	assert.Contains(t, out, "--port")
}
