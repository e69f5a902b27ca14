package mcp

import (
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAvailablePort(t *testing.T) {
	port, err := FindAvailablePort(AutoPortStart, AutoPortEnd)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, port, AutoPortStart)
	assert.LessOrEqual(t, port, AutoPortEnd)
}

func TestFindAvailablePort_SkipsBoundPort(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()
	taken := listener.Addr().(*net.TCPAddr).Port

	_, err = FindAvailablePort(taken, taken)

	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("%d-%d", taken, taken))
}

func TestFindAvailablePort_InvalidRange(t *testing.T) {
	_, err := FindAvailablePort(9000, 8000)
	assert.Error(t, err)

	_, err = FindAvailablePort(0, 10)
	assert.Error(t, err)
}
