package cli

import (
	"bufio"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikeepcalm/ad/internal/core/domain"
)

func TestSettingsCmd_Show(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "sort.memory_mb")
	assert.Contains(t, out, "tuner.time_limit")
	assert.Contains(t, out, "default")
}

func TestSettingsCmd_SetAndReset(t *testing.T) {
	stores := setupTestServices(t)

	out, err := execute(t, "settings", "set", "btree.degree", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "btree.degree = 4")
	assert.Equal(t, 4, stores.config.GetInt("btree.degree"))

	out, err = execute(t, "settings", "show", "--json")
	require.NoError(t, err)
	var entries []domain.SettingEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	for _, e := range entries {
		if e.Key == "btree.degree" {
			assert.Equal(t, "4", e.Value)
			assert.False(t, e.Default)
		}
	}

	_, err = execute(t, "settings", "reset", "btree.degree")
	require.NoError(t, err)
	_, ok := stores.config.Get("btree.degree")
	assert.False(t, ok)
}

func TestSettingsCmd_SetRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"settings", "set", "search.mode", "full"}},
		{"not a number", []string{"settings", "set", "btree.degree", "wide"}},
		{"out of range", []string{"settings", "set", "btree.degree", "1"}},
		{"reset unknown", []string{"settings", "reset", "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestServices(t)

			_, err := execute(t, tt.args...)

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestSettingsCmd_Wizard(t *testing.T) {
	stores := setupTestServices(t)
	// first key keeps its value, second sets the sort budget, the rest
	// hit EOF and keep theirs
	rootCmd.SetIn(strings.NewReader("\n64\n"))
	t.Cleanup(func() { rootCmd.SetIn(nil) })

	out, err := execute(t, "settings", "wizard")

	require.NoError(t, err)
	assert.Contains(t, out, "1 settings changed")
	assert.Equal(t, 64, stores.config.GetInt("sort.memory_mb"))
}

func TestReadLine(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("  first \nsecond"))

	assert.Equal(t, "first", readLine(r))
	assert.Equal(t, "second", readLine(r))
	assert.Empty(t, readLine(r))
}
