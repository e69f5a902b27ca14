package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		binding key.Binding
		keys    []string
	}{
		{"quit", km.Quit, []string{"q", "ctrl+c"}},
		{"help", km.Help, []string{"?"}},
		{"back", km.Back, []string{"esc"}},
		{"up", km.Up, []string{"up", "k"}},
		{"down", km.Down, []string{"down", "j"}},
		{"prev page", km.PrevPage, []string{"left", "h"}},
		{"next page", km.NextPage, []string{"right", "l"}},
		{"select", km.Select, []string{"enter"}},
		{"next field", km.NextField, []string{"tab"}},
		{"add", km.Add, []string{"a"}},
		{"edit", km.Edit, []string{"e"}},
		{"delete", km.Delete, []string{"d"}},
		{"find", km.Find, []string{"/"}},
		{"generate", km.Generate, []string{"g"}},
		{"reload", km.Reload, []string{"r"}},
		{"toggle", km.Toggle, []string{"t"}},
		{"more", km.More, []string{"+", "="}},
		{"less", km.Less, []string{"-"}},
		{"reset", km.Reset, []string{"x"}},
		{"confirm", km.Confirm, []string{"y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range tt.keys {
				assert.Contains(t, tt.binding.Keys(), k)
			}
			assert.NotEmpty(t, tt.binding.Help().Desc)
		})
	}
}

func TestKeyMap_HelpGroups(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.ShortHelp(), 2)
	assert.NotEmpty(t, km.TableHelp())
	assert.Len(t, km.FormHelp(), 3)

	full := km.FullHelp()
	require.NotEmpty(t, full)
	for _, group := range full {
		assert.NotEmpty(t, group)
	}
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("k", km.Up))
	assert.True(t, Matches("up", km.Up))
	assert.False(t, Matches("j", km.Up))
	assert.True(t, Matches("/", km.Find))
	assert.False(t, Matches("", km.Find))
}
