package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view     ViewType
		expected string
	}{
		{ViewMenu, "menu"},
		{ViewUsers, "users"},
		{ViewQueens, "queens"},
		{ViewTSP, "tsp"},
		{ViewHistory, "history"},
		{ViewSettings, "settings"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.view.String())
		})
	}
}

func TestViewType_Distinct(t *testing.T) {
	views := []ViewType{ViewMenu, ViewUsers, ViewQueens, ViewTSP, ViewHistory, ViewSettings, ViewHelp}

	seen := make(map[string]bool)
	for _, v := range views {
		assert.False(t, seen[v.String()], "duplicate view name: %s", v)
		seen[v.String()] = true
	}
}
