package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ikeepcalm/ad/internal/adapters/driven/storage/memory"
	"github.com/ikeepcalm/ad/internal/core/domain"
)

// newTestSettings returns a settings service over an in-memory store with
// the given overrides applied.
func newTestSettings(t *testing.T, overrides map[string]string) *SettingsService {
	t.Helper()
	service := NewSettingsService(memory.NewConfigStore())
	for k, v := range overrides {
		require.NoError(t, service.Set(k, v))
	}
	return service
}

// recordedRuns lists every run in the store, newest first.
func recordedRuns(t *testing.T, runs *memory.RunStore) []domain.Run {
	t.Helper()
	list, err := runs.List(context.Background(), domain.RunFilter{})
	require.NoError(t, err)
	return list
}
