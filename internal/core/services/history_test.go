package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikeepcalm/ad/internal/adapters/driven/storage/memory"
	"github.com/ikeepcalm/ad/internal/core/domain"
)

func TestHistoryService(t *testing.T) {
	runs := memory.NewRunStore()
	ctx := context.Background()
	base := time.Now()
	for i, kind := range []domain.RunKind{domain.RunKindSort, domain.RunKindTSP, domain.RunKindSort} {
		require.NoError(t, runs.Record(ctx, domain.Run{
			ID:        string(rune('a' + i)),
			Kind:      kind,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	service := NewHistoryService(runs)

	list, err := service.List(ctx, domain.RunFilter{Kind: domain.RunKindSort, Limit: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "c", list[0].ID)

	run, err := service.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, domain.RunKindTSP, run.Kind)

	_, err = service.Get(ctx, "zzz")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := service.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestHistoryService_List_InvalidFilter(t *testing.T) {
	service := NewHistoryService(memory.NewRunStore())
	ctx := context.Background()

	_, err := service.List(ctx, domain.RunFilter{Kind: "search"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = service.List(ctx, domain.RunFilter{Limit: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
