package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikeepcalm/ad/internal/adapters/driven/storage/memory"
	"github.com/ikeepcalm/ad/internal/core/domain"
)

func TestSortService_GenerateSortVerify(t *testing.T) {
	dir := t.TempDir()
	runs := memory.NewRunStore()
	service := NewSortService(newTestSettings(t, nil), runs)
	ctx := context.Background()
	input := filepath.Join(dir, "input.txt")
	output := filepath.Join(dir, "sorted.txt")

	gen, err := service.Generate(ctx, input, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, input, gen.Path)
	assert.GreaterOrEqual(t, gen.Bytes, int64(1024*1024))
	assert.Equal(t, int64(7), gen.Seed)

	report, err := service.Sort(ctx, domain.SortOptions{
		Input:       input,
		Output:      output,
		TempDir:     dir,
		MemoryBytes: 40_000,
		Verify:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, gen.Values, report.Values)
	assert.Greater(t, report.Runs, 1)
	assert.Greater(t, report.Phases, 0)
	assert.True(t, report.Verified)

	verify, err := service.Verify(ctx, output)
	require.NoError(t, err)
	assert.True(t, verify.Sorted)
	assert.Equal(t, gen.Values, verify.Values)

	history := recordedRuns(t, runs)
	require.Len(t, history, 2)
	kinds := []domain.RunKind{history[0].Kind, history[1].Kind}
	assert.ElementsMatch(t, []domain.RunKind{domain.RunKindGenerate, domain.RunKindSort}, kinds)
}

func TestSortService_Sort_DefaultsFromSettings(t *testing.T) {
	dir := t.TempDir()
	settings := newTestSettings(t, map[string]string{"sort.memory_mb": "1", "sort.temp_dir": dir})
	service := NewSortService(settings, nil)
	input := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(input, []byte("3\n1\n2\n"), 0600))

	t.Chdir(dir)
	report, err := service.Sort(context.Background(), domain.SortOptions{Input: input})

	require.NoError(t, err)
	assert.Equal(t, DefaultSortOutput, report.Output)
	assert.Equal(t, int64(3), report.Values)
	assert.Equal(t, 1, report.Runs)
	data, err := os.ReadFile(filepath.Join(dir, DefaultSortOutput))
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", string(data))
}

func TestSortService_Sort_Errors(t *testing.T) {
	dir := t.TempDir()
	runs := memory.NewRunStore()
	service := NewSortService(newTestSettings(t, nil), runs)
	ctx := context.Background()

	_, err := service.Sort(ctx, domain.SortOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = service.Sort(ctx, domain.SortOptions{Input: "in", MemoryBytes: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte("1\nx\n"), 0600))
	_, err = service.Sort(ctx, domain.SortOptions{Input: bad, Output: filepath.Join(dir, "out.txt"), TempDir: dir})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	history := recordedRuns(t, runs)
	require.Len(t, history, 3)
	for _, run := range history {
		assert.False(t, run.Succeeded())
		assert.Nil(t, run.Summary)
	}
}

func TestSortService_Generate_Invalid(t *testing.T) {
	service := NewSortService(newTestSettings(t, nil), nil)
	ctx := context.Background()

	_, err := service.Generate(ctx, "", 1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = service.Generate(ctx, filepath.Join(t.TempDir(), "x.txt"), 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSortService_Verify_Unsorted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unsorted.txt")
	require.NoError(t, os.WriteFile(path, []byte("1\n5\n4\n"), 0600))
	service := NewSortService(newTestSettings(t, nil), nil)

	report, err := service.Verify(context.Background(), path)

	require.NoError(t, err)
	assert.False(t, report.Sorted)
	assert.Equal(t, int64(3), report.FirstViolation)

	_, err = service.Verify(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
