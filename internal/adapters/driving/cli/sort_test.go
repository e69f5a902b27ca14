package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikeepcalm/ad/internal/core/domain"
)

func TestGenerateSortVerify(t *testing.T) {
	setupTestServices(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "numbers.txt")
	output := filepath.Join(dir, "sorted.txt")

	out, err := execute(t, "generate", input, "1", "--seed", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "Generated")
	assert.Contains(t, out, "Seed: 42")

	out, err = execute(t, "sort", input, "1", "--output", output, "--temp-dir", dir, "--verify")
	require.NoError(t, err)
	assert.Contains(t, out, "Sorted")
	assert.Contains(t, out, "Output verified: sorted")
	assert.Contains(t, out, "Elapsed time:")

	out, err = execute(t, "verify", output)
	require.NoError(t, err)
	assert.Contains(t, out, "is sorted")
}

func TestSortCmd_JSON(t *testing.T) {
	setupTestServices(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(input, []byte("9\n-4\n7\n0\n"), 0600))

	out, err := execute(t, "sort", input, "--output", filepath.Join(dir, "out.txt"), "--json")
	require.NoError(t, err)

	var report domain.SortReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, int64(4), report.Values)
	assert.Equal(t, 1, report.Runs)

	data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "-4\n0\n7\n9\n", string(data))
}

func TestSortCmd_RejectsBadMemory(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "sort", "in.txt", "lots")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerateCmd_RequiresTwoArgs(t *testing.T) {
	_, err := execute(t, "generate", "only-one")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestVerifyCmd_Unsorted(t *testing.T) {
	setupTestServices(t)
	path := filepath.Join(t.TempDir(), "unsorted.txt")
	require.NoError(t, os.WriteFile(path, []byte("1\n3\n2\n"), 0600))

	_, err := execute(t, "verify", path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}
