package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".ad", "config.toml"), store.Path())
}

func TestConfigStore_SetWritesNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("aco.alpha", 2.5))
	require.NoError(t, store.Set("aco.ants", int64(40)))
	require.NoError(t, store.Set("data.dir", "/srv/ad"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, "[aco]")
	assert.Contains(t, content, "alpha = 2.5")
	assert.Contains(t, content, "ants = 40")
	assert.Contains(t, content, "[data]")
	assert.NotContains(t, content, "aco.alpha")
}

func TestConfigStore_PersistsAcrossInstances(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("btree.degree", int64(3)))
	require.NoError(t, store.Set("tuner.time_limit", "30s"))
	require.NoError(t, store.Set("aco.rho", 0.25))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 3, reopened.GetInt("btree.degree"))
	assert.Equal(t, "30s", reopened.GetString("tuner.time_limit"))

	rho, ok := reopened.Get("aco.rho")
	require.True(t, ok)
	assert.Equal(t, 0.25, rho)
}

func TestConfigStore_LoadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := "[users]\npage_size = 10\n\n[sort]\ntemp_dir = \"/tmp/tapes\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 10, store.GetInt("users.page_size"))
	assert.Equal(t, "/tmp/tapes", store.GetString("sort.temp_dir"))
}

func TestConfigStore_Unset(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("queens.delay_ms", int64(10)))
	require.NoError(t, store.Unset("queens.delay_ms"))
	require.NoError(t, store.Unset("never.set"))

	_, ok := store.Get("queens.delay_ms")
	assert.False(t, ok)

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	_, ok = reopened.Get("queens.delay_ms")
	assert.False(t, ok)
}

func TestConfigStore_GetTypeMismatch(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("sort.temp_dir", "/tmp"))
	require.NoError(t, store.Set("users.page_size", int64(6)))

	assert.Equal(t, 0, store.GetInt("sort.temp_dir"))
	assert.Equal(t, "", store.GetString("users.page_size"))
	assert.Equal(t, 0, store.GetInt("missing"))
}

func TestConfigStore_Load_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not = [valid"), 0600))

	_, err := NewConfigStore(tmpDir)
	assert.Error(t, err)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("aco.beta", 2.0))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"aco.alpha": 1.0,
		"aco.beta":  2.0,
		"top":       "x",
	})

	assert.Equal(t, map[string]any{
		"aco": map[string]any{"alpha": 1.0, "beta": 2.0},
		"top": "x",
	}, nested)
	assert.Equal(t, map[string]any{"aco.alpha": 1.0, "aco.beta": 2.0, "top": "x"}, flattenMap(nested, ""))
}
