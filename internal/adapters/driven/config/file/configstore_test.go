package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfigStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(filepath.Join(t.TempDir(), ConfigFileName))
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "docrag.toml")

	store, err := NewConfigStore(path)

	require.NoError(t, err)
	assert.Equal(t, path, store.Path())
	assert.DirExists(t, filepath.Dir(path))
}

func TestNewConfigStore_DefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".docrag", ConfigFileName), store.Path())
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("this is = not [valid toml"), 0600))

	_, err := NewConfigStore(path)
	assert.Error(t, err)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := newTestConfigStore(t)

	require.NoError(t, store.Set("s", "hello"))
	require.NoError(t, store.Set("i", 42))
	require.NoError(t, store.Set("f", 0.25))
	require.NoError(t, store.Set("b", true))
	require.NoError(t, store.Set("list", []string{"a", "b"}))

	assert.Equal(t, "hello", store.GetString("s"))
	assert.Equal(t, 42, store.GetInt("i"))
	assert.InDelta(t, 0.25, store.GetFloat("f"), 1e-9)
	assert.InDelta(t, 42.0, store.GetFloat("i"), 1e-9)
	assert.True(t, store.GetBool("b"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("list"))

	// Wrong types read as zero values.
	assert.Empty(t, store.GetString("i"))
	assert.Zero(t, store.GetInt("s"))
	assert.Zero(t, store.GetFloat("s"))
	assert.False(t, store.GetBool("s"))
	assert.Nil(t, store.GetStringSlice("s"))

	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)

	store1, err := NewConfigStore(path)
	require.NoError(t, err)
	require.NoError(t, store1.Set("llm.provider", "groq"))
	require.NoError(t, store1.Set("llm.temperature", 0.1))
	require.NoError(t, store1.Set("rag.k", 5))
	require.NoError(t, store1.Set("ingest.deterministic_ids", true))

	store2, err := NewConfigStore(path)
	require.NoError(t, err)

	assert.Equal(t, "groq", store2.GetString("llm.provider"))
	assert.InDelta(t, 0.1, store2.GetFloat("llm.temperature"), 1e-9)
	assert.Equal(t, 5, store2.GetInt("rag.k"))
	assert.True(t, store2.GetBool("ingest.deterministic_ids"))
}

func TestConfigStore_All(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("[rag]\nk = 4\n\n[docs]\ndir = \"corpus\"\n"), 0600))

	store, err := NewConfigStore(path)
	require.NoError(t, err)

	all := store.All()
	assert.Equal(t, map[string]any{"rag.k": int64(4), "docs.dir": "corpus"}, all)

	all["rag.k"] = int64(1)
	assert.Equal(t, 4, store.GetInt("rag.k"))
}

func TestConfigStore_SavesTables(t *testing.T) {
	store := newTestConfigStore(t)
	require.NoError(t, store.Set("vector_store.backend", "qdrant"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	assert.Contains(t, string(data), "[vector_store]")
	assert.Contains(t, string(data), "qdrant")
}

func TestConfigStore_LoadNestedTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	content := `
[docs]
dir = "/srv/docs"

[llm]
provider = "ollama"
temperature = 0.3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	store, err := NewConfigStore(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/docs", store.GetString("docs.dir"))
	assert.Equal(t, "ollama", store.GetString("llm.provider"))
	assert.InDelta(t, 0.3, store.GetFloat("llm.temperature"), 1e-9)
}

func TestConfigStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte{}, 0600))

	store, err := NewConfigStore(path)
	require.NoError(t, err)

	_, ok := store.Get("any_key")
	assert.False(t, ok)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store := newTestConfigStore(t)
	require.NoError(t, store.Set("test", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := newTestConfigStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := "key" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_, _ = store.Get(key)
		}(i)
	}
	wg.Wait()
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"a.b.c": 1,
		"a.d":   "x",
		"top":   true,
	})

	assert.Equal(t, map[string]any{
		"a":   map[string]any{"b": map[string]any{"c": 1}, "d": "x"},
		"top": true,
	}, nested)
	assert.Equal(t, map[string]any{"a.b.c": 1, "a.d": "x", "top": true}, flattenMap(nested, ""))
}
