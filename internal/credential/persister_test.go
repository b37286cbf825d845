package credential

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exercisePersister runs the behaviour every Persister must share.
func exercisePersister(t *testing.T, p Persister) {
	t.Helper()
	ctx := context.Background()

	_, err := p.Load(ctx, StorageKey)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, p.Save(ctx, StorageKey, []byte(`{"a":1}`)))
	got, err := p.Load(ctx, StorageKey)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	require.NoError(t, p.Save(ctx, StorageKey, []byte(`{"a":2}`)))
	got, err = p.Load(ctx, StorageKey)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(got))

	require.NoError(t, p.Delete(ctx, StorageKey))
	_, err = p.Load(ctx, StorageKey)
	require.ErrorIs(t, err, ErrNotFound)

	// deleting twice is fine
	require.NoError(t, p.Delete(ctx, StorageKey))
}

func TestMemoryPersister(t *testing.T) {
	exercisePersister(t, NewMemoryPersister())
}

func TestMemoryPersister_CopiesValues(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister()
	value := []byte("abc")
	require.NoError(t, p.Save(ctx, "k", value))
	value[0] = 'z'

	got, err := p.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestFilePersister(t *testing.T) {
	dir := t.TempDir()
	p, err := NewFilePersister(dir)
	require.NoError(t, err)
	exercisePersister(t, p)
}

func TestFilePersister_Permissions(t *testing.T) {
	dir := t.TempDir()
	p, err := NewFilePersister(dir)
	require.NoError(t, err)
	require.NoError(t, p.Save(context.Background(), StorageKey, []byte("x")))

	info, err := os.Stat(filepath.Join(dir, StorageKey+".json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFilePersister_RejectsPathKeys(t *testing.T) {
	p, err := NewFilePersister(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../escape", `a\b`, ".hidden"} {
		t.Run(key, func(t *testing.T) {
			assert.Error(t, p.Save(context.Background(), key, []byte("x")))
		})
	}
}

func TestSQLitePersister(t *testing.T) {
	p, err := NewSQLitePersister(filepath.Join(t.TempDir(), "state", "glance.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	exercisePersister(t, p)
}

func TestSQLitePersister_EmptyPath(t *testing.T) {
	_, err := NewSQLitePersister("  ")
	assert.Error(t, err)
}

func TestRedisPersister(t *testing.T) {
	addr := os.Getenv("GLANCE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("GLANCE_TEST_REDIS_ADDR not set")
	}

	p, err := NewRedisPersister(context.Background(), RedisOptions{Addr: addr, Prefix: "glance-test:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	exercisePersister(t, p)
}

func TestNewRedisPersister_RequiresAddr(t *testing.T) {
	_, err := NewRedisPersister(context.Background(), RedisOptions{})
	assert.Error(t, err)
}
