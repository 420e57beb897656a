package profile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/HartBrook/penman/internal/config"
	"github.com/HartBrook/penman/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns a fresh store of every backend available in this environment.
func backends(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := NewFileStore(filepath.Join(t.TempDir(), "profiles"))
	require.NoError(t, err)

	sqliteStore, err := OpenSQLite(filepath.Join(t.TempDir(), "profiles.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqliteStore.Close() })

	stores := map[string]Store{
		"file":   fileStore,
		"sqlite": sqliteStore,
	}

	if addr := os.Getenv("PENMAN_TEST_REDIS_ADDR"); addr != "" {
		redisStore, err := OpenRedis(context.Background(), RedisOptions{
			Addr:   addr,
			Prefix: "penman:test:" + t.Name() + ":",
		})
		require.NoError(t, err)
		t.Cleanup(func() {
			ctx := context.Background()
			for name := range redisStore.List(ctx) {
				redisStore.client.Del(ctx, redisStore.key(name))
			}
			redisStore.Close()
		})
		stores["redis"] = redisStore
	}

	return stores
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			style := "Short sentences.\nEmoji at the end 🚀\n\"Quoted\" phrases."
			require.NoError(t, s.Save(ctx, "demo", style))

			got, err := s.Get(ctx, "demo")
			require.NoError(t, err)
			assert.Equal(t, style, got)
		})
	}
}

func TestStore_SaveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(ctx, "demo", "casual"))
			require.NoError(t, s.Save(ctx, "demo", "casual"))

			got, err := s.Get(ctx, "demo")
			require.NoError(t, err)
			assert.Equal(t, "casual", got)

			names, err := Names(ctx, s)
			require.NoError(t, err)
			assert.Equal(t, []string{"demo"}, names)
		})
	}
}

func TestStore_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(ctx, "demo", "first"))
			require.NoError(t, s.Save(ctx, "demo", "second"))

			got, err := s.Get(ctx, "demo")
			require.NoError(t, err)
			assert.Equal(t, "second", got)
		})
	}
}

func TestStore_GetMissing(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "ghost")
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrProfileNotFound))
		})
	}
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			names, err := Names(ctx, s)
			require.NoError(t, err)
			assert.Empty(t, names)

			require.NoError(t, s.Save(ctx, "alice", "a"))
			require.NoError(t, s.Save(ctx, "bob", "b"))

			names, err = Names(ctx, s)
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"alice", "bob"}, names)

			// a second scan starts over
			again, err := Names(ctx, s)
			require.NoError(t, err)
			assert.Equal(t, names, again)
		})
	}
}

func TestStore_ListStopsEarly(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, n := range []string{"a", "b", "c"} {
				require.NoError(t, s.Save(ctx, n, n))
			}

			seen := 0
			for _, err := range s.List(ctx) {
				require.NoError(t, err)
				seen++
				break
			}
			assert.Equal(t, 1, seen)
		})
	}
}

func TestStore_EmptyName(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := s.Save(ctx, "  ", "style")
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrMissingInput))
		})
	}
}

func TestFileStore_Layout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "profiles")
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	assert.DirExists(t, dir)

	require.NoError(t, s.Save(context.Background(), "demo", "casual, upbeat, uses emoji"))

	data, err := os.ReadFile(filepath.Join(dir, "demo.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"style": "casual, upbeat, uses emoji"}`, string(data))
}

func TestFileStore_ListIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0755))
	require.NoError(t, s.Save(context.Background(), "alice", "a"))

	names, err := Names(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, names)
}

func TestFileStore_ListManyEntries(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < listBatch*2+5; i++ {
		require.NoError(t, s.Save(ctx, fmt.Sprintf("p%03d", i), "s"))
	}

	names, err := Names(ctx, s)
	require.NoError(t, err)
	assert.Len(t, names, listBatch*2+5)
}

func TestFileStore_InvalidDocument(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0644))

	_, err = s.Get(context.Background(), "broken")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrProfileInvalid))
}

func TestFileStore_MissingStyleKey(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.json"), []byte(`{"tone":"casual"}`), 0644))

	got, err := s.Get(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrProfileInvalid))
	assert.Empty(t, got)
}

func TestDecodeDocument(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    string
		wantErr bool
	}{
		{"style", `{"style":"terse"}`, "terse", false},
		{"empty style kept", `{"style":""}`, "", false},
		{"missing key", `{"tone":"casual"}`, "", true},
		{"null style", `{"style":null}`, "", true},
		{"not json", `{`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeDocument("p", []byte(tt.data))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrProfileInvalid))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGlobEscape(t *testing.T) {
	assert.Equal(t, "penman:profile:", globEscape("penman:profile:"))
	assert.Equal(t, `team\[1\]\*\?:`, globEscape("team[1]*?:"))
	assert.Equal(t, `a\\b`, globEscape(`a\b`))
}

func TestFileStore_ReadsHandWrittenProfile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "legacy.json"), []byte(`{"style": "terse"}`), 0644))

	got, err := s.Get(context.Background(), "legacy")
	require.NoError(t, err)
	assert.Equal(t, "terse", got)
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "profiles.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "demo", "casual"))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, "casual", got)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("file", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "p")
		s, err := Open(ctx, config.StoreConfig{Backend: config.BackendFile, Dir: dir})
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &FileStore{}, s)
	})

	t.Run("sqlite", func(t *testing.T) {
		s, err := Open(ctx, config.StoreConfig{Backend: config.BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "p.db")})
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &SQLiteStore{}, s)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Open(ctx, config.StoreConfig{Backend: "etcd"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrConfigInvalid))
	})

	t.Run("redis unreachable", func(t *testing.T) {
		_, err := Open(ctx, config.StoreConfig{Backend: config.BackendRedis, RedisAddr: "127.0.0.1:1"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrStoreFailed))
	})
}
