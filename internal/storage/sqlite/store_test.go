package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quartz.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	s, _ := openTestStore(t)
	ctx := context.Background()

	for i, blob := range [][]byte{
		[]byte("a"),
		[]byte("selected_style = \"dark\""),
		{0xde, 0xad, 0xbe, 0xef},
	} {
		key := fmt.Sprintf("blob-%d", i)
		require.NoError(t, s.Write(ctx, key, blob))

		got, ok, err := s.Read(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, blob, got)
	}
}

func TestMissIsNotAnError(t *testing.T) {
	t.Parallel()

	s, _ := openTestStore(t)
	got, ok, err := s.Read(context.Background(), "never-written")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestSurvivesReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "quartz.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Write(ctx, "directboot.toml", []byte("component = \"analog\"")))
	require.NoError(t, s.Close())

	// Simulated restart: a fresh store against the same file.
	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	got, ok, err := s2.Read(ctx, "directboot.toml")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("component = \"analog\""), got)
}

func TestIdenticalWriteIsNoOp(t *testing.T) {
	t.Parallel()

	s, _ := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "k", []byte("v")))

	var before int64
	require.NoError(t, s.db.QueryRow(`SELECT updated_at FROM blobs WHERE key = 'k'`).Scan(&before))

	require.NoError(t, s.Write(ctx, "k", []byte("v")))

	var after int64
	require.NoError(t, s.db.QueryRow(`SELECT updated_at FROM blobs WHERE key = 'k'`).Scan(&after))
	assert.Equal(t, before, after, "identical write must leave the row untouched")
}

func TestPerKeyIsolation(t *testing.T) {
	t.Parallel()

	s, _ := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "complications/1.bin", []byte("one")))
	require.NoError(t, s.Write(ctx, "complications/2.bin", []byte("two")))
	require.NoError(t, s.Write(ctx, "complications/1.bin", []byte("garbage")))

	got, ok, err := s.Read(ctx, "complications/2.bin")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("two"), got)
}

func TestNilValue(t *testing.T) {
	t.Parallel()

	s, _ := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "empty", nil))
	got, ok, err := s.Read(ctx, "empty")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}
