package hookstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pbmcp/internal/domain"
)

func TestStore_WriteReadRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir(), zap.NewNop())

	path, err := store.Write("main.pb.js", `console.log("hi")`, "")
	require.NoError(t, err)
	require.FileExists(t, path)

	content, err := store.Read("main.pb.js", "")
	require.NoError(t, err)
	require.Equal(t, `console.log("hi")`, content)
}

func TestStore_WriteRejectsBadSuffix(t *testing.T) {
	store := NewStore(t.TempDir(), zap.NewNop())

	_, err := store.Write("main.js", "x", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "must end with")

	code, ok := domain.CodeFrom(err)
	require.True(t, ok)
	require.Equal(t, domain.CodeInvalidArgument, code)
}

func TestStore_RejectsPathSeparators(t *testing.T) {
	store := NewStore(t.TempDir(), zap.NewNop())

	for _, name := range []string{"../evil.pb.js", "sub/evil.pb.js"} {
		_, err := store.Write(name, "x", "")
		require.Error(t, err, name)

		code, ok := domain.CodeFrom(err)
		require.True(t, ok)
		require.Equal(t, domain.CodeInvalidArgument, code)
	}
}

func TestStore_ListSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, zap.NewNop())

	_, err := store.Write("zeta.pb.js", "", "")
	require.NoError(t, err)
	_, err = store.Write("alpha.pb.js", "", "")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pb.js"), 0o755))

	names, err := store.List("")
	require.NoError(t, err)
	require.Empty(t, cmp.Diff([]string{"alpha.pb.js", "zeta.pb.js"}, names))
}

func TestStore_ListMissingDirIsEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "does-not-exist"), zap.NewNop())

	names, err := store.List("")
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestStore_ReadMissingIsNotFound(t *testing.T) {
	store := NewStore(t.TempDir(), zap.NewNop())

	_, err := store.Read("missing.pb.js", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")

	code, ok := domain.CodeFrom(err)
	require.True(t, ok)
	require.Equal(t, domain.CodeNotFound, code)
}

func TestStore_DeleteMissingIsNotFound(t *testing.T) {
	store := NewStore(t.TempDir(), zap.NewNop())

	err := store.Delete("missing.pb.js", "")
	require.Error(t, err)

	code, ok := domain.CodeFrom(err)
	require.True(t, ok)
	require.Equal(t, domain.CodeNotFound, code)
}

func TestStore_DirOverride(t *testing.T) {
	store := NewStore(t.TempDir(), zap.NewNop())
	other := t.TempDir()

	path, err := store.Write("hook.pb.js", "x", other)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(other, "hook.pb.js"), path)

	names, err := store.List("")
	require.NoError(t, err)
	require.Empty(t, names)

	names, err = store.List(other)
	require.NoError(t, err)
	require.Equal(t, []string{"hook.pb.js"}, names)
}

func TestStore_WriteCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pb_hooks")
	store := NewStore(dir, zap.NewNop())

	_, err := store.Write("hook.pb.js", "x", "")
	require.NoError(t, err)
	require.DirExists(t, dir)
}
