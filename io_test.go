// FILE: nabeghe/configurator-go/io_test.go
package configurator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSaveLoadRoundTrip tests that a saved section reloads minus nil and
// default-equal entries
func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	defaults := map[string]map[string]any{
		"db": {"host": "localhost", "port": int64(3306)},
	}

	// port equals its default and token is nil; both drop from the file.
	store := Quick(dir, defaults)
	store.Set("db", "host", "10.0.0.5")
	store.Set("db", "port", int64(3306))
	store.Set("db", "token", nil)
	store.Set("db", "pool", int64(8))
	require.NoError(t, store.Save("db"))

	assert.FileExists(t, filepath.Join(dir, "db.toml"))
	assert.Equal(t, []string{"db"}, store.KnownFiles())

	loaded, ok := store.Load("db")
	require.True(t, ok)
	want := map[string]any{"host": "10.0.0.5", "pool": int64(8)}
	if diff := cmp.Diff(want, loaded); diff != "" {
		t.Errorf("loaded section mismatch (-want +got):\n%s", diff)
	}

	// A fresh store picks the file up on first access.
	fresh := Quick(dir, defaults)
	db := fresh.Section("db")
	assert.Equal(t, "10.0.0.5", db.Value("host"))
	assert.Equal(t, int64(8), db.Value("pool"))
	assert.False(t, db.Has("port"), "default-equal entry should not persist")
	val, _ := db.Get("port")
	assert.Equal(t, int64(3306), val, "default still resolves")
}

// TestHandEditedLayoutsSurviveSave tests that files whose top-level keys
// appear only in dotted or nested-header form reload and resave intact
func TestHandEditedLayoutsSurviveSave(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
	}{
		{"DottedKey", "pool.size = 10\n", "db.pool.size"},
		{"NestedTableHeader", "[pool.limits]\nsize = 10\n", "db.pool.limits.size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "db.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.doc), 0644))

			store := Quick(dir, nil)
			assert.Equal(t, []string{"pool"}, store.Section("db").Keys())

			require.NoError(t, store.Save("db"))
			assert.FileExists(t, path)

			fresh := Quick(dir, nil)
			val, ok := fresh.GetPath(tt.path)
			require.True(t, ok)
			assert.Equal(t, int64(10), val)
		})
	}
}

// TestSaveEmptySectionDeletesFile tests the save-then-empty flow
func TestSaveEmptySectionDeletesFile(t *testing.T) {
	dir := t.TempDir()
	store := Quick(dir, nil)
	path := filepath.Join(dir, "app.toml")

	store.Set("app", "version", "1.0.0")
	require.NoError(t, store.Save("app"))
	require.FileExists(t, path)

	loaded, ok := store.Load("app")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"version": "1.0.0"}, loaded)

	assert.True(t, store.Delete("app", "version"))
	require.NoError(t, store.Save("app"))
	assert.NoFileExists(t, path)
	assert.Empty(t, store.KnownFiles())
}

// TestSaveAllDefaultEntries tests that a section holding only
// default-equal values saves to no file
func TestSaveAllDefaultEntries(t *testing.T) {
	dir := t.TempDir()
	store := Quick(dir, map[string]map[string]any{
		"app": {"theme": "dark"},
	})
	store.Set("app", "theme", "dark")
	require.NoError(t, store.Save("app"))
	assert.NoFileExists(t, filepath.Join(dir, "app.toml"))
}

// TestDeleteFile tests the absence postcondition
func TestDeleteFile(t *testing.T) {
	dir := t.TempDir()
	store := Quick(dir, nil)

	t.Run("NeverExisted", func(t *testing.T) {
		assert.NoError(t, store.DeleteFile("ghost"))
	})

	t.Run("RemovesExisting", func(t *testing.T) {
		store.Set("app", "key", "value")
		require.NoError(t, store.Save("app"))
		require.FileExists(t, filepath.Join(dir, "app.toml"))

		require.NoError(t, store.DeleteFile("app"))
		assert.NoFileExists(t, filepath.Join(dir, "app.toml"))
		assert.Empty(t, store.KnownFiles())

		// In-memory values survive file deletion.
		assert.True(t, store.Has("app", "key"))
	})
}

// TestMemoryOnlyFileOps tests that file operations fail cleanly without a
// base path
func TestMemoryOnlyFileOps(t *testing.T) {
	store := Memory(nil)
	store.Set("app", "key", "value")

	assert.ErrorIs(t, store.Save("app"), ErrNotLoadable)
	assert.ErrorIs(t, store.SaveAll(), ErrNotLoadable)
	assert.ErrorIs(t, store.DeleteFile("app"), ErrNotLoadable)

	_, ok := store.Load("app")
	assert.False(t, ok)
	assert.Nil(t, store.KnownFiles())
}

// TestInvalidSectionNames tests filesystem-name validation
func TestInvalidSectionNames(t *testing.T) {
	dir := t.TempDir()
	store := Quick(dir, nil)

	tests := []struct {
		name    string
		section string
	}{
		{"Empty", ""},
		{"PathSeparator", "bad/name"},
		{"ParentTraversal", ".."},
		{"Dotted", "app.prod"},
		{"Space", "bad name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Save(tt.section)
			assert.ErrorIs(t, err, ErrInvalidSection)

			err = store.DeleteFile(tt.section)
			assert.ErrorIs(t, err, ErrInvalidSection)

			_, ok := store.Load(tt.section)
			assert.False(t, ok)
		})
	}

	// Invalid names still work as in-memory sections.
	store.Set("bad/name", "key", 1)
	val, ok := store.Get("bad/name", "key")
	assert.True(t, ok)
	assert.Equal(t, 1, val)
}

// TestLazyLoadOnFirstAccess tests that section files load on first
// access, not at construction
func TestLazyLoadOnFirstAccess(t *testing.T) {
	dir := t.TempDir()
	content := "host = \"filehost\"\nport = 5432\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db.toml"), []byte(content), 0644))

	store := Quick(dir, nil)
	assert.Empty(t, store.Sections(), "nothing materializes before access")

	db := store.Section("db")
	assert.True(t, db.Has("host"))
	assert.Equal(t, "filehost", db.Value("host"))
	assert.Equal(t, int64(5432), db.Value("port"))
	assert.Equal(t, []string{"host", "port"}, db.Keys(), "document order carries over")
}

// TestInjectedSectionsNeverLoad tests that pre-seeded sections shadow
// their files
func TestInjectedSectionsNeverLoad(t *testing.T) {
	dir := t.TempDir()
	content := "host = \"filehost\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db.toml"), []byte(content), 0644))

	store := New(Options{
		Path: dir,
		InitialConfig: map[string]map[string]any{
			"db": {"host": "injected"},
		},
	})

	assert.Equal(t, "injected", store.Section("db").Value("host"))

	// The explicit load operation still reads the file as-is.
	loaded, ok := store.Load("db")
	require.True(t, ok)
	assert.Equal(t, "filehost", loaded["host"])
}

// TestEjectThenReaccess tests that ejection discards unsaved values and
// the next access reloads the file
func TestEjectThenReaccess(t *testing.T) {
	dir := t.TempDir()
	store := Quick(dir, nil)

	store.Set("db", "host", "10.0.0.5")
	require.NoError(t, store.Save("db"))
	store.Set("db", "scratch", "unsaved")

	store.Eject("db")

	db := store.Section("db")
	assert.Equal(t, "10.0.0.5", db.Value("host"))
	assert.False(t, db.Has("scratch"), "unsaved value should be gone")
}

// TestCorruptFileDegradesToAbsent tests parse-failure behavior
func TestCorruptFileDegradesToAbsent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db.toml"), []byte("not toml {{{"), 0644))

	store := Quick(dir, map[string]map[string]any{
		"db": {"host": "localhost"},
	})

	_, ok := store.Load("db")
	assert.False(t, ok)

	// The section materializes empty and defaults still resolve.
	db := store.Section("db")
	assert.Zero(t, db.Len())
	assert.Equal(t, "localhost", db.Value("host"))
}

// TestOversizedFileDegradesToAbsent tests the size cap
func TestOversizedFileDegradesToAbsent(t *testing.T) {
	dir := t.TempDir()
	big := "# " + strings.Repeat("x", int(MaxSectionFileSize)) + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db.toml"), []byte(big), 0644))

	store := Quick(dir, nil)
	_, ok := store.Load("db")
	assert.False(t, ok)
}

// TestSaveCreatesBasePath tests that saving creates missing directories
func TestSaveCreatesBasePath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deeper")
	store := Quick(dir, nil)

	store.Set("app", "key", "value")
	require.NoError(t, store.Save("app"))
	assert.FileExists(t, filepath.Join(dir, "app.toml"))
}

// TestSaveAll tests bulk persistence semantics
func TestSaveAll(t *testing.T) {
	t.Run("AllSectionsSaved", func(t *testing.T) {
		dir := t.TempDir()
		store := Quick(dir, nil)
		store.Set("db", "host", "10.0.0.5")
		store.Set("app", "version", "1.0.0")

		require.NoError(t, store.SaveAll())
		assert.FileExists(t, filepath.Join(dir, "db.toml"))
		assert.FileExists(t, filepath.Join(dir, "app.toml"))
		assert.Equal(t, []string{"app", "db"}, store.KnownFiles())
	})

	t.Run("PartialFailureStillSucceeds", func(t *testing.T) {
		dir := t.TempDir()
		store := Quick(dir, nil)
		store.Set("good", "key", "value")
		store.Set("bad/name", "key", "value")

		assert.NoError(t, store.SaveAll())
		assert.FileExists(t, filepath.Join(dir, "good.toml"))
	})

	t.Run("TotalFailureReportsErrors", func(t *testing.T) {
		dir := t.TempDir()
		store := Quick(dir, nil)
		store.Set("bad/name", "key", "value")

		err := store.SaveAll()
		assert.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidSection)
	})

	t.Run("NoSections", func(t *testing.T) {
		store := Quick(t.TempDir(), nil)
		err := store.SaveAll()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no sections to save")
	})
}

// TestKnownFiles tests the known-files listing
func TestKnownFiles(t *testing.T) {
	dir := t.TempDir()
	store := Quick(dir, nil)
	assert.Empty(t, store.KnownFiles())

	store.Set("zeta", "k", 1)
	store.Set("alpha", "k", 2)
	require.NoError(t, store.SaveAll())

	assert.Equal(t, []string{"alpha", "zeta"}, store.KnownFiles())

	require.NoError(t, store.DeleteFile("zeta"))
	assert.Equal(t, []string{"alpha"}, store.KnownFiles())
}
