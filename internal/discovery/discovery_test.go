package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeUnit(t *testing.T, root, name string, withDescriptor bool) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "main.cpp"), []byte("int main(){}\n"), 0o600))
	if withDescriptor {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "package.xml"), []byte("<package/>\n"), 0o600))
	}
	return dir
}

func TestDiscoverSkipsDirsWithoutDescriptor(t *testing.T) {
	root := t.TempDir()
	a := makeUnit(t, root, "a", true)
	b := makeUnit(t, root, "b", true)
	makeUnit(t, root, "c", false)

	units, err := Discover(root, "package.xml")
	require.NoError(t, err)

	require.Len(t, units, 2)
	assert.Equal(t, a, units[0].Path)
	assert.Equal(t, "a", units[0].Name)
	assert.Equal(t, b, units[1].Path)
}

func TestDiscoverEmptyTreeFails(t *testing.T) {
	root := t.TempDir()
	makeUnit(t, root, "nothing", false)

	_, err := Discover(root, "package.xml")
	require.ErrorIs(t, err, ErrNoUnitsFound)
}

func TestDiscoverFindsNestedUnits(t *testing.T) {
	root := t.TempDir()
	nested := makeUnit(t, filepath.Join(root, "stacks", "navigation"), "planner", true)

	units, err := Discover(root, "package.xml")
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, nested, units[0].Path)
	assert.Equal(t, "planner", units[0].Name)
}

func TestDiscoverSortsLexicographically(t *testing.T) {
	root := t.TempDir()
	makeUnit(t, root, "zeta", true)
	makeUnit(t, root, "alpha", true)
	makeUnit(t, root, "mid", true)

	units, err := Discover(root, "package.xml")
	require.NoError(t, err)

	names := []string{units[0].Name, units[1].Name, units[2].Name}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}
