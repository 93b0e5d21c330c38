package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/debbuilder/internal/report"
)

func TestSaveAndRecent(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	rep := report.Reduce("run-1", []report.Result{
		{Unit: "pkg_a", Artifacts: []string{"/out/pkg_a.deb"}, Duration: 2 * time.Second},
		{Unit: "pkg_b", Err: errors.New("boom"), Kind: report.KindNativeBuildFailed},
	})
	require.NoError(t, store.Save(context.Background(), rep))

	rep2 := report.Reduce("run-2", []report.Result{
		{Unit: "pkg_a", Artifacts: []string{"/out/pkg_a.deb"}},
	})
	require.NoError(t, store.Save(context.Background(), rep2))

	rows, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Newest first.
	assert.Equal(t, "run-2", rows[0].RunID)
	assert.Equal(t, "run-1", rows[1].RunID)
	assert.Equal(t, 2, rows[1].Total)
	assert.Equal(t, 1, rows[1].Succeeded)
	assert.Equal(t, 1, rows[1].Failed)
	assert.Equal(t, []string{"pkg_a.deb"}, rows[1].Artifacts)
}

func TestRecentLimit(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	for i := 0; i < 5; i++ {
		rep := report.Reduce("run", []report.Result{{Unit: "u", Artifacts: []string{"u.deb"}}})
		require.NoError(t, store.Save(context.Background(), rep))
	}

	rows, err := store.Recent(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
