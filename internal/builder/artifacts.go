package builder

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/debbuilder/internal/logfields"
)

// collectArtifacts finds every file under root whose base name matches one of
// the globs. The walk covers the whole workspace because the native builder
// drops packages wherever debian/rules decides to.
func collectArtifacts(root string, globs []string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		for _, g := range globs {
			ok, matchErr := filepath.Match(g, d.Name())
			if matchErr != nil {
				return matchErr
			}
			if ok {
				found = append(found, path)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// copyArtifacts places each file into the flat output directory and returns
// the destination paths. Filename collisions across packages overwrite:
// last write wins. That matches the downstream repository layout, which is
// keyed by filename anyway, but it is logged so operators can spot it.
func copyArtifacts(files []string, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return nil, err
	}

	var placed []string
	for _, src := range files {
		dest := filepath.Join(outDir, filepath.Base(src))
		if _, err := os.Stat(dest); err == nil {
			slog.Warn("Overwriting artifact with same filename", logfields.Artifact(filepath.Base(src)))
		}
		if err := copyFile(src, dest); err != nil {
			return nil, err
		}
		placed = append(placed, dest)
	}
	return placed, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o640)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// countOutputArtifacts is the final correctness check: a package can report
// success while failing to place files, so the consolidated directory itself
// is inspected after the loop.
func countOutputArtifacts(outDir string, globs []string) (int, error) {
	entries, err := os.ReadDir(outDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		for _, g := range globs {
			if ok, _ := filepath.Match(g, e.Name()); ok {
				n++
				break
			}
		}
	}
	return n, nil
}
