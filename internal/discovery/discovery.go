// Package discovery locates buildable packages in a source tree and narrows
// them to the set selected for a run.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/debbuilder/internal/logfields"
)

var (
	// ErrNoUnitsFound means the source tree holds no descriptor files at
	// all. A root with nothing to build is a configuration error.
	ErrNoUnitsFound = errors.New("no packages found in source tree")
	// ErrNoUnitsSelected means filtering removed every discovered package.
	ErrNoUnitsSelected = errors.New("no packages selected by filter rules")
)

// Unit is one discoverable, independently packageable source directory.
// Identity is the source path; the name is its last path component.
type Unit struct {
	Path string
	Name string
}

// Discover walks root recursively and returns a Unit for every directory
// holding the descriptor marker file. Results are sorted lexicographically by
// path so runs over the same tree are reproducible and diffable.
func Discover(root, descriptor string) ([]Unit, error) {
	var units []Unit

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != descriptor {
			return nil
		}
		dir := filepath.Dir(path)
		units = append(units, Unit{Path: dir, Name: filepath.Base(dir)})
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("source tree not found: %w", err)
		}
		return nil, fmt.Errorf("failed to walk source tree %s: %w", root, err)
	}

	if len(units) == 0 {
		return nil, fmt.Errorf("%w: %s (descriptor %s)", ErrNoUnitsFound, root, descriptor)
	}

	sort.Slice(units, func(i, j int) bool { return units[i].Path < units[j].Path })

	slog.Info("Discovered packages", logfields.Count(len(units)), logfields.Path(root))
	return units, nil
}
