// Package workspace materializes disposable build copies of source packages
// so builds never mutate the original tree.
package workspace

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/debbuilder/internal/discovery"
	"git.home.luguber.info/inful/debbuilder/internal/logfields"
)

// combinedDirName holds the merged tree used in workspace mode.
const combinedDirName = "ws"

// Stager creates isolated working copies under a run-private work directory.
type Stager struct {
	workDir string
}

// NewStager returns a Stager rooted at workDir. The directory is created on
// first use.
func NewStager(workDir string) *Stager {
	return &Stager{workDir: workDir}
}

// Stage copies one package into a fresh workspace and returns its path. Any
// leftover workspace for the same package name is removed first, so staging
// is idempotent within a run. The staged copy gets its own git repository
// with one commit: the packaging generator reads version-control metadata to
// infer package versioning.
func (s *Stager) Stage(u discovery.Unit) (string, error) {
	dest := filepath.Join(s.workDir, u.Name)

	if err := os.RemoveAll(dest); err != nil {
		return "", fmt.Errorf("failed to clear stale workspace %s: %w", dest, err)
	}
	if err := copyTree(u.Path, dest); err != nil {
		return "", fmt.Errorf("failed to stage %s: %w", u.Name, err)
	}
	if err := initRepo(dest, u.Name); err != nil {
		return "", err
	}

	slog.Debug("Staged package", logfields.Unit(u.Name), logfields.Path(dest))
	return dest, nil
}

// StageAll copies every package into one combined tree (workspace mode) laid
// out as <workDir>/ws/src/<name>, with a single git repository at the
// combined root. Returns the combined root.
func (s *Stager) StageAll(units []discovery.Unit) (string, error) {
	root := filepath.Join(s.workDir, combinedDirName)

	if err := os.RemoveAll(root); err != nil {
		return "", fmt.Errorf("failed to clear stale combined workspace: %w", err)
	}
	for _, u := range units {
		dest := filepath.Join(root, "src", u.Name)
		if err := copyTree(u.Path, dest); err != nil {
			return "", fmt.Errorf("failed to stage %s into combined workspace: %w", u.Name, err)
		}
	}
	if err := initRepo(root, "workspace"); err != nil {
		return "", err
	}

	slog.Info("Staged combined workspace", logfields.Count(len(units)), logfields.Path(root))
	return root, nil
}

// UnitDir returns where Stage placed (or will place) the named package.
func (s *Stager) UnitDir(name string) string {
	return filepath.Join(s.workDir, name)
}

func initRepo(dir, name string) error {
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		return fmt.Errorf("failed to init staging repository for %s: %w", name, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to open staging worktree for %s: %w", name, err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("failed to add staged files for %s: %w", name, err)
	}
	_, err = wt.Commit("Stage "+name+" for packaging", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "debbuilder",
			Email: "debbuilder@localhost",
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to commit staged files for %s: %w", name, err)
	}
	return nil
}

// copyTree recursively copies src into dest, skipping any .git directories
// in the source (the staged copy gets a fresh repository instead).
func copyTree(src, dest string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)

		if d.IsDir() {
			if d.Name() == ".git" && rel != "." {
				return filepath.SkipDir
			}
			return os.MkdirAll(target, 0o750)
		}
		if d.Type()&fs.ModeSymlink != 0 {
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
