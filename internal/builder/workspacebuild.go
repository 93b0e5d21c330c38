package builder

import (
	"log/slog"

	"git.home.luguber.info/inful/debbuilder/internal/config"
	"git.home.luguber.info/inful/debbuilder/internal/discovery"
	"git.home.luguber.info/inful/debbuilder/internal/executor"
	"git.home.luguber.info/inful/debbuilder/internal/logfields"
	"git.home.luguber.info/inful/debbuilder/internal/workspace"
)

// WorkspaceBuilder runs the combined multi-package build that workspace mode
// requires before any per-package packaging, so cross-package build
// artifacts exist in the shared tree.
type WorkspaceBuilder struct {
	cfg    *config.Config
	exec   executor.Executor
	stager *workspace.Stager
}

// NewWorkspaceBuilder wires a WorkspaceBuilder for one run.
func NewWorkspaceBuilder(cfg *config.Config, exec executor.Executor, stager *workspace.Stager) *WorkspaceBuilder {
	return &WorkspaceBuilder{cfg: cfg, exec: exec, stager: stager}
}

// BuildAll stages every selected package into one tree, resolves
// dependencies across it once, and runs the build tool matching the target
// distro. Returns the combined root. Any build failure is fatal for the
// whole run.
func (w *WorkspaceBuilder) BuildAll(units []discovery.Unit) (string, error) {
	root, err := w.stager.StageAll(units)
	if err != nil {
		return "", err
	}

	if err := w.exec.Run(root, w.cfg.Commands.DepInstall...); err != nil {
		slog.Warn("Workspace dependency resolution failed, continuing", logfields.Error(err))
	}

	argv := w.cfg.Commands.ModernBuild
	if w.cfg.IsLegacyDistro() {
		argv = w.cfg.Commands.LegacyBuild
	}

	slog.Info("Building combined workspace",
		logfields.Command(argv[0]),
		logfields.Count(len(units)),
		logfields.Distro(w.cfg.RosDistro))

	if err := w.exec.Run(root, argv...); err != nil {
		return "", &WorkspaceBuildError{Tool: argv[0], Err: err}
	}
	return root, nil
}
