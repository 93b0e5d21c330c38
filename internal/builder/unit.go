// Package builder drives the external packaging toolchain for each selected
// package and aggregates the results of a run.
package builder

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/debbuilder/internal/config"
	"git.home.luguber.info/inful/debbuilder/internal/discovery"
	"git.home.luguber.info/inful/debbuilder/internal/executor"
	"git.home.luguber.info/inful/debbuilder/internal/logfields"
	"git.home.luguber.info/inful/debbuilder/internal/report"
	"git.home.luguber.info/inful/debbuilder/internal/workspace"
)

// instructionsDir is what the packaging generator must leave behind before
// the native builder can run.
const instructionsDir = "debian"

// UnitBuilder turns one staged package into binary packages. Every failure
// is scoped to the package: the returned Result carries it and the run moves
// on.
type UnitBuilder struct {
	cfg    *config.Config
	exec   executor.Executor
	stager *workspace.Stager
}

// NewUnitBuilder wires a UnitBuilder for one run.
func NewUnitBuilder(cfg *config.Config, exec executor.Executor, stager *workspace.Stager) *UnitBuilder {
	return &UnitBuilder{cfg: cfg, exec: exec, stager: stager}
}

// Build stages the package (unless dir points at a pre-staged copy from
// workspace mode) and walks it through generation, dependency resolution,
// the native build and artifact harvesting.
func (b *UnitBuilder) Build(u discovery.Unit, dir string) (res report.Result) {
	start := time.Now()
	res = report.Result{Unit: u.Name}
	defer func() { res.Duration = time.Since(start) }()

	if dir == "" {
		staged, err := b.stager.Stage(u)
		if err != nil {
			res.Kind = report.KindStagingFailed
			res.Err = &StagingError{Unit: u.Name, Err: err}
			return res
		}
		dir = staged
	}

	if err := b.exec.Run(dir, b.generatorArgv()...); err != nil {
		res.Kind = report.KindGenerationFailed
		res.Err = &GenerationError{Unit: u.Name, Err: err}
		return res
	}

	// Dependency resolution failures are common and usually non-blocking
	// in this environment; the build proceeds regardless.
	if err := b.exec.Run(dir, b.cfg.Commands.DepInstall...); err != nil {
		slog.Warn("Dependency resolution failed, continuing",
			logfields.Unit(u.Name), logfields.Error(err))
	}

	instructions := filepath.Join(dir, instructionsDir)
	if _, err := os.Stat(instructions); err != nil {
		res.Kind = report.KindMissingInstructions
		res.Err = &MissingInstructionsError{Unit: u.Name, Path: instructions}
		return res
	}

	if err := b.exec.Run(dir, b.cfg.Commands.NativeBuild...); err != nil {
		res.Kind = report.KindNativeBuildFailed
		res.Err = &NativeBuildError{Unit: u.Name, Err: err}
		return res
	}

	found, err := collectArtifacts(dir, b.cfg.ArtifactGlobs)
	if err == nil && len(found) == 0 {
		// A zero-exit build with no output is still a failed package.
		res.Kind = report.KindNoArtifacts
		res.Err = &NoArtifactsError{Unit: u.Name}
		return res
	}
	if err == nil {
		res.Artifacts, err = copyArtifacts(found, b.cfg.OutputDir)
	}
	if err != nil {
		res.Kind = report.KindNoArtifacts
		res.Err = &NoArtifactsError{Unit: u.Name}
		return res
	}

	slog.Info("Package built", logfields.Unit(u.Name), logfields.Count(len(res.Artifacts)))
	return res
}

// generatorArgv appends the target platform identifiers to the configured
// generator command.
func (b *UnitBuilder) generatorArgv() []string {
	argv := append([]string{}, b.cfg.Commands.Generator...)
	return append(argv,
		"--os-name", "ubuntu",
		"--os-version", b.cfg.OsRelease,
		"--ros-distro", b.cfg.RosDistro,
	)
}
