package builder

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"git.home.luguber.info/inful/debbuilder/internal/config"
	"git.home.luguber.info/inful/debbuilder/internal/discovery"
	"git.home.luguber.info/inful/debbuilder/internal/executor"
	"git.home.luguber.info/inful/debbuilder/internal/logfields"
	"git.home.luguber.info/inful/debbuilder/internal/metrics"
	"git.home.luguber.info/inful/debbuilder/internal/report"
	"git.home.luguber.info/inful/debbuilder/internal/workspace"
)

// Orchestrator sequences one full run: discovery, filtering, the optional
// combined build, the per-package loop and the final report. Packages are
// built strictly sequentially in discovery order.
type Orchestrator struct {
	cfg  *config.Config
	exec executor.Executor

	// Progress controls the terminal progress bar; off in tests.
	Progress bool
	// Recorder receives run observability data; NoopRecorder by default.
	Recorder metrics.Recorder
}

// NewOrchestrator builds an Orchestrator from a validated configuration.
func NewOrchestrator(cfg *config.Config, exec executor.Executor) *Orchestrator {
	return &Orchestrator{cfg: cfg, exec: exec, Recorder: metrics.NoopRecorder{}}
}

// Select runs discovery and filtering only, returning the Build Set. Used by
// both Run and the discover command.
func (o *Orchestrator) Select() ([]discovery.Unit, error) {
	units, err := discovery.Discover(o.cfg.SourceDir, o.cfg.Descriptor)
	if err != nil {
		return nil, err
	}
	return discovery.FilterPatterns(units, o.cfg.Whitelist, o.cfg.Blacklist)
}

// Run executes the whole run. The returned error covers run-abort
// conditions (empty build set, dependency source update failure, combined
// build failure); per-package failures land in the report instead and never
// abort the loop.
func (o *Orchestrator) Run() (report.Report, error) {
	runID := uuid.NewString()[:8]
	runStart := time.Now()
	slog.Info("Starting packaging run",
		logfields.RunID(runID),
		logfields.Distro(o.cfg.RosDistro),
		logfields.Release(o.cfg.OsRelease))

	units, err := o.Select()
	if err != nil {
		return report.Report{RunID: runID}, err
	}

	if err := os.MkdirAll(o.cfg.OutputDir, 0o750); err != nil {
		return report.Report{RunID: runID}, fmt.Errorf("failed to create output directory: %w", err)
	}

	// The dependency source is updated once per run, not per package.
	// Unlike per-package dependency installation this is fatal: every
	// later resolution would work from stale data.
	if err := o.exec.Run(o.cfg.SourceDir, o.cfg.Commands.DepUpdate...); err != nil {
		return report.Report{RunID: runID}, fmt.Errorf("dependency source update failed: %w", err)
	}

	stager := workspace.NewStager(o.cfg.WorkDir)

	var combinedRoot string
	if o.cfg.WorkspaceMode {
		wb := NewWorkspaceBuilder(o.cfg, o.exec, stager)
		combinedRoot, err = wb.BuildAll(units)
		if err != nil {
			return report.Report{RunID: runID}, err
		}
	}

	ub := NewUnitBuilder(o.cfg, o.exec, stager)
	bar := o.newProgressBar(len(units))

	results := make([]report.Result, 0, len(units))
	for i, u := range units {
		slog.Info("Building package",
			logfields.Unit(u.Name),
			logfields.Index(i+1),
			logfields.Total(len(units)))

		dir := ""
		if combinedRoot != "" {
			dir = filepath.Join(combinedRoot, "src", u.Name)
		}

		res := ub.Build(u, dir)
		o.Recorder.ObserveUnitDuration(u.Name, res.Duration)
		if res.Succeeded() {
			o.Recorder.IncUnitOutcome("success")
			o.Recorder.AddArtifacts(len(res.Artifacts))
		} else {
			o.Recorder.IncUnitOutcome("failure")
			slog.Error("Package build failed",
				logfields.Unit(u.Name),
				slog.String("kind", string(res.Kind)),
				logfields.Error(res.Err))
		}
		results = append(results, res)

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	rep := report.Reduce(runID, results)

	// Final correctness check against the directory itself, not the
	// tallies: a package may report success yet place nothing.
	n, err := countOutputArtifacts(o.cfg.OutputDir, o.cfg.ArtifactGlobs)
	if err != nil {
		return rep, fmt.Errorf("failed to inspect output directory: %w", err)
	}
	if n == 0 {
		rep.Artifacts = nil
	}
	o.Recorder.ObserveRunDuration(time.Since(runStart))

	slog.Info("Run finished",
		logfields.RunID(runID),
		slog.Int("succeeded", rep.Succeeded),
		slog.Int("failed", rep.Failed),
		slog.Int("artifacts", n))
	return rep, nil
}

func (o *Orchestrator) newProgressBar(total int) *progressbar.ProgressBar {
	if !o.Progress {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("building"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
