package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/debbuilder/internal/builder"
	"git.home.luguber.info/inful/debbuilder/internal/config"
	"git.home.luguber.info/inful/debbuilder/internal/executor"
	"git.home.luguber.info/inful/debbuilder/internal/history"
	"git.home.luguber.info/inful/debbuilder/internal/logfields"
	"git.home.luguber.info/inful/debbuilder/internal/metrics"
	"git.home.luguber.info/inful/debbuilder/internal/report"
)

// BuildCmd implements the 'build' command: one full packaging run.
type BuildCmd struct {
	Source    string `short:"s" help:"Override source_dir from the config"`
	Output    string `short:"o" help:"Override output_dir from the config"`
	Whitelist string `help:"Override the whitelist pattern"`
	Blacklist string `help:"Override the blacklist pattern"`
	Workspace bool   `short:"w" help:"Force workspace mode (combined build before packaging)"`
	Progress  bool   `help:"Show a terminal progress bar" default:"true" negatable:""`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	b.applyOverrides(cfg)

	return RunBuild(cfg, b.Progress)
}

func (b *BuildCmd) applyOverrides(cfg *config.Config) {
	if b.Source != "" {
		cfg.SourceDir = b.Source
	}
	if b.Output != "" {
		cfg.OutputDir = b.Output
	}
	if b.Whitelist != "" {
		cfg.Whitelist = b.Whitelist
	}
	if b.Blacklist != "" {
		cfg.Blacklist = b.Blacklist
	}
	if b.Workspace {
		cfg.WorkspaceMode = true
	}
}

// RunBuild executes a run against the real toolchain and prints the summary.
// The returned error makes the process exit non-zero for both run-abort
// conditions and partial failures.
func RunBuild(cfg *config.Config, progress bool) error {
	orch := builder.NewOrchestrator(cfg, executor.NewSystem())
	orch.Progress = progress

	var recorder *metrics.PrometheusRecorder
	if cfg.Metrics.Textfile != "" {
		recorder = metrics.NewPrometheusRecorder(prom.NewRegistry())
		orch.Recorder = recorder
	}

	rep, err := orch.Run()
	if err != nil {
		return err
	}

	rep.Summary(os.Stdout)

	if recorder != nil {
		if werr := recorder.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
			slog.Warn("Failed to write metrics textfile", logfields.Error(werr))
		}
	}
	if cfg.History.Path != "" {
		recordHistory(cfg.History.Path, rep)
	}

	return rep.Err()
}

// recordHistory is best-effort: a run must not fail because bookkeeping did.
func recordHistory(path string, rep report.Report) {
	store, err := history.Open(path)
	if err != nil {
		slog.Warn("Failed to open history database", logfields.Error(err))
		return
	}
	defer store.Close()

	if err := store.Save(context.Background(), rep); err != nil {
		slog.Warn("Failed to record run history", logfields.Error(err))
	}
}
