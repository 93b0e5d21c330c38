// Package report holds per-package build results and reduces them into the
// run-level report that decides the process exit code.
package report

import (
	"errors"
	"path/filepath"
	"time"
)

// FailureKind classifies why a package build failed.
type FailureKind string

const (
	KindNone                FailureKind = ""
	KindGenerationFailed    FailureKind = "generation_failed"
	KindMissingInstructions FailureKind = "missing_build_instructions"
	KindNativeBuildFailed   FailureKind = "native_build_failed"
	KindNoArtifacts         FailureKind = "no_artifacts"
	KindStagingFailed       FailureKind = "staging_failed"
)

// ErrNoArtifacts is the run-level failure raised when the whole run produced
// nothing, regardless of per-package tallies.
var ErrNoArtifacts = errors.New("no artifacts produced by any package")

// Result is one package's outcome. Artifacts may be non-empty only on
// success.
type Result struct {
	Unit      string
	Kind      FailureKind
	Err       error
	Artifacts []string
	Duration  time.Duration
}

// Succeeded reports whether the package built and produced artifacts.
func (r Result) Succeeded() bool { return r.Err == nil }

// Report aggregates one run. Invariant: Succeeded+Failed == Total.
type Report struct {
	RunID     string
	Total     int
	Succeeded int
	Failed    int
	// Artifacts is the consolidated list, deduplicated by filename the
	// same way the flat output directory collapses collisions.
	Artifacts []string
	Results   []Result
	Duration  time.Duration
}

// Reduce folds per-package results into a Report. Pure: no I/O, so the
// aggregation policy is testable without builds.
func Reduce(runID string, results []Result) Report {
	rep := Report{RunID: runID, Total: len(results), Results: results}

	seen := map[string]bool{}
	for _, res := range results {
		rep.Duration += res.Duration
		if res.Succeeded() {
			rep.Succeeded++
		} else {
			rep.Failed++
		}
		for _, a := range res.Artifacts {
			name := filepath.Base(a)
			if seen[name] {
				continue
			}
			seen[name] = true
			rep.Artifacts = append(rep.Artifacts, name)
		}
	}
	return rep
}

// Err maps the report to the run outcome: any package failure, or an empty
// artifact set, makes the run fail. A run that built everything but shipped
// nothing is not a success.
func (r Report) Err() error {
	if len(r.Artifacts) == 0 {
		return ErrNoArtifacts
	}
	if r.Failed > 0 {
		return errors.New("one or more packages failed to build")
	}
	return nil
}

// ExitCode is the process exit status for this report.
func (r Report) ExitCode() int {
	if r.Err() != nil {
		return 1
	}
	return 0
}
