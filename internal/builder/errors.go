package builder

import "fmt"

// Typed per-step build errors enabling structured classification without
// string parsing upstream.

type GenerationError struct {
	Unit string
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("metadata generation failed for %s: %v", e.Unit, e.Err)
}
func (e *GenerationError) Unwrap() error { return e.Err }

type MissingInstructionsError struct {
	Unit string
	Path string
}

func (e *MissingInstructionsError) Error() string {
	return fmt.Sprintf("generator produced no build instructions for %s (expected %s)", e.Unit, e.Path)
}

type NativeBuildError struct {
	Unit string
	Err  error
}

func (e *NativeBuildError) Error() string {
	return fmt.Sprintf("native build failed for %s: %v", e.Unit, e.Err)
}
func (e *NativeBuildError) Unwrap() error { return e.Err }

type NoArtifactsError struct {
	Unit string
}

func (e *NoArtifactsError) Error() string {
	return fmt.Sprintf("build for %s reported success but produced no artifacts", e.Unit)
}

type StagingError struct {
	Unit string
	Err  error
}

func (e *StagingError) Error() string {
	return fmt.Sprintf("staging failed for %s: %v", e.Unit, e.Err)
}
func (e *StagingError) Unwrap() error { return e.Err }

// WorkspaceBuildError aborts the whole run: per-package packaging in
// workspace mode consumes the combined tree's build outputs, so nothing
// after a failed combined build can succeed.
type WorkspaceBuildError struct {
	Tool string
	Err  error
}

func (e *WorkspaceBuildError) Error() string {
	return fmt.Sprintf("combined workspace build (%s) failed: %v", e.Tool, e.Err)
}
func (e *WorkspaceBuildError) Unwrap() error { return e.Err }
