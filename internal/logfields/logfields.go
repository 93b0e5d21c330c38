package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyUnit     = "unit"
	KeyPath     = "path"
	KeyStep     = "step"
	KeyRule     = "rule"
	KeyPattern  = "pattern"
	KeyCommand  = "command"
	KeyArtifact = "artifact"
	KeyRunID    = "run_id"
	KeyCount    = "count"
	KeyIndex    = "index"
	KeyTotal    = "total"
	KeyDistro   = "distro"
	KeyRelease  = "release"
	KeyError    = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Unit(name string) slog.Attr  { return slog.String(KeyUnit, name) }
func Path(p string) slog.Attr     { return slog.String(KeyPath, p) }
func Step(s string) slog.Attr     { return slog.String(KeyStep, s) }
func Rule(r string) slog.Attr     { return slog.String(KeyRule, r) }
func Pattern(p string) slog.Attr  { return slog.String(KeyPattern, p) }
func Command(c string) slog.Attr  { return slog.String(KeyCommand, c) }
func Artifact(a string) slog.Attr { return slog.String(KeyArtifact, a) }
func RunID(id string) slog.Attr   { return slog.String(KeyRunID, id) }
func Count(n int) slog.Attr       { return slog.Int(KeyCount, n) }
func Index(i int) slog.Attr       { return slog.Int(KeyIndex, i) }
func Total(n int) slog.Attr       { return slog.Int(KeyTotal, n) }
func Distro(d string) slog.Attr   { return slog.String(KeyDistro, d) }
func Release(r string) slog.Attr  { return slog.String(KeyRelease, r) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
