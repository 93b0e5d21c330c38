// Package metrics records packaging-run observability data. Components get a
// Recorder by injection; the default NoopRecorder keeps the hot path free of
// nil checks when metrics are not configured.
package metrics

import "time"

// Recorder defines observability hooks for a packaging run. Implementations
// may forward to Prometheus or anything else.
type Recorder interface {
	IncUnitOutcome(outcome string) // outcome: success|failure
	ObserveUnitDuration(unit string, d time.Duration)
	AddArtifacts(n int)
	ObserveRunDuration(d time.Duration)
}

// NoopRecorder is the default Recorder when metrics are not configured.
type NoopRecorder struct{}

func (NoopRecorder) IncUnitOutcome(string)                   {}
func (NoopRecorder) ObserveUnitDuration(string, time.Duration) {}
func (NoopRecorder) AddArtifacts(int)                        {}
func (NoopRecorder) ObserveRunDuration(time.Duration)        {}
