package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// PrometheusRecorder implements Recorder with Prometheus collectors. A
// packaging run is a single-shot process, so metrics leave the process
// through a textfile for the node-exporter textfile collector rather than a
// scrape endpoint.
type PrometheusRecorder struct {
	registry     *prom.Registry
	unitOutcomes *prom.CounterVec
	unitDuration *prom.HistogramVec
	artifacts    prom.Counter
	runDuration  prom.Gauge
}

// NewPrometheusRecorder constructs and registers the run collectors.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.unitOutcomes = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "debbuilder",
		Name:      "units_total",
		Help:      "Package build outcomes",
	}, []string{"outcome"})
	pr.unitDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: "debbuilder",
		Name:      "unit_build_duration_seconds",
		Help:      "Duration of individual package builds",
		Buckets:   prom.DefBuckets,
	}, []string{"unit"})
	pr.artifacts = prom.NewCounter(prom.CounterOpts{
		Namespace: "debbuilder",
		Name:      "artifacts_total",
		Help:      "Binary packages placed in the output directory",
	})
	pr.runDuration = prom.NewGauge(prom.GaugeOpts{
		Namespace: "debbuilder",
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of the whole run",
	})
	reg.MustRegister(pr.unitOutcomes, pr.unitDuration, pr.artifacts, pr.runDuration)
	return pr
}

func (pr *PrometheusRecorder) IncUnitOutcome(outcome string) {
	pr.unitOutcomes.WithLabelValues(outcome).Inc()
}

func (pr *PrometheusRecorder) ObserveUnitDuration(unit string, d time.Duration) {
	pr.unitDuration.WithLabelValues(unit).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) AddArtifacts(n int) {
	pr.artifacts.Add(float64(n))
}

func (pr *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	pr.runDuration.Set(d.Seconds())
}

// WriteTextfile writes the gathered families in text exposition format,
// atomically via a temp file rename so a scraping collector never reads a
// partial write.
func (pr *PrometheusRecorder) WriteTextfile(path string) error {
	families, err := pr.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "debbuilder-metrics-*.prom")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	for _, fam := range families {
		if _, err := expfmt.MetricFamilyToText(tmp, fam); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to encode metrics: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
