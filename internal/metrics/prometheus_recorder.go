package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "sitefreeze"

// PrometheusRecorder implements Recorder with Prometheus collectors.
type PrometheusRecorder struct {
	stageDuration  *prom.HistogramVec
	runDuration    prom.Histogram
	runOutcomes    *prom.CounterVec
	pagesRendered  *prom.CounterVec
	renderDuration prom.Histogram
	filesCopied    *prom.CounterVec
	copyFailures   *prom.CounterVec
	generatedFiles prom.Gauge
}

// NewPrometheusRecorder creates the collectors and registers them on reg
// (a fresh registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of generation stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Total duration of a generation run",
			Buckets:   prom.DefBuckets,
		}),
		runOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Generation runs by outcome",
		}, []string{"outcome"}),
		pagesRendered: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_rendered_total",
			Help:      "Pages written, by language",
		}, []string{"lang"}),
		renderDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "page_render_duration_seconds",
			Help:      "Duration of a single page render and write",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		}),
		filesCopied: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "files_copied_total",
			Help:      "Files copied into the output folder, by kind",
		}, []string{"kind"}),
		copyFailures: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "copy_failures_total",
			Help:      "Best-effort copy failures, by kind",
		}, []string{"kind"}),
		generatedFiles: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "generated_files",
			Help:      "Files in the manifest of the last run",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.runDuration, pr.runOutcomes, pr.pagesRendered,
		pr.renderDuration, pr.filesCopied, pr.copyFailures, pr.generatedFiles)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome Outcome) {
	if p == nil {
		return
	}
	p.runOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncPagesRendered(language string) {
	if p == nil {
		return
	}
	p.pagesRendered.WithLabelValues(language).Inc()
}

func (p *PrometheusRecorder) ObserveRenderDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.renderDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncFilesCopied(kind string) {
	if p == nil {
		return
	}
	p.filesCopied.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncCopyFailures(kind string) {
	if p == nil {
		return
	}
	p.copyFailures.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) SetGeneratedFiles(n int) {
	if p == nil {
		return
	}
	p.generatedFiles.Set(float64(n))
}
