// Package metrics exposes generation run metrics.
//
// Components receive a Recorder and default to NoopRecorder, so callers never
// nil-check. The daemon swaps in a PrometheusRecorder and serves it with
// HTTPHandler:
//
//	reg := prometheus.NewRegistry()
//	gen := generator.New(host, opts, generator.WithObserver(generator.MetricsObserver(metrics.NewPrometheusRecorder(reg))))
//	http.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
