package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "gridmix_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	runTotal   *prometheus.CounterVec
	runLatency *prometheus.HistogramVec

	fetchTotal   *prometheus.CounterVec
	fetchLatency *prometheus.HistogramVec
	fetchRows    *prometheus.GaugeVec

	outputRows          prometheus.Gauge
	lastSuccessUnixTime prometheus.Gauge
)

// Init registers pipeline metrics with the default registry. Safe to call more than once.
func Init() {
	InitWith(prometheus.DefaultRegisterer)
}

// InitWith registers pipeline metrics with reg. Only the first call has an effect.
func InitWith(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		runTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "pipeline_runs_total",
				Help: "Total pipeline runs by result and error kind",
			},
			[]string{"result", "kind"},
		)
		runLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "pipeline_run_latency_seconds",
				Help:    "Pipeline run latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		fetchTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "fetch_total",
				Help: "Total upstream fetches by source and result",
			},
			[]string{"source", "result"},
		)
		fetchLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "fetch_latency_seconds",
				Help:    "Upstream fetch latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source", "result"},
		)
		fetchRows = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "fetch_rows",
				Help: "Rows within the lookback window returned by the last fetch",
			},
			[]string{"source"},
		)
		outputRows = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "output_rows",
				Help: "Rows written by the last successful run",
			},
		)
		lastSuccessUnixTime = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "last_success_timestamp_seconds",
				Help: "Unix time of the last successful run",
			},
		)

		reg.MustRegister(
			runTotal,
			runLatency,
			fetchTotal,
			fetchLatency,
			fetchRows,
			outputRows,
			lastSuccessUnixTime,
		)
	})
}

// ObserveFetch records one upstream fetch.
func ObserveFetch(source, result string, rows int, duration time.Duration) {
	if source == "" {
		source = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if fetchTotal != nil {
		fetchTotal.WithLabelValues(source, result).Inc()
	}
	if fetchLatency != nil {
		fetchLatency.WithLabelValues(source, result).Observe(duration.Seconds())
	}
	if fetchRows != nil && result == resultSuccess {
		fetchRows.WithLabelValues(source).Set(float64(rows))
	}
}

// ObserveRun records a pipeline run. kind names the error type for failed runs.
func ObserveRun(result, kind string, rows int, duration time.Duration, finishedAt time.Time) {
	if result == "" {
		result = resultSuccess
	}
	if kind == "" {
		kind = "none"
	}
	if runTotal != nil {
		runTotal.WithLabelValues(result, kind).Inc()
	}
	if runLatency != nil {
		runLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
	if result != resultSuccess {
		return
	}
	if outputRows != nil {
		outputRows.Set(float64(rows))
	}
	if lastSuccessUnixTime != nil {
		lastSuccessUnixTime.Set(float64(finishedAt.Unix()))
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
