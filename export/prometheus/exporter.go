// Package prometheus renders memtrack metrics in Prometheus text exposition
// format.
package prometheus

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/pavanmanishd/memtrack"
)

type metricsSource interface {
	Metrics() memtrack.Metrics
}

// Exporter renders tracker metrics for Prometheus scrapes.
type Exporter struct {
	source metricsSource
}

// NewExporter creates an exporter that reads from the given tracker.
func NewExporter(tracker *memtrack.Tracker) *Exporter {
	return &Exporter{source: tracker}
}

// NewExporterFromSource creates an exporter from a custom metrics source.
func NewExporterFromSource(source metricsSource) *Exporter {
	return &Exporter{source: source}
}

// Handler returns an http.Handler that serves the metrics.
func (e *Exporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = w.Write([]byte(e.Render()))
	})
}

// Render returns the current metrics in Prometheus text exposition format.
func (e *Exporter) Render() string {
	if e == nil || e.source == nil {
		return ""
	}

	m := e.source.Metrics()

	var b strings.Builder
	b.Grow(512)

	writeMetric(&b, "memtrack_allocated_bytes_total", "Bytes ever requested through the tracker.", "counter", m.TotalAllocated)
	writeMetric(&b, "memtrack_freed_bytes_total", "Bytes ever released through the tracker.", "counter", m.TotalFreed)
	writeMetric(&b, "memtrack_in_use_bytes", "Bytes currently live.", "gauge", m.CurrentUsage)
	if m.Limit > 0 {
		writeMetric(&b, "memtrack_limit_bytes", "Configured usage cap.", "gauge", m.Limit)
	}

	return b.String()
}

func writeMetric(b *strings.Builder, name, help, kind string, value uint64) {
	b.WriteString("# HELP ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(help)
	b.WriteByte('\n')
	b.WriteString("# TYPE ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(kind)
	b.WriteByte('\n')
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(value, 10))
	b.WriteByte('\n')
}
