// Package otel publishes memtrack metrics through an OpenTelemetry meter.
package otel

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/metric"

	"github.com/pavanmanishd/memtrack"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	Metrics() memtrack.Metrics
}

// Exporter registers observable instruments on a meter that read the tracker
// counters at collection time.
type Exporter struct {
	source       metricsSource
	registration metric.Registration

	allocated metric.Int64ObservableCounter
	freed     metric.Int64ObservableCounter
	inUse     metric.Int64ObservableGauge
}

// NewExporter creates an exporter that reads from the given tracker.
func NewExporter(meter metric.Meter, tracker *memtrack.Tracker) (*Exporter, error) {
	return NewExporterFromSource(meter, tracker)
}

// NewExporterFromSource creates an exporter from a custom metrics source.
func NewExporterFromSource(meter metric.Meter, source metricsSource) (*Exporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	exporter := &Exporter{source: source}

	var err error
	exporter.allocated, err = meter.Int64ObservableCounter(
		"memtrack.allocated_bytes",
		metric.WithDescription("Bytes ever requested through the tracker."),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("create allocated counter: %w", err)
	}

	exporter.freed, err = meter.Int64ObservableCounter(
		"memtrack.freed_bytes",
		metric.WithDescription("Bytes ever released through the tracker."),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("create freed counter: %w", err)
	}

	exporter.inUse, err = meter.Int64ObservableGauge(
		"memtrack.in_use_bytes",
		metric.WithDescription("Bytes currently live."),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("create in-use gauge: %w", err)
	}

	registration, err := meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		m := exporter.source.Metrics()
		observer.ObserveInt64(exporter.allocated, int64(m.TotalAllocated))
		observer.ObserveInt64(exporter.freed, int64(m.TotalFreed))
		observer.ObserveInt64(exporter.inUse, int64(m.CurrentUsage))
		return nil
	}, exporter.allocated, exporter.freed, exporter.inUse)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}

	exporter.registration = registration
	return exporter, nil
}

// Close unregisters the instruments from the meter.
func (e *Exporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
