// Package telemetry provides OpenTelemetry integration for the application.
package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/verustcode/doctest/pkg/logger"
)

const (
	// MeterName is the default meter name for the application
	MeterName = "github.com/verustcode/doctest"
)

// Metrics holds all application metrics
type Metrics struct {
	ReportsRendered metric.Int64Counter
	ItemsRendered   metric.Int64Counter
	RenderDuration  metric.Float64Histogram
	RenderErrors    metric.Int64Counter
	PDFExports      metric.Int64Counter
}

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// GetMetrics returns the global metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		var err error
		globalMetrics, err = initMetrics()
		if err != nil {
			logger.Error("Failed to initialize metrics", zap.Error(err))
			// Return empty metrics to avoid nil pointer
			globalMetrics = &Metrics{}
		}
	})
	return globalMetrics
}

// initMetrics initializes all application metrics
func initMetrics() (*Metrics, error) {
	meter := otel.Meter(MeterName)
	m := &Metrics{}

	var err error

	m.ReportsRendered, err = meter.Int64Counter(
		"doctest_reports_rendered_total",
		metric.WithDescription("Total number of reports written"),
		metric.WithUnit("{report}"),
	)
	if err != nil {
		return nil, err
	}

	m.ItemsRendered, err = meter.Int64Counter(
		"doctest_items_rendered_total",
		metric.WithDescription("Total number of documentation items rendered"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, err
	}

	m.RenderDuration, err = meter.Float64Histogram(
		"doctest_render_duration_seconds",
		metric.WithDescription("Duration of report rendering in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5),
	)
	if err != nil {
		return nil, err
	}

	m.RenderErrors, err = meter.Int64Counter(
		"doctest_render_errors_total",
		metric.WithDescription("Total number of failed report renders"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	m.PDFExports, err = meter.Int64Counter(
		"doctest_pdf_exports_total",
		metric.WithDescription("Total number of PDF exports"),
		metric.WithUnit("{export}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordRender records a successfully written report
func (m *Metrics) RecordRender(ctx context.Context, itemCount int, durationSeconds float64) {
	if m.ReportsRendered != nil {
		m.ReportsRendered.Add(ctx, 1)
	}
	if m.ItemsRendered != nil {
		m.ItemsRendered.Add(ctx, int64(itemCount))
	}
	if m.RenderDuration != nil {
		m.RenderDuration.Record(ctx, durationSeconds)
	}
}

// RecordRenderError records a failed render with the error code that caused it
func (m *Metrics) RecordRenderError(ctx context.Context, code string) {
	if m.RenderErrors == nil {
		return
	}
	m.RenderErrors.Add(ctx, 1,
		metric.WithAttributes(attribute.String("code", code)),
	)
}

// RecordPDFExport records a PDF export attempt
func (m *Metrics) RecordPDFExport(ctx context.Context, success bool) {
	if m.PDFExports == nil {
		return
	}
	m.PDFExports.Add(ctx, 1,
		metric.WithAttributes(attribute.Bool("success", success)),
	)
}
