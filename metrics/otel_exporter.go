package metrics

import (
	"context"
	"fmt"
	"net/http"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OTelExporter provides OpenTelemetry metrics export following OTel standards
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	registry      *promclient.Registry
	collector     Collector

	meter         metric.Meter
	booksGauge    metric.Int64ObservableGauge
	commentsGauge metric.Int64ObservableGauge
	operations    metric.Int64Counter
}

// NewOTelExporter creates a new OpenTelemetry metrics exporter with Prometheus format.
// Metrics are registered on a private registry, served by ServeHTTP.
func NewOTelExporter(collector Collector) (*OTelExporter, error) {
	registry := promclient.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	meter := meterProvider.Meter(
		"personal-library",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		registry:      registry,
		collector:     collector,
		meter:         meter,
	}

	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

func (oe *OTelExporter) registerInstruments() error {
	var err error

	oe.booksGauge, err = oe.meter.Int64ObservableGauge(
		"library.books",
		metric.WithDescription("Number of stored books"),
		metric.WithUnit("{books}"),
	)
	if err != nil {
		return fmt.Errorf("creating books gauge: %w", err)
	}

	oe.commentsGauge, err = oe.meter.Int64ObservableGauge(
		"library.comments",
		metric.WithDescription("Number of comments across all books"),
		metric.WithUnit("{comments}"),
	)
	if err != nil {
		return fmt.Errorf("creating comments gauge: %w", err)
	}

	// one Collect per scrape feeds both gauges
	_, err = oe.meter.RegisterCallback(oe.observe, oe.booksGauge, oe.commentsGauge)
	if err != nil {
		return fmt.Errorf("registering gauge callback: %w", err)
	}

	oe.operations, err = oe.meter.Int64Counter(
		"library.operations",
		metric.WithDescription("Book operations by outcome"),
		metric.WithUnit("{operations}"),
	)
	if err != nil {
		return fmt.Errorf("creating operations counter: %w", err)
	}

	return nil
}

func (oe *OTelExporter) observe(ctx context.Context, observer metric.Observer) error {
	m, err := oe.collector.Collect(ctx)
	if err != nil {
		return err
	}
	observer.ObserveInt64(oe.booksGauge, m.Books)
	observer.ObserveInt64(oe.commentsGauge, m.Comments)
	return nil
}

// RecordOperation counts one finished book operation, e.g. ("create", "ok")
func (oe *OTelExporter) RecordOperation(ctx context.Context, operation, outcome string) {
	oe.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

// ServeHTTP returns the handler serving Prometheus-formatted metrics
func (oe *OTelExporter) ServeHTTP() http.Handler {
	return promhttp.HandlerFor(oe.registry, promhttp.HandlerOpts{})
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
