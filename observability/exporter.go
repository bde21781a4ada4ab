package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"

	"github.com/benz9527/xbst/lib/infra"
)

type MetricsExporterType string

const (
	MetricsExporterNone       MetricsExporterType = "none"
	MetricsExporterStdout     MetricsExporterType = "stdout"
	MetricsExporterPrometheus MetricsExporterType = "prometheus"
)

// MetricsExporter owns the global meter provider it installed.
type MetricsExporter struct {
	typ      MetricsExporterType
	provider *metric.MeterProvider
	registry *promclient.Registry
}

func (e *MetricsExporter) Type() MetricsExporterType {
	if e == nil {
		return MetricsExporterNone
	}
	return e.typ
}

// Handler serves the prometheus scrape endpoint, 404 for the other exporters.
func (e *MetricsExporter) Handler() http.Handler {
	if e == nil || e.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// Shutdown flushes and stops the meter provider.
func (e *MetricsExporter) Shutdown(ctx context.Context) error {
	if e == nil || e.provider == nil {
		return nil
	}
	return e.provider.Shutdown(ctx)
}

type exporterCfg struct {
	interval time.Duration
	timeout  time.Duration
	out      io.Writer
}

type MetricsExporterOption func(*exporterCfg)

func WithMetricsInterval(interval time.Duration) MetricsExporterOption {
	return func(cfg *exporterCfg) {
		if interval > 0 {
			cfg.interval = interval
		}
	}
}

func WithMetricsTimeout(timeout time.Duration) MetricsExporterOption {
	return func(cfg *exporterCfg) {
		if timeout > 0 {
			cfg.timeout = timeout
		}
	}
}

func WithMetricsOutWriter(w io.Writer) MetricsExporterOption {
	return func(cfg *exporterCfg) {
		if w != nil {
			cfg.out = w
		}
	}
}

// Serves for test/dev environment.
func newConsoleMetricsExporter(cfg *exporterCfg) (*MetricsExporter, error) {
	exporter, err := stdoutmetric.New(
		stdoutmetric.WithWriter(cfg.out),
		stdoutmetric.WithPrettyPrint(),
	)
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(cfg.interval),
		metric.WithTimeout(cfg.timeout),
	)))
	otel.SetMeterProvider(mp)
	return &MetricsExporter{typ: MetricsExporterStdout, provider: mp}, nil
}

// Serves for the product environment and fetch stats metrics by HTTP.
func newPrometheusMetricsExporter() (*MetricsExporter, error) {
	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(mp)
	return &MetricsExporter{typ: MetricsExporterPrometheus, provider: mp, registry: registry}, nil
}

// InitMetricsExporter installs the global meter provider. The none
// type keeps the otel no-op provider.
func InitMetricsExporter(typ MetricsExporterType, opts ...MetricsExporterOption) (*MetricsExporter, error) {
	cfg := &exporterCfg{
		interval: 10 * time.Second,
		timeout:  5 * time.Second,
		out:      os.Stdout,
	}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	switch typ {
	case MetricsExporterNone, "":
		return &MetricsExporter{typ: MetricsExporterNone}, nil
	case MetricsExporterStdout:
		return newConsoleMetricsExporter(cfg)
	case MetricsExporterPrometheus:
		return newPrometheusMetricsExporter()
	default:
	}
	return nil, infra.NewErrorStack("[observability] unknown metrics exporter " + string(typ))
}
