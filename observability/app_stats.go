package observability

import (
	"context"
	"runtime"
	"strings"

	"github.com/samber/lo"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const AppStatsName = "xboot/app"

func appStatsName(name string) string {
	builder := &strings.Builder{}
	builder.WriteString(AppStatsName)
	builder.WriteString("/")
	if name = strings.TrimSpace(name); len(name) > 0 {
		builder.WriteString(name)
	} else {
		builder.WriteString("default")
	}
	return builder.String()
}

// StartAppStats observes the goroutines and GOMAXPROCS of the process
// and starts the otel go runtime instrumentation on the global provider.
// The returned callback unregisters the observers.
func StartAppStats(name string) (func() error, error) {
	meter := otel.Meter(
		appStatsName(name),
		metric.WithInstrumentationVersion(otelruntime.Version()),
	)
	goroutines := lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
		"app.core.goroutines",
		metric.WithDescription(`The application goroutines' info.`),
	))
	procs := lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
		"app.core.processes",
		metric.WithDescription(`The application processes' info.`),
	))
	reg, err := meter.RegisterCallback(func(ctx context.Context, ob metric.Observer) error {
		ob.ObserveInt64(goroutines, int64(runtime.NumGoroutine()))
		ob.ObserveInt64(procs, int64(runtime.GOMAXPROCS(0)))
		return nil
	}, goroutines, procs)
	if err != nil {
		return nil, err
	}
	if err = otelruntime.Start(otelruntime.WithMeterProvider(otel.GetMeterProvider())); err != nil {
		_ = reg.Unregister()
		return nil, err
	}
	return reg.Unregister, nil
}
