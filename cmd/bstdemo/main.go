package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xbst/lib/tree"
	"github.com/benz9527/xbst/observability"
	"github.com/benz9527/xbst/xlog"
)

const appName = "bstdemo"

func newLogger() xlog.XLogger {
	logger := xlog.NewXLogger(xlog.WithXLoggerEncoder(xlog.JSON))
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Logf(zapcore.InfoLevel, format, args...)
	}))
	return logger.Named(appName)
}

func newMetricsExporter(lc fx.Lifecycle, cfg *demoConfig) (*observability.MetricsExporter, error) {
	exporter, err := observability.InitMetricsExporter(cfg.metrics)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: exporter.Shutdown,
	})
	return exporter, nil
}

// newTree runs after the exporter, so the stats meter is bound
// to the installed provider.
func newTree(logger xlog.XLogger, exporter *observability.MetricsExporter) tree.BST[int] {
	opts := []tree.BSTOpt[int]{tree.WithBSTLogger[int](logger)}
	if exporter.Type() != observability.MetricsExporterNone {
		opts = append(opts, tree.WithBSTStats[int](appName))
	}
	return tree.NewBST[int](opts...)
}

func serveMetrics(lc fx.Lifecycle, cfg *demoConfig, exporter *observability.MetricsExporter, logger xlog.XLogger) {
	if exporter.Type() == observability.MetricsExporterNone {
		return
	}
	var unregister func() error
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) (err error) {
			unregister, err = observability.StartAppStats(appName)
			return err
		},
		OnStop: func(ctx context.Context) error {
			return unregister()
		},
	})
	if exporter.Type() != observability.MetricsExporterPrometheus {
		return
	}
	srv := &http.Server{
		Addr:              cfg.metricsAddr,
		Handler:           exporter.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Info("serving metrics", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error(err, "metrics server stopped")
				}
			}()
			return nil
		},
		OnStop: srv.Shutdown,
	})
}

// run keeps the prometheus endpoint alive until a signal, the
// other exporters shut the app down after the scenario.
func run(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *demoConfig,
	bst tree.BST[int],
	exporter *observability.MetricsExporter,
	logger xlog.XLogger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := runScenario(cfg, bst, logger); err != nil {
				logger.ErrorStack(err, "scenario failed")
				return shutdowner.Shutdown(fx.ExitCode(1))
			}
			if exporter.Type() == observability.MetricsExporterPrometheus {
				return nil
			}
			return shutdowner.Shutdown()
		},
		OnStop: func(ctx context.Context) error {
			bst.Release()
			_ = logger.Sync()
			return nil
		},
	})
}

func demoOptions(getenv func(string) string) fx.Option {
	return fx.Options(
		fx.Provide(
			newLogger,
			func() (*demoConfig, error) {
				return loadDemoConfig(getenv)
			},
			newMetricsExporter,
			newTree,
		),
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Invoke(serveMetrics, run),
	)
}

func main() {
	fx.New(demoOptions(os.Getenv)).Run()
}
