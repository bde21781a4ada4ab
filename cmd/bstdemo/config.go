package main

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/multierr"

	"github.com/benz9527/xbst/lib/infra"
	"github.com/benz9527/xbst/observability"
)

const (
	envDemoKeys        = "BST_DEMO_KEYS"
	envDemoRemove      = "BST_DEMO_REMOVE"
	envDemoMetrics     = "BST_DEMO_METRICS"
	envDemoMetricsAddr = "BST_DEMO_METRICS_ADDR"

	defaultDemoKeys        = "10,40,50,5,15,32,33"
	defaultDemoRemove      = "40"
	defaultDemoMetricsAddr = ":9464"
)

type demoConfig struct {
	keys        []int
	remove      []int
	metrics     observability.MetricsExporterType
	metricsAddr string
}

func parseKeys(env, raw string) ([]int, error) {
	var merr error
	fields := lo.Compact(lo.Map(strings.Split(raw, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
	keys := make([]int, 0, len(fields))
	for _, f := range fields {
		key, err := strconv.Atoi(f)
		if err != nil {
			merr = multierr.Append(merr, err)
			continue
		}
		keys = append(keys, key)
	}
	if merr != nil {
		return nil, infra.WrapErrorStackWithMessage(merr, "[bstdemo] invalid "+env)
	}
	return keys, nil
}

func loadDemoConfig(getenv func(string) string) (*demoConfig, error) {
	lookup := func(key, defaultVal string) string {
		if v := strings.TrimSpace(getenv(key)); len(v) > 0 {
			return v
		}
		return defaultVal
	}
	keys, err := parseKeys(envDemoKeys, lookup(envDemoKeys, defaultDemoKeys))
	if err != nil {
		return nil, err
	}
	remove, err := parseKeys(envDemoRemove, lookup(envDemoRemove, defaultDemoRemove))
	if err != nil {
		return nil, err
	}
	metrics := observability.MetricsExporterType(strings.ToLower(lookup(envDemoMetrics, string(observability.MetricsExporterNone))))
	if !lo.Contains([]observability.MetricsExporterType{
		observability.MetricsExporterNone,
		observability.MetricsExporterStdout,
		observability.MetricsExporterPrometheus,
	}, metrics) {
		return nil, infra.NewErrorStack("[bstdemo] unknown " + envDemoMetrics + " " + string(metrics))
	}
	return &demoConfig{
		keys:        keys,
		remove:      remove,
		metrics:     metrics,
		metricsAddr: lookup(envDemoMetricsAddr, defaultDemoMetricsAddr),
	}, nil
}
