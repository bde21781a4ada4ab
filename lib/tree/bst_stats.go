package tree

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	BSTStatsName = "xboot/bst"
)

var (
	searchHitAttrs  = attribute.NewSet(attribute.Bool("bst.search.hit", true))
	searchMissAttrs = attribute.NewSet(attribute.Bool("bst.search.hit", false))
)

// bstStats is recorded synchronously by the tree operations.
type bstStats struct {
	nodeCount   metric.Int64UpDownCounter
	insertCount metric.Int64Counter
	insertDepth metric.Int64Histogram
	removeCount metric.Int64Counter
	searchCount metric.Int64Counter
}

func (stats *bstStats) recordInsert(depth int64) {
	if stats == nil {
		return
	}
	stats.nodeCount.Add(context.Background(), 1)
	stats.insertCount.Add(context.Background(), 1)
	stats.insertDepth.Record(context.Background(), depth)
}

func (stats *bstStats) recordRemove() {
	if stats == nil {
		return
	}
	stats.nodeCount.Add(context.Background(), -1)
	stats.removeCount.Add(context.Background(), 1)
}

func (stats *bstStats) recordSearch(hit bool) {
	if stats == nil {
		return
	}
	as := searchMissAttrs
	if hit {
		as = searchHitAttrs
	}
	stats.searchCount.Add(context.Background(), 1, metric.WithAttributeSet(as))
}

func (stats *bstStats) recordRelease(count int64) {
	if stats == nil || count == 0 {
		return
	}
	stats.nodeCount.Add(context.Background(), -count)
}

func newBSTStats(name string) *bstStats {
	meter := otel.Meter(fmt.Sprintf("%s/%s", BSTStatsName, name))
	return &bstStats{
		nodeCount: lo.Must[metric.Int64UpDownCounter](meter.Int64UpDownCounter(
			"bst.node.count",
			metric.WithDescription("The number of nodes in the tree."),
		)),
		insertCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"bst.insert.count",
			metric.WithDescription("The number of inserted keys."),
		)),
		insertDepth: lo.Must[metric.Int64Histogram](meter.Int64Histogram(
			"bst.insert.depth",
			metric.WithDescription("The depth of the inserted node, the root is 0."),
		)),
		removeCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"bst.remove.count",
			metric.WithDescription("The number of removed keys."),
		)),
		searchCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"bst.search.count",
			metric.WithDescription("The number of key searches, split by hit."),
		)),
	}
}
