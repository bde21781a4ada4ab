package main

import (
	"slices"

	"go.uber.org/zap"

	"github.com/benz9527/xbst/lib/infra"
	"github.com/benz9527/xbst/lib/tree"
	"github.com/benz9527/xbst/xlog"
)

// runScenario inserts the configured keys, prints the queries and
// traversals, removes the configured keys and prints the result.
func runScenario(cfg *demoConfig, bst tree.BST[int], logger xlog.XLogger) error {
	for _, key := range cfg.keys {
		if err := bst.Insert(key); err != nil {
			return infra.WrapErrorStackWithMessage(err, "[bstdemo] insert")
		}
	}
	logger.Info("inserted",
		zap.Ints("keys", cfg.keys),
		zap.Int64("len", bst.Len()),
		zap.Int("height", bst.Height()),
	)
	logTraversals(bst, logger)

	if _min, err := bst.Min(bst.Root()); err == nil {
		logger.Info("min", zap.Int("key", _min.Key()))
	}
	if _max, err := bst.Max(bst.Root()); err == nil {
		logger.Info("max", zap.Int("key", _max.Key()))
	}
	for _, key := range cfg.keys {
		succ, err := bst.Succ(key)
		if err != nil {
			return infra.WrapErrorStackWithMessage(err, "[bstdemo] successor")
		}
		if succ == nil {
			logger.Info("successor", zap.Int("key", key), zap.String("succ", "none"))
			continue
		}
		logger.Info("successor", zap.Int("key", key), zap.Int("succ", succ.Key()))
	}

	for _, key := range cfg.remove {
		logger.Info("contains", zap.Int("key", key), zap.Bool("found", bst.Contains(key)))
		if _, err := bst.Remove(key); err != nil {
			logger.ErrorStack(infra.WrapErrorStackWithMessage(err, "[bstdemo] remove"), "remove failed", zap.Int("key", key))
			continue
		}
		logger.Info("removed", zap.Int("key", key), zap.Bool("found", bst.Contains(key)))
	}
	logTraversals(bst, logger)
	return tree.Validate[int](bst)
}

func logTraversals(bst tree.BST[int], logger xlog.XLogger) {
	logger.Info("traversals",
		zap.Ints("inorder", slices.Collect(bst.InOrder(bst.Root()))),
		zap.Ints("preorder", slices.Collect(bst.PreOrder(bst.Root()))),
		zap.Ints("postorder", slices.Collect(bst.PostOrder(bst.Root()))),
	)
}
