package tree

import (
	"errors"
	"iter"

	"github.com/benz9527/xbst/lib/infra"
)

var (
	ErrBSTKeyNotFound       = errors.New("[bst] key not found")
	ErrBSTKeyDuplicated     = errors.New("[bst] duplicated key is disabled")
	ErrBSTEmpty             = errors.New("[bst] there is no element")
	ErrBSTEmptySubtree      = errors.New("[bst] empty subtree")
	ErrBSTStaleNode         = errors.New("[bst] node is stale or belongs to another tree")
	ErrBSTInvalidTransplant = errors.New("[bst] transplant a nil node")
	ErrBSTOrderViolation    = errors.New("[bst] order violation")
	ErrBSTParentViolation   = errors.New("[bst] parent violation")
	ErrBSTRootViolation     = errors.New("[bst] root violation")
	ErrBSTCycleViolation    = errors.New("[bst] cycle violation")
)

// BSTNode is a read-only handle of a node stored in the tree arena.
// A handle turns stale once its node is removed; the stale handle
// reads the zero key and nil links.
type BSTNode[K infra.OrderedKey] interface {
	Key() K
	Left() BSTNode[K]
	Right() BSTNode[K]
	Parent() BSTNode[K]
	IsLeaf() bool
}

// BST is a plain (unbalanced) binary search tree.
// Equal keys are routed to the left subtree.
// It is not thread safe.
type BST[K infra.OrderedKey] interface {
	Len() int64
	Height() int
	Root() BSTNode[K]
	// Compare orders two keys the way the tree does.
	Compare(i, j K) int64
	Insert(key K) error
	Search(key K) BSTNode[K]
	Contains(key K) bool
	Min(subtree BSTNode[K]) (BSTNode[K], error)
	Max(subtree BSTNode[K]) (BSTNode[K], error)
	// Succ returns nil without error if the key is the last one.
	Succ(key K) (BSTNode[K], error)
	// Pred returns nil without error if the key is the first one.
	Pred(key K) (BSTNode[K], error)
	Remove(key K) (K, error)
	RemoveMin() (K, error)
	// The traversals read the tree lazily, mutating the tree
	// during an iteration is undefined.
	InOrder(subtree BSTNode[K]) iter.Seq[K]
	PreOrder(subtree BSTNode[K]) iter.Seq[K]
	PostOrder(subtree BSTNode[K]) iter.Seq[K]
	Foreach(action func(idx int64, key K) bool)
	Release()
}
