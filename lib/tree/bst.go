package tree

import (
	"go.uber.org/zap"

	"github.com/benz9527/xbst/lib/infra"
	"github.com/benz9527/xbst/xlog"
)

var _ BSTNode[int] = bstNodeRef[int]{}

// bstNodeRef is the handle of an arena slot. The generation
// detects the slot released or recycled after the handle was taken.
type bstNodeRef[K infra.OrderedKey] struct {
	tree   *bst[K]
	offset uint32
	gen    uint32
}

func (ref bstNodeRef[K]) node() *bstNode[K] {
	if ref.tree == nil {
		return nil
	}
	return ref.tree.arena.live(ref.offset, ref.gen)
}

func (ref bstNodeRef[K]) Key() K {
	if node := ref.node(); node != nil {
		return node.key
	}
	var zero K
	return zero
}

func (ref bstNodeRef[K]) Left() BSTNode[K] {
	if node := ref.node(); node != nil {
		return ref.tree.ref(node.left)
	}
	return nil
}

func (ref bstNodeRef[K]) Right() BSTNode[K] {
	if node := ref.node(); node != nil {
		return ref.tree.ref(node.right)
	}
	return nil
}

func (ref bstNodeRef[K]) Parent() BSTNode[K] {
	if node := ref.node(); node != nil {
		return ref.tree.ref(node.parent)
	}
	return nil
}

func (ref bstNodeRef[K]) IsLeaf() bool {
	node := ref.node()
	return node != nil && node.left == nilOffset && node.right == nilOffset
}

var _ BST[int] = (*bst[int])(nil)

type bst[K infra.OrderedKey] struct {
	arena    *bstArena[K]
	kcmp     infra.OrderedKeyComparator[K]
	logger   xlog.XLogger
	stats    *bstStats
	root     uint32
	count    int64
	isUnique bool
}

func (tree *bst[K]) ref(offset uint32) BSTNode[K] {
	node := tree.arena.get(offset)
	if node == nil {
		return nil
	}
	return bstNodeRef[K]{tree: tree, offset: offset, gen: node.gen}
}

// resolve converts a handle back to the arena offset.
func (tree *bst[K]) resolve(x BSTNode[K]) (uint32, error) {
	if x == nil {
		return nilOffset, ErrBSTEmptySubtree
	}
	ref, ok := x.(bstNodeRef[K])
	if !ok || ref.tree != tree || ref.node() == nil {
		return nilOffset, ErrBSTStaleNode
	}
	return ref.offset, nil
}

func (tree *bst[K]) debug(msg string, fields ...zap.Field) {
	if tree.logger == nil {
		return
	}
	tree.logger.Debug(msg, fields...)
}

func (tree *bst[K]) Len() int64 {
	return tree.count
}

func (tree *bst[K]) Root() BSTNode[K] {
	return tree.ref(tree.root)
}

func (tree *bst[K]) Compare(i, j K) int64 {
	return tree.kcmp(i, j)
}

// Height counts the edges on the longest root-to-leaf path,
// -1 for an empty tree.
func (tree *bst[K]) Height() int {
	if tree.root == nilOffset {
		return -1
	}
	type item struct {
		offset uint32
		depth  int
	}
	height := 0
	stack := make([]item, 0, 16)
	stack = append(stack, item{tree.root, 0})
	for len(stack) > 0 {
		aux := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		height = max(height, aux.depth)
		node := tree.arena.get(aux.offset)
		if node.left != nilOffset {
			stack = append(stack, item{node.left, aux.depth + 1})
		}
		if node.right != nilOffset {
			stack = append(stack, item{node.right, aux.depth + 1})
		}
	}
	return height
}

// Insert descends from the root and routes the equal key to the left,
// the new node is always attached as a leaf. No rebalance.
func (tree *bst[K]) Insert(key K) error {
	var (
		x, y  = tree.root, nilOffset
		res   int64
		depth int64
	)
	for x != nilOffset {
		y = x
		node := tree.arena.get(x)
		res = tree.kcmp(key, node.key)
		if /* equal */ res == 0 && tree.isUnique {
			tree.debug("[bst] insert duplicated key", zap.Any("key", key))
			return ErrBSTKeyDuplicated
		}
		if /* less or equal */ res <= 0 {
			x = node.left
		} else /* greater */ {
			x = node.right
		}
		depth++
	}

	z := tree.arena.allocate(key)
	tree.arena.get(z).parent = y
	if y == nilOffset {
		tree.root = z
	} else if p := tree.arena.get(y); res <= 0 {
		p.left = z
	} else {
		p.right = z
	}
	tree.count++
	tree.stats.recordInsert(depth)
	return nil
}

func (tree *bst[K]) search(key K) uint32 {
	for x := tree.root; x != nilOffset; {
		node := tree.arena.get(x)
		res := tree.kcmp(key, node.key)
		if res == 0 {
			return x
		} else if res < 0 {
			x = node.left
		} else {
			x = node.right
		}
	}
	return nilOffset
}

// Search returns the topmost node holding the key on the search path.
func (tree *bst[K]) Search(key K) BSTNode[K] {
	x := tree.search(key)
	tree.stats.recordSearch(x != nilOffset)
	return tree.ref(x)
}

func (tree *bst[K]) Contains(key K) bool {
	return tree.Search(key) != nil
}

func (tree *bst[K]) minimum(x uint32) uint32 {
	for node := tree.arena.get(x); node != nil && node.left != nilOffset; node = tree.arena.get(x) {
		x = node.left
	}
	return x
}

func (tree *bst[K]) maximum(x uint32) uint32 {
	for node := tree.arena.get(x); node != nil && node.right != nilOffset; node = tree.arena.get(x) {
		x = node.right
	}
	return x
}

// The succ node of x is its next node in sorted order.
func (tree *bst[K]) succ(x uint32) uint32 {
	node := tree.arena.get(x)
	if node == nil {
		return nilOffset
	}
	if node.right != nilOffset {
		return tree.minimum(node.right)
	}
	// Backtrack to the first ancestor reached from its left subtree.
	aux := node.parent
	for aux != nilOffset && x == tree.arena.get(aux).right {
		x = aux
		aux = tree.arena.get(aux).parent
	}
	return aux
}

// The pred node of x is its previous node in sorted order.
func (tree *bst[K]) pred(x uint32) uint32 {
	node := tree.arena.get(x)
	if node == nil {
		return nilOffset
	}
	if node.left != nilOffset {
		return tree.maximum(node.left)
	}
	aux := node.parent
	for aux != nilOffset && x == tree.arena.get(aux).left {
		x = aux
		aux = tree.arena.get(aux).parent
	}
	return aux
}

func (tree *bst[K]) Min(subtree BSTNode[K]) (BSTNode[K], error) {
	x, err := tree.resolve(subtree)
	if err != nil {
		return nil, err
	}
	return tree.ref(tree.minimum(x)), nil
}

func (tree *bst[K]) Max(subtree BSTNode[K]) (BSTNode[K], error) {
	x, err := tree.resolve(subtree)
	if err != nil {
		return nil, err
	}
	return tree.ref(tree.maximum(x)), nil
}

// Succ skips the duplicates of the key, so the returned key is
// strictly after the key in the tree order.
func (tree *bst[K]) Succ(key K) (BSTNode[K], error) {
	x := tree.search(key)
	if x == nilOffset {
		return nil, ErrBSTKeyNotFound
	}
	aux := tree.succ(x)
	for aux != nilOffset && tree.kcmp(tree.arena.get(aux).key, key) == 0 {
		aux = tree.succ(aux)
	}
	return tree.ref(aux), nil
}

func (tree *bst[K]) Pred(key K) (BSTNode[K], error) {
	x := tree.search(key)
	if x == nilOffset {
		return nil, ErrBSTKeyNotFound
	}
	aux := tree.pred(x)
	for aux != nilOffset && tree.kcmp(tree.arena.get(aux).key, key) == 0 {
		aux = tree.pred(aux)
	}
	return tree.ref(aux), nil
}

/*
replace puts the subtree v at the position of u. The children
of u are untouched, the caller relinks them.

	    |                 |
	    P                 P
	   /    replace(U, V)  /
	  U     ==========>   V
	 / \
	..  ..
*/
func (tree *bst[K]) replace(u, v uint32) {
	un := tree.arena.get(u)
	if un.parent == nilOffset {
		tree.root = v
	} else if p := tree.arena.get(un.parent); p.left == u {
		p.left = v
	} else {
		p.right = v
	}
	if vn := tree.arena.get(v); vn != nil {
		vn.parent = un.parent
	}
}

func (tree *bst[K]) transplant(u, v uint32) error {
	if node := tree.arena.get(u); node == nil || !node.inUse {
		return ErrBSTInvalidTransplant
	}
	tree.replace(u, v)
	return nil
}

/*
r1: Z has no left child, replace Z by its right child (may be nil).

r2: Z has no right child, replace Z by its left child.

r3: Z has both children. The succ Y is the minimum of Z's right
subtree, so Y has no left child.

r3 (1): Y is not Z's right child. Replace Y by its own right
child first, then Y adopts Z's right subtree.

	    |                  |                     |
	    Z                  Z                     Y
	   / \                / \                   / \
	  L   R    ====>     L   Y   ====>         L   R
	     /                    \                   /
	    ..                     R                 ..
	   /                      /                 /
	  Y                      ..                X
	   \                    /
	    X                  X

r3 (2): Y is Z's right child (or after r3 (1)), replace Z by Y and
Y adopts Z's left subtree.
*/
func (tree *bst[K]) removeNode(z uint32) K {
	zn := tree.arena.get(z)
	switch {
	case /* r1 */ zn.left == nilOffset:
		tree.replace(z, zn.right)
	case /* r2 */ zn.right == nilOffset:
		tree.replace(z, zn.left)
	default: // r3
		y := tree.minimum(zn.right)
		yn := tree.arena.get(y)
		if /* r3 (1) */ y != zn.right {
			tree.replace(y, yn.right)
			yn.right = zn.right
			tree.arena.get(yn.right).parent = y
		}
		/* r3 (2) */
		tree.replace(z, y)
		yn.left = zn.left
		tree.arena.get(yn.left).parent = y
	}

	key := zn.key
	tree.arena.release(z)
	tree.count--
	tree.stats.recordRemove()
	return key
}

// Remove validates the key before any structural change.
func (tree *bst[K]) Remove(key K) (K, error) {
	z := tree.search(key)
	if z == nilOffset {
		tree.debug("[bst] remove key not found", zap.Any("key", key))
		var zero K
		return zero, ErrBSTKeyNotFound
	}
	return tree.removeNode(z), nil
}

func (tree *bst[K]) RemoveMin() (K, error) {
	if tree.root == nilOffset {
		var zero K
		return zero, ErrBSTEmpty
	}
	return tree.removeNode(tree.minimum(tree.root)), nil
}

// Foreach is the stack based inorder traversal.
func (tree *bst[K]) Foreach(action func(idx int64, key K) bool) {
	if action == nil {
		return
	}
	idx := int64(0)
	for key := range tree.InOrder(tree.Root()) {
		if !action(idx, key) {
			return
		}
		idx++
	}
}

// Release drops all nodes, the handles taken before turn stale.
func (tree *bst[K]) Release() {
	released := tree.count
	if tree.root != nilOffset {
		stack := make([]uint32, 0, 16)
		stack = append(stack, tree.root)
		for len(stack) > 0 {
			aux := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			node := tree.arena.get(aux)
			if node.left != nilOffset {
				stack = append(stack, node.left)
			}
			if node.right != nilOffset {
				stack = append(stack, node.right)
			}
			tree.arena.release(aux)
		}
	}
	tree.root = nilOffset
	tree.count = 0
	tree.stats.recordRelease(released)
	tree.debug("[bst] released", zap.Int64("nodes", released))
}

type BSTOpt[K infra.OrderedKey] func(*bst[K])

// WithBSTUniqueKeys rejects the duplicated key on insert.
func WithBSTUniqueKeys[K infra.OrderedKey]() BSTOpt[K] {
	return func(tree *bst[K]) {
		tree.isUnique = true
	}
}

func WithBSTDesc[K infra.OrderedKey]() BSTOpt[K] {
	return func(tree *bst[K]) {
		tree.kcmp = infra.DescCompare[K]
	}
}

func WithBSTArenaCap[K infra.OrderedKey](capacity int) BSTOpt[K] {
	return func(tree *bst[K]) {
		tree.arena = newBSTArena[K](capacity)
	}
}

func WithBSTLogger[K infra.OrderedKey](logger xlog.XLogger) BSTOpt[K] {
	return func(tree *bst[K]) {
		if logger != nil {
			tree.logger = logger.Named("bst")
		}
	}
}

func WithBSTStats[K infra.OrderedKey](name string) BSTOpt[K] {
	return func(tree *bst[K]) {
		tree.stats = newBSTStats(name)
	}
}

func NewBST[K infra.OrderedKey](opts ...BSTOpt[K]) BST[K] {
	tree := &bst[K]{
		kcmp: infra.AscCompare[K],
		root: nilOffset,
	}
	for _, o := range opts {
		if o != nil {
			o(tree)
		}
	}
	if tree.arena == nil {
		tree.arena = newBSTArena[K](16)
	}
	return tree
}
