package tree

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benz9527/xbst/lib/infra"
)

func scenarioBST(t *testing.T, opts ...BSTOpt[int]) BST[int] {
	t.Helper()
	tree := NewBST[int](opts...)
	for _, key := range []int{10, 40, 50, 5, 15, 32, 33} {
		require.NoError(t, tree.Insert(key))
	}
	require.NoError(t, Validate[int](tree))
	return tree
}

func inorder[K infra.OrderedKey](tree BST[K]) []K {
	return slices.Collect(tree.InOrder(tree.Root()))
}

func TestBST_Scenario(t *testing.T) {
	tree := scenarioBST(t)
	require.Equal(t, int64(7), tree.Len())
	require.Equal(t, 4, tree.Height())
	require.Equal(t, []int{5, 10, 15, 32, 33, 40, 50}, inorder(tree))
	require.Equal(t, []int{10, 5, 40, 15, 32, 33, 50}, slices.Collect(tree.PreOrder(tree.Root())))
	require.Equal(t, []int{5, 33, 32, 15, 50, 40, 10}, slices.Collect(tree.PostOrder(tree.Root())))

	require.True(t, tree.Contains(5))
	require.False(t, tree.Contains(200))

	_min, err := tree.Min(tree.Root())
	require.NoError(t, err)
	require.Equal(t, 5, _min.Key())
	_max, err := tree.Max(tree.Root())
	require.NoError(t, err)
	require.Equal(t, 50, _max.Key())

	succ, err := tree.Succ(5)
	require.NoError(t, err)
	require.Equal(t, 10, succ.Key())

	key, err := tree.Remove(40)
	require.NoError(t, err)
	require.Equal(t, 40, key)
	require.Equal(t, []int{5, 10, 15, 32, 33, 50}, inorder(tree))
	require.Equal(t, []int{10, 5, 50, 15, 32, 33}, slices.Collect(tree.PreOrder(tree.Root())))
	require.False(t, tree.Contains(40))
	require.Equal(t, int64(6), tree.Len())
	require.NoError(t, Validate[int](tree))
}

func TestBST_Succ_Pred(t *testing.T) {
	tree := scenarioBST(t)
	testcases := []struct {
		key  int
		succ int
		pred int
	}{
		{5, 10, -1},
		{10, 15, 5},
		{15, 32, 10},
		{32, 33, 15},
		{33, 40, 32}, // ancestor walk through two right links
		{40, 50, 33},
		{50, -1, 40},
	}
	for _, tc := range testcases {
		succ, err := tree.Succ(tc.key)
		require.NoError(t, err)
		if tc.succ < 0 {
			require.Nil(t, succ)
		} else {
			require.Equal(t, tc.succ, succ.Key())
		}

		pred, err := tree.Pred(tc.key)
		require.NoError(t, err)
		if tc.pred < 0 {
			require.Nil(t, pred)
		} else {
			require.Equal(t, tc.pred, pred.Key())
		}
	}

	_, err := tree.Succ(200)
	require.True(t, errors.Is(err, ErrBSTKeyNotFound))
	_, err = tree.Pred(200)
	require.True(t, errors.Is(err, ErrBSTKeyNotFound))

	// A single node is the maximum, the ancestor walk ends at the root.
	single := NewBST[int]()
	require.NoError(t, single.Insert(1))
	succ, err := single.Succ(1)
	require.NoError(t, err)
	require.Nil(t, succ)
}

func TestBST_Remove_Cases(t *testing.T) {
	testcases := []struct {
		name     string
		key      int
		inorder  []int
		preorder []int
	}{
		{
			name:     "leaf",
			key:      33,
			inorder:  []int{5, 10, 15, 32, 40, 50},
			preorder: []int{10, 5, 40, 15, 32, 50},
		},
		{
			name:     "no left child",
			key:      15,
			inorder:  []int{5, 10, 32, 33, 40, 50},
			preorder: []int{10, 5, 40, 32, 33, 50},
		},
		{
			name:     "succ is the right child",
			key:      40,
			inorder:  []int{5, 10, 15, 32, 33, 50},
			preorder: []int{10, 5, 50, 15, 32, 33},
		},
		{
			name:     "succ deeper in the right subtree",
			key:      10,
			inorder:  []int{5, 15, 32, 33, 40, 50},
			preorder: []int{15, 5, 40, 32, 33, 50},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			tree := scenarioBST(t)
			key, err := tree.Remove(tc.key)
			require.NoError(t, err)
			require.Equal(t, tc.key, key)
			require.Equal(t, tc.inorder, inorder(tree))
			require.Equal(t, tc.preorder, slices.Collect(tree.PreOrder(tree.Root())))
			require.NoError(t, Validate[int](tree))
			require.Nil(t, tree.Root().Parent())
		})
	}

	// No right child.
	tree := NewBST[int]()
	for _, key := range []int{10, 5, 3} {
		require.NoError(t, tree.Insert(key))
	}
	_, err := tree.Remove(5)
	require.NoError(t, err)
	require.Equal(t, []int{10, 3}, slices.Collect(tree.PreOrder(tree.Root())))
	require.NoError(t, Validate[int](tree))

	// Root with a single child.
	_, err = tree.Remove(10)
	require.NoError(t, err)
	require.Equal(t, 3, tree.Root().Key())
	require.Nil(t, tree.Root().Parent())
	_, err = tree.Remove(3)
	require.NoError(t, err)
	require.Nil(t, tree.Root())
	require.Equal(t, int64(0), tree.Len())
	require.Equal(t, -1, tree.Height())
}

func TestBST_Remove_NotFound(t *testing.T) {
	tree := NewBST[int]()
	_, err := tree.Remove(1)
	require.True(t, errors.Is(err, ErrBSTKeyNotFound))
	_, err = tree.RemoveMin()
	require.True(t, errors.Is(err, ErrBSTEmpty))

	tree = scenarioBST(t)
	before := slices.Collect(tree.PreOrder(tree.Root()))
	_, err = tree.Remove(200)
	require.True(t, errors.Is(err, ErrBSTKeyNotFound))
	require.Equal(t, before, slices.Collect(tree.PreOrder(tree.Root())))
	require.Equal(t, int64(7), tree.Len())
	require.NoError(t, Validate[int](tree))
}

func TestBST_RemoveMin(t *testing.T) {
	tree := scenarioBST(t)
	expected := []int{5, 10, 15, 32, 33, 40, 50}
	for _, e := range expected {
		key, err := tree.RemoveMin()
		require.NoError(t, err)
		require.Equal(t, e, key)
		require.NoError(t, Validate[int](tree))
	}
	require.Equal(t, int64(0), tree.Len())
}

func TestBST_Duplicates(t *testing.T) {
	tree := NewBST[int]()
	for _, key := range []int{10, 5, 20, 15, 15} {
		require.NoError(t, tree.Insert(key))
	}
	// The second 15 goes to the left of the first one.
	first := tree.Search(15)
	require.NotNil(t, first)
	require.Equal(t, 15, first.Left().Key())
	require.Equal(t, []int{5, 10, 15, 15, 20}, inorder(tree))

	// The deeper 15 replaces the root, so the other 15 ends
	// in the right subtree of an equal key.
	_, err := tree.Remove(10)
	require.NoError(t, err)
	require.Equal(t, 15, tree.Root().Key())
	require.Equal(t, []int{5, 15, 15, 20}, inorder(tree))
	require.NoError(t, Validate[int](tree))

	succ, err := tree.Succ(15)
	require.NoError(t, err)
	require.Equal(t, 20, succ.Key())
	pred, err := tree.Pred(15)
	require.NoError(t, err)
	require.Equal(t, 5, pred.Key())

	_, err = tree.Remove(15)
	require.NoError(t, err)
	require.True(t, tree.Contains(15))
	_, err = tree.Remove(15)
	require.NoError(t, err)
	require.False(t, tree.Contains(15))
	require.Equal(t, []int{5, 20}, inorder(tree))
	require.NoError(t, Validate[int](tree))
}

func TestBST_UniqueKeys(t *testing.T) {
	tree := NewBST[int](WithBSTUniqueKeys[int]())
	require.NoError(t, tree.Insert(1))
	require.NoError(t, tree.Insert(2))
	err := tree.Insert(1)
	require.True(t, errors.Is(err, ErrBSTKeyDuplicated))
	require.Equal(t, int64(2), tree.Len())
	require.Equal(t, []int{1, 2}, inorder(tree))
}

func TestBST_Desc(t *testing.T) {
	tree := NewBST[uint64](WithBSTDesc[uint64](), WithBSTArenaCap[uint64](4))
	for _, key := range []uint64{3, 1, 5, 2, 4} {
		require.NoError(t, tree.Insert(key))
	}
	require.Equal(t, []uint64{5, 4, 3, 2, 1}, inorder(tree))
	_min, err := tree.Min(tree.Root())
	require.NoError(t, err)
	require.Equal(t, uint64(5), _min.Key())
	succ, err := tree.Succ(3)
	require.NoError(t, err)
	require.Equal(t, uint64(2), succ.Key())
	require.NoError(t, Validate[uint64](tree))
}

func TestBST_MinMax_Subtree(t *testing.T) {
	tree := scenarioBST(t)
	n40 := tree.Search(40)
	_min, err := tree.Min(n40)
	require.NoError(t, err)
	require.Equal(t, 15, _min.Key())
	_max, err := tree.Max(n40.Left())
	require.NoError(t, err)
	require.Equal(t, 33, _max.Key())

	_, err = tree.Min(nil)
	require.True(t, errors.Is(err, ErrBSTEmptySubtree))
	_, err = tree.Max(tree.Search(5).Left())
	require.True(t, errors.Is(err, ErrBSTEmptySubtree))

	empty := NewBST[int]()
	_, err = empty.Min(empty.Root())
	require.True(t, errors.Is(err, ErrBSTEmptySubtree))
}

func TestBST_Traversals_Subtree(t *testing.T) {
	tree := scenarioBST(t)
	n40 := tree.Search(40)
	require.Equal(t, []int{15, 32, 33, 40, 50}, slices.Collect(tree.InOrder(n40)))
	require.Equal(t, []int{40, 15, 32, 33, 50}, slices.Collect(tree.PreOrder(n40)))
	require.Equal(t, []int{33, 32, 15, 50, 40}, slices.Collect(tree.PostOrder(n40)))

	require.Empty(t, slices.Collect(tree.InOrder(nil)))
	require.Empty(t, slices.Collect(tree.PreOrder(nil)))
	require.Empty(t, slices.Collect(tree.PostOrder(nil)))

	// Early stop.
	keys := make([]int, 0, 2)
	for key := range tree.PostOrder(tree.Root()) {
		keys = append(keys, key)
		if len(keys) == 2 {
			break
		}
	}
	require.Equal(t, []int{5, 33}, keys)

	// Restartable, the sequence reads the current tree.
	seq := tree.InOrder(tree.Root())
	require.Equal(t, slices.Collect(seq), slices.Collect(seq))
	require.NoError(t, tree.Insert(1))
	require.Equal(t, 1, slices.Collect(tree.InOrder(tree.Root()))[0])
}

func TestBST_Foreach(t *testing.T) {
	tree := scenarioBST(t)
	expected := []int{5, 10, 15, 32, 33, 40, 50}
	tree.Foreach(func(idx int64, key int) bool {
		require.Equal(t, expected[idx], key)
		return true
	})

	visited := 0
	tree.Foreach(func(idx int64, key int) bool {
		visited++
		return key < 15
	})
	require.Equal(t, 3, visited)
	tree.Foreach(nil)
}

func TestBST_StaleNode(t *testing.T) {
	tree := scenarioBST(t)
	n40 := tree.Search(40)
	require.Equal(t, 40, n40.Key())
	require.False(t, n40.IsLeaf())
	require.True(t, tree.Search(33).IsLeaf())

	_, err := tree.Remove(40)
	require.NoError(t, err)
	require.Equal(t, 0, n40.Key())
	require.Nil(t, n40.Left())
	require.Nil(t, n40.Right())
	require.Nil(t, n40.Parent())
	require.False(t, n40.IsLeaf())
	_, err = tree.Min(n40)
	require.True(t, errors.Is(err, ErrBSTStaleNode))
	require.Empty(t, slices.Collect(tree.InOrder(n40)))

	// The released slot is recycled, the old handle stays stale.
	require.NoError(t, tree.Insert(41))
	n41 := tree.Search(41)
	require.Equal(t, n40.(bstNodeRef[int]).offset, n41.(bstNodeRef[int]).offset)
	require.NotEqual(t, n40, n41)
	_, err = tree.Max(n40)
	require.True(t, errors.Is(err, ErrBSTStaleNode))

	// Handles of another tree.
	other := scenarioBST(t)
	_, err = tree.Min(other.Root())
	require.True(t, errors.Is(err, ErrBSTStaleNode))
}

func TestBST_Transplant(t *testing.T) {
	tree := scenarioBST(t).(*bst[int])
	require.True(t, errors.Is(tree.transplant(nilOffset, tree.root), ErrBSTInvalidTransplant))

	n15 := tree.search(15)
	n32 := tree.search(32)
	// Replace the subtree 15 by its right subtree 32.
	require.NoError(t, tree.transplant(n15, n32))
	tree.arena.release(n15)
	tree.count--
	require.Equal(t, []int{5, 10, 32, 33, 40, 50}, inorder[int](tree))
	require.NoError(t, Validate[int](tree))
	require.True(t, errors.Is(tree.transplant(n15, n32), ErrBSTInvalidTransplant))

	// Transplant the root by nil.
	root := tree.root
	require.NoError(t, tree.transplant(root, nilOffset))
	require.Nil(t, tree.Root())
}

func TestBST_Release(t *testing.T) {
	tree := scenarioBST(t)
	root := tree.Root()
	tree.Release()
	require.Equal(t, int64(0), tree.Len())
	require.Nil(t, tree.Root())
	require.Empty(t, inorder(tree))
	require.Equal(t, 0, root.Key())
	require.Equal(t, 0, tree.(*bst[int]).arena.size())

	require.NoError(t, tree.Insert(1))
	require.Equal(t, []int{1}, inorder(tree))
	require.NotEqual(t, root, tree.Root())
	require.NoError(t, Validate[int](tree))
}

func TestBST_Degenerated(t *testing.T) {
	tree := NewBST[int]()
	for i := 0; i < 100; i++ {
		require.NoError(t, tree.Insert(i))
	}
	require.Equal(t, 99, tree.Height())
	succ, err := tree.Succ(98)
	require.NoError(t, err)
	require.Equal(t, 99, succ.Key())
	pred, err := tree.Pred(0)
	require.NoError(t, err)
	require.Nil(t, pred)
	for i := 99; i >= 0; i-- {
		_, err := tree.Remove(i)
		require.NoError(t, err)
	}
	require.Equal(t, int64(0), tree.Len())
}
