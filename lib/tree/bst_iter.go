package tree

import (
	"iter"
)

// The traversals resolve the subtree when the iteration starts, so a
// sequence can be ranged again after the tree changed. A nil or stale
// subtree is an empty sequence.

// InOrder is Left - Root - Right.
func (tree *bst[K]) InOrder(subtree BSTNode[K]) iter.Seq[K] {
	return func(yield func(K) bool) {
		aux, err := tree.resolve(subtree)
		if err != nil {
			return
		}
		stack := make([]uint32, 0, 16)
		for aux != nilOffset || len(stack) > 0 {
			for ; aux != nilOffset; aux = tree.arena.get(aux).left {
				stack = append(stack, aux)
			}
			aux = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			node := tree.arena.get(aux)
			if !yield(node.key) {
				return
			}
			aux = node.right
		}
	}
}

// PreOrder is Root - Left - Right.
func (tree *bst[K]) PreOrder(subtree BSTNode[K]) iter.Seq[K] {
	return func(yield func(K) bool) {
		x, err := tree.resolve(subtree)
		if err != nil {
			return
		}
		stack := make([]uint32, 0, 16)
		stack = append(stack, x)
		for len(stack) > 0 {
			node := tree.arena.get(stack[len(stack)-1])
			stack = stack[:len(stack)-1]
			if !yield(node.key) {
				return
			}
			// Right first, so the left pops first.
			if node.right != nilOffset {
				stack = append(stack, node.right)
			}
			if node.left != nilOffset {
				stack = append(stack, node.left)
			}
		}
	}
}

// PostOrder is Left - Right - Root.
func (tree *bst[K]) PostOrder(subtree BSTNode[K]) iter.Seq[K] {
	return func(yield func(K) bool) {
		aux, err := tree.resolve(subtree)
		if err != nil {
			return
		}
		var (
			stack = make([]uint32, 0, 16)
			last  = nilOffset
		)
		for aux != nilOffset || len(stack) > 0 {
			if aux != nilOffset {
				stack = append(stack, aux)
				aux = tree.arena.get(aux).left
				continue
			}
			peek := stack[len(stack)-1]
			node := tree.arena.get(peek)
			if node.right != nilOffset && node.right != last {
				aux = node.right
				continue
			}
			if !yield(node.key) {
				return
			}
			last = peek
			stack = stack[:len(stack)-1]
		}
	}
}
