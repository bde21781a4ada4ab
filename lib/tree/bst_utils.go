package tree

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/benz9527/xbst/lib/infra"
)

// bst rule validation utilities.

// CycleViolationValidate walks from the root and fails if a node
// is reached twice or more nodes are reachable than the tree length.
// The other validators assume it passed.
func CycleViolationValidate[K infra.OrderedKey](tree BST[K]) error {
	root := tree.Root()
	if root == nil {
		if tree.Len() != 0 {
			return fmt.Errorf("%w: empty root with length %d", ErrBSTCycleViolation, tree.Len())
		}
		return nil
	}

	visited := make(map[BSTNode[K]]struct{}, tree.Len())
	stack := make([]BSTNode[K], 0, 16)
	stack = append(stack, root)
	for len(stack) > 0 {
		aux := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := visited[aux]; ok {
			return fmt.Errorf("%w: node %v reached twice", ErrBSTCycleViolation, aux.Key())
		}
		visited[aux] = struct{}{}
		if int64(len(visited)) > tree.Len() {
			return fmt.Errorf("%w: more than %d nodes reachable", ErrBSTCycleViolation, tree.Len())
		}
		if l := aux.Left(); l != nil {
			stack = append(stack, l)
		}
		if r := aux.Right(); r != nil {
			stack = append(stack, r)
		}
	}
	if int64(len(visited)) != tree.Len() {
		return fmt.Errorf("%w: %d nodes reachable, length %d", ErrBSTCycleViolation, len(visited), tree.Len())
	}
	return nil
}

// OrderViolationValidate checks the inorder sequence is non-decreasing,
// i.e. left subtree keys <= node key <= right subtree keys.
func OrderViolationValidate[K infra.OrderedKey](tree BST[K]) error {
	var (
		prev    K
		hasPrev bool
		err     error
	)
	tree.Foreach(func(idx int64, key K) bool {
		if hasPrev && tree.Compare(prev, key) > 0 {
			err = fmt.Errorf("%w: key %v at %d after %v", ErrBSTOrderViolation, key, idx, prev)
			return false
		}
		prev, hasPrev = key, true
		return true
	})
	return err
}

// ParentViolationValidate checks the child to parent links in both directions.
func ParentViolationValidate[K infra.OrderedKey](tree BST[K]) error {
	root := tree.Root()
	if root == nil {
		return nil
	}
	stack := make([]BSTNode[K], 0, 16)
	stack = append(stack, root)
	for len(stack) > 0 {
		aux := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p := aux.Parent(); p != nil && p.Left() != aux && p.Right() != aux {
			return fmt.Errorf("%w: node %v is not a child of its parent %v", ErrBSTParentViolation, aux.Key(), p.Key())
		}
		for _, child := range []BSTNode[K]{aux.Left(), aux.Right()} {
			if child == nil {
				continue
			}
			if child.Parent() != aux {
				return fmt.Errorf("%w: child %v of %v links to another parent", ErrBSTParentViolation, child.Key(), aux.Key())
			}
			stack = append(stack, child)
		}
	}
	return nil
}

// RootViolationValidate checks the root is the only node without parent.
func RootViolationValidate[K infra.OrderedKey](tree BST[K]) error {
	root := tree.Root()
	if root == nil {
		return nil
	}
	if root.Parent() != nil {
		return fmt.Errorf("%w: root %v has a parent", ErrBSTRootViolation, root.Key())
	}
	stack := []BSTNode[K]{root}
	for len(stack) > 0 {
		aux := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if aux != root && aux.Parent() == nil {
			return fmt.Errorf("%w: non-root node %v without parent", ErrBSTRootViolation, aux.Key())
		}
		if l := aux.Left(); l != nil {
			stack = append(stack, l)
		}
		if r := aux.Right(); r != nil {
			stack = append(stack, r)
		}
	}
	return nil
}

// Validate combines all the violations.
func Validate[K infra.OrderedKey](tree BST[K]) error {
	if err := CycleViolationValidate[K](tree); err != nil {
		return infra.WrapErrorStackWithMessage(err, "[bst] invalid tree")
	}
	var merr error
	merr = multierr.Append(merr, OrderViolationValidate[K](tree))
	merr = multierr.Append(merr, ParentViolationValidate[K](tree))
	merr = multierr.Append(merr, RootViolationValidate[K](tree))
	if merr != nil {
		return infra.WrapErrorStackWithMessage(merr, "[bst] invalid tree")
	}
	return nil
}
