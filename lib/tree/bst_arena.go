package tree

import (
	"github.com/benz9527/xbst/lib/infra"
)

// nilOffset is reserved, the first node starts from offset 1.
const nilOffset uint32 = 0

type bstNode[K infra.OrderedKey] struct {
	key    K
	parent uint32
	left   uint32
	right  uint32
	gen    uint32 // bumped on every allocation of the slot
	inUse  bool
}

// bstArena recycles the node slots. The links between nodes are
// offsets into the arena, so there are no pointer cycles.
type bstArena[K infra.OrderedKey] struct {
	nodes []bstNode[K]
	free  []uint32
}

func newBSTArena[K infra.OrderedKey](capacity int) *bstArena[K] {
	if capacity < 0 {
		capacity = 0
	}
	return &bstArena[K]{
		nodes: make([]bstNode[K], 1, capacity+1), // non-zero offset
		free:  make([]uint32, 0, 8),
	}
}

// allocate may grow the slots, so the *bstNode fetched before
// are invalid after it.
func (arena *bstArena[K]) allocate(key K) uint32 {
	if n := len(arena.free); n > 0 {
		offset := arena.free[n-1]
		arena.free = arena.free[:n-1]
		node := &arena.nodes[offset]
		*node = bstNode[K]{
			key:   key,
			gen:   node.gen + 1,
			inUse: true,
		}
		return offset
	}
	arena.nodes = append(arena.nodes, bstNode[K]{
		key:   key,
		gen:   1,
		inUse: true,
	})
	return uint32(len(arena.nodes) - 1)
}

func (arena *bstArena[K]) release(offset uint32) {
	node := arena.get(offset)
	if node == nil || !node.inUse {
		return
	}
	var zero K
	node.key = zero
	node.parent, node.left, node.right = nilOffset, nilOffset, nilOffset
	node.inUse = false
	arena.free = append(arena.free, offset)
}

func (arena *bstArena[K]) get(offset uint32) *bstNode[K] {
	if offset == nilOffset || int(offset) >= len(arena.nodes) {
		return nil
	}
	return &arena.nodes[offset]
}

// live returns the node only if it is in use and its generation matches.
func (arena *bstArena[K]) live(offset, gen uint32) *bstNode[K] {
	node := arena.get(offset)
	if node == nil || !node.inUse || node.gen != gen {
		return nil
	}
	return node
}

func (arena *bstArena[K]) size() int {
	return len(arena.nodes) - 1 - len(arena.free)
}
