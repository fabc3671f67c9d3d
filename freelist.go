package memalloc

// insertFree links block into the free list keeping ascending address order.
func (a *Allocator) insertFree(block uint32) {
	if a.head == nullPtr || block < a.head {
		a.setBlockNext(block, a.head)
		a.head = block
	} else {
		curr := a.head
		for a.blockNext(curr) != nullPtr && a.blockNext(curr) < block {
			curr = a.blockNext(curr)
		}
		a.setBlockNext(block, a.blockNext(curr))
		a.setBlockNext(curr, block)
	}

	// guard against a corrupted insert turning the list into a self-cycle
	if a.blockNext(block) == block {
		a.setBlockNext(block, nullPtr)
	}
}

func (a *Allocator) removeFree(block uint32) {
	if a.cursor == block {
		a.cursor = a.blockNext(block)
	}

	if a.head == block {
		a.head = a.blockNext(block)
		return
	}
	for curr := a.head; curr != nullPtr; curr = a.blockNext(curr) {
		if a.blockNext(curr) == block {
			a.setBlockNext(curr, a.blockNext(block))
			return
		}
	}
}

func (a *Allocator) findPrev(block uint32) uint32 {
	for curr := a.head; curr != nullPtr; curr = a.blockNext(curr) {
		if a.blockEnd(curr) == block {
			return curr
		}
	}
	return nullPtr
}

func (a *Allocator) findNext(block uint32) uint32 {
	end := a.blockEnd(block)
	for curr := a.head; curr != nullPtr; curr = a.blockNext(curr) {
		if curr == end {
			return curr
		}
	}
	return nullPtr
}

// coalesce absorbs the physically adjacent neighbors of block, at most one
// per direction. Address order guarantees no further neighbor can appear,
// so a single pass is enough.
func (a *Allocator) coalesce(block uint32) uint32 {
	prev := a.findPrev(block)
	if prev != nullPtr {
		a.removeFree(block)
		a.setBlockSize(prev, a.blockSize(prev)+headerSize+a.blockSize(block))
		block = prev
	}

	next := a.findNext(block)
	if next != nullPtr {
		a.removeFree(next)
		a.setBlockSize(block, a.blockSize(block)+headerSize+a.blockSize(next))
	}

	return block
}

// search performs a next-fit scan: it starts from the persisted cursor,
// wraps from the tail back to the head and stops after one full traversal.
func (a *Allocator) search(size uint32) (uint32, bool) {
	if a.head == nullPtr {
		return 0, false
	}

	start := a.cursor
	if start == nullPtr {
		start = a.head
	}

	curr := start
	for {
		if a.blockSize(curr) >= size {
			return curr, true
		}
		next := a.blockNext(curr)
		if next == nullPtr {
			next = a.head
		}
		if next == start {
			return 0, false
		}
		curr = next
	}
}

func (a *Allocator) contentOfList() []uint32 {
	var result []uint32
	for curr := a.head; curr != nullPtr; curr = a.blockNext(curr) {
		result = append(result, curr)
	}
	return result
}

func (a *Allocator) freeCapacity() uint64 {
	var total uint64
	for curr := a.head; curr != nullPtr; curr = a.blockNext(curr) {
		total += uint64(a.blockSize(curr))
	}
	return total
}
