// Package memalloc implements a free-list based memory allocator over a
// single monotonically growing arena. Blocks are addressed by uint32 offsets
// into the arena, which stay valid across arena growth. Types and functions
// exported by this package are not thread safe.
package memalloc

import "math"

// Allocator ...
type Allocator struct {
	grower Grower

	data   []byte
	head   uint32
	cursor uint32

	memoryUsage uint64
}

// New ...
func New(grower Grower) *Allocator {
	if grower == nil {
		panic("grower must not be nil")
	}
	return &Allocator{
		grower: grower,
		head:   nullPtr,
		cursor: nullPtr,
	}
}

// Allocate returns the payload offset of a block of at least size bytes,
// or false when the arena cannot grow any further.
func (a *Allocator) Allocate(size uint32) (uint32, bool) {
	rounded, ok := roundSize(size)
	if !ok {
		return 0, false
	}

	if a.head == nullPtr {
		return a.growAllocate(rounded)
	}

	block, ok := a.search(rounded)
	if !ok {
		return a.growAllocate(rounded)
	}

	if a.blockSize(block) >= rounded+headerSize {
		a.split(block, rounded)
	} else {
		// remainder would be smaller than a header, use the block whole
		a.cursor = a.blockNext(block)
		a.removeFree(block)
	}

	a.setLive(block, a.blockSize(block))
	a.memoryUsage += headerSize + uint64(a.blockSize(block))
	return block + headerSize, true
}

// split partitions block into a front span of exactly size bytes, removed
// from the free list, and a remainder span inheriting the successor link.
func (a *Allocator) split(block uint32, size uint32) {
	remainder := block + headerSize + size
	a.setFree(remainder, a.blockSize(block)-size-headerSize, a.blockNext(block))

	if a.head == block {
		a.head = remainder
	}

	a.setBlockSize(block, size)
	a.setBlockNext(block, remainder)
	a.removeFree(block)

	a.cursor = remainder
}

func (a *Allocator) growAllocate(size uint32) (uint32, bool) {
	used := uint64(len(a.data))
	base := alignUp(used)
	need := base + headerSize + uint64(size)
	if need >= uint64(nullPtr) {
		return 0, false
	}

	data, ok := a.grower.Grow(int(need - used))
	if !ok || uint64(len(data)) < need {
		return 0, false
	}
	a.data = data

	block := uint32(base)
	a.setLive(block, size)
	a.memoryUsage += headerSize + uint64(size)
	return block + headerSize, true
}

// ZeroAllocate ...
func (a *Allocator) ZeroAllocate(count uint32, elemSize uint32) (uint32, bool) {
	total := uint64(count) * uint64(elemSize)
	if total > math.MaxUint32 {
		return 0, false
	}

	ptr, ok := a.Allocate(uint32(total))
	if !ok {
		return 0, false
	}

	payload := a.data[ptr : ptr+a.blockSize(ptr-headerSize)]
	for i := range payload {
		payload[i] = 0
	}
	return ptr, true
}

// Reallocate frees the block and allocates newSize fresh, letting the free
// list satisfy the request with the just-freed span when it fits. The old
// payload is snapshotted before the free because freeing overwrites header
// bytes with list bookkeeping.
func (a *Allocator) Reallocate(ptr uint32, newSize uint32) (uint32, bool) {
	block := ptr - headerSize
	if a.blockTag(block) != blockMagic {
		panic("memalloc: reallocate of invalid or already freed offset")
	}

	n := a.blockSize(block)
	if newSize < n {
		n = newSize
	}
	snapshot := make([]byte, n)
	copy(snapshot, a.data[ptr:ptr+n])

	a.Deallocate(ptr)

	newPtr, ok := a.Allocate(newSize)
	if !ok {
		return 0, false
	}
	copy(a.data[newPtr:], snapshot)
	return newPtr, true
}

// Deallocate ...
func (a *Allocator) Deallocate(ptr uint32) {
	block := ptr - headerSize
	if a.blockTag(block) != blockMagic {
		panic("memalloc: deallocate of invalid or already freed offset")
	}

	size := a.blockSize(block)
	a.setFree(block, size, nullPtr)
	a.insertFree(block)
	a.coalesce(block)

	a.memoryUsage -= headerSize + uint64(size)
}

// Bytes returns the payload of a live block. The slice is only valid until
// the next operation that grows the arena.
func (a *Allocator) Bytes(ptr uint32) []byte {
	block := ptr - headerSize
	if a.blockTag(block) != blockMagic {
		panic("memalloc: bytes of invalid or already freed offset")
	}
	return a.data[ptr : ptr+a.blockSize(block)]
}

// GetMemUsage ...
func (a *Allocator) GetMemUsage() uint64 {
	return a.memoryUsage
}
