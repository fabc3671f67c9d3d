package memalloc

import (
	"encoding/binary"
	"math"
)

const (
	// alignment of every payload offset relative to the arena start.
	alignment = 16

	// headerSize is one alignment quantum so that payloads following
	// headers keep the alignment.
	headerSize = 16

	blockMagic uint32 = 0xA110CA7E

	nullPtr uint32 = math.MaxUint32
)

// maxBlockSize keeps rounded size + headerSize below nullPtr.
const maxBlockSize = math.MaxUint32 - (alignment - 1) - headerSize

func alignUp(n uint64) uint64 {
	return (n + alignment - 1) &^ (alignment - 1)
}

func roundSize(size uint32) (uint32, bool) {
	if size > maxBlockSize {
		return 0, false
	}
	return uint32(alignUp(uint64(size))), true
}

// A block header occupies headerSize bytes in front of the payload.
// Live block: size at +0, blockMagic at +4.
// Free block overlays the same storage: size at +0, next block offset at +4.
// size is the usable payload length, header excluded, in both states.

func (a *Allocator) blockSize(block uint32) uint32 {
	return binary.LittleEndian.Uint32(a.data[block:])
}

func (a *Allocator) setBlockSize(block uint32, size uint32) {
	binary.LittleEndian.PutUint32(a.data[block:], size)
}

func (a *Allocator) blockTag(block uint32) uint32 {
	return binary.LittleEndian.Uint32(a.data[block+4:])
}

func (a *Allocator) blockNext(block uint32) uint32 {
	return binary.LittleEndian.Uint32(a.data[block+4:])
}

func (a *Allocator) setBlockNext(block uint32, next uint32) {
	binary.LittleEndian.PutUint32(a.data[block+4:], next)
}

func (a *Allocator) setLive(block uint32, size uint32) {
	a.setBlockSize(block, size)
	binary.LittleEndian.PutUint32(a.data[block+4:], blockMagic)
}

func (a *Allocator) setFree(block uint32, size uint32, next uint32) {
	a.setBlockSize(block, size)
	a.setBlockNext(block, next)
}

func (a *Allocator) blockEnd(block uint32) uint32 {
	return block + headerSize + a.blockSize(block)
}
