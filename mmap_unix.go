//go:build !plan9 && !windows && !js

package memalloc

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// MmapGrower reserves maxSize bytes of address space up front with an
// anonymous PROT_NONE mapping and commits pages as the arena grows, so the
// backing never moves.
type MmapGrower struct {
	mem       []byte
	size      int
	committed int
}

// NewMmapGrower ...
func NewMmapGrower(maxSize int) (*MmapGrower, error) {
	if maxSize <= 0 {
		panic("maxSize must > 0")
	}
	mem, err := unix.Mmap(-1, 0, maxSize, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("mmap: failed to reserve address space: %w", err)
	}
	return &MmapGrower{mem: mem}, nil
}

// Grow ...
func (g *MmapGrower) Grow(n int) ([]byte, bool) {
	if n < 0 || g.size+n > len(g.mem) {
		return nil, false
	}
	newSize := g.size + n

	if newSize > g.committed {
		pageSize := os.Getpagesize()
		commit := (newSize + pageSize - 1) &^ (pageSize - 1)
		if commit > len(g.mem) {
			commit = len(g.mem)
		}
		err := unix.Mprotect(g.mem[g.committed:commit], unix.PROT_READ|unix.PROT_WRITE)
		if err != nil {
			return nil, false
		}
		g.committed = commit
	}

	g.size = newSize
	return g.mem[:g.size], true
}

// Close unmaps the reservation. The grower and every arena backed by it
// must not be used afterwards.
func (g *MmapGrower) Close() error {
	if g.mem == nil {
		return nil
	}
	mem := g.mem
	g.mem = nil
	if err := unix.Munmap(mem); err != nil {
		return fmt.Errorf("mmap: failed to unmap memory: %w", err)
	}
	return nil
}
