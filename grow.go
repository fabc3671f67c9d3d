package memalloc

// Grower supplies the backing memory of an arena. Grow extends the backing
// by at least n bytes and returns the whole backing slice, or false when no
// more memory is available. Content already handed out is preserved, though
// the slice itself may move; offsets into it stay valid.
type Grower interface {
	Grow(n int) ([]byte, bool)
}

// SliceGrower ...
type SliceGrower struct {
	data []byte
	size int
}

// NewSliceGrower ...
func NewSliceGrower(capacity int) *SliceGrower {
	if capacity <= 0 {
		panic("capacity must > 0")
	}
	return &SliceGrower{
		data: make([]byte, capacity),
	}
}

// Grow ...
func (g *SliceGrower) Grow(n int) ([]byte, bool) {
	if n < 0 || g.size+n > len(g.data) {
		return nil, false
	}
	g.size += n
	return g.data[:g.size], true
}
