// Package arena implements a per-worker bump allocator.
//
// An Arena hands out byte slices from one growable backing buffer and frees
// everything at once through Reset. Request parsing and header formatting
// borrow from the arena instead of allocating on the heap, so a worker's
// steady-state allocation rate is zero once the backing buffer has grown to
// its working size.
//
// An Arena is exclusively owned by one worker and is not safe for concurrent
// use.
package arena

const defaultCapacity = 16 * 1024

// Arena is a scratch allocator with bulk reset.
type Arena struct {
	buf []byte
	off int
}

// New returns an arena with the default initial capacity.
func New() *Arena {
	return NewSize(defaultCapacity)
}

// NewSize returns an arena whose backing buffer starts at size bytes.
func NewSize(size int) *Arena {
	if size <= 0 {
		size = defaultCapacity
	}
	return &Arena{buf: make([]byte, size)}
}

// Alloc returns a zeroed slice of n bytes backed by the arena. The slice is
// valid until the next Reset.
func (a *Arena) Alloc(n int) []byte {
	if a.off+n > len(a.buf) {
		a.grow(n)
	}
	b := a.buf[a.off : a.off+n : a.off+n]
	a.off += n
	for i := range b {
		b[i] = 0
	}
	return b
}

// Copy clones src into the arena.
func (a *Arena) Copy(src []byte) []byte {
	b := a.Alloc(len(src))
	copy(b, src)
	return b
}

// Reset discards every allocation made since the previous Reset. The backing
// buffer is retained, so the next request on this worker allocates nothing.
func (a *Arena) Reset() {
	a.off = 0
}

// Len reports the number of bytes currently handed out.
func (a *Arena) Len() int { return a.off }

// Cap reports the size of the backing buffer.
func (a *Arena) Cap() int { return len(a.buf) }

func (a *Arena) grow(n int) {
	size := len(a.buf) * 2
	for size < n {
		size *= 2
	}
	// Slices handed out earlier keep referencing the old buffer, which
	// stays alive until Reset ends their lifetime.
	a.buf = make([]byte, size)
	a.off = 0
}
