package ws2812

// boundedBuffer writes into a caller-owned slice with a cursor. It never
// writes past the slice bound: overflow surfaces ErrOutOfBounds first.
type boundedBuffer struct {
	buf []byte
	n   int
}

func (b *boundedBuffer) writeByte(c byte) error {
	if b.n >= len(b.buf) {
		return ErrOutOfBounds
	}
	b.buf[b.n] = c
	b.n++
	return nil
}

func (b *boundedBuffer) bytes() []byte {
	return b.buf[:b.n]
}

func (b *boundedBuffer) reset() {
	b.n = 0
}

// growBuffer appends without bound. The backing array is kept across
// frames, so steady state allocates nothing.
type growBuffer struct {
	buf []byte
}

func (g *growBuffer) writeByte(c byte) error {
	g.buf = append(g.buf, c)
	return nil
}

func (g *growBuffer) bytes() []byte {
	return g.buf
}

func (g *growBuffer) reset() {
	g.buf = g.buf[:0]
}
