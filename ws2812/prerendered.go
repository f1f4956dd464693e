package ws2812

import (
	"fmt"

	"periph.io/x/conn/v3/spi"
)

// PrerenderedDev renders the whole frame into a caller-owned buffer and
// issues a single bulk transfer. This trades RAM for timing safety: a
// bulk-write transport (DMA backed on most hosts) sees no software jitter
// between bytes.
//
// Not safe for concurrent use; the buffer belongs to the in-progress
// Write call.
type PrerenderedDev struct {
	c            spi.Conn
	buf          boundedBuffer
	seq          sequencer
	enc          encoder
	numPixels    int
	mosiIdleHigh bool
	zeros        []byte // latch tail when split off the frame
}

// NewPrerendered connects p and returns a strip rendering into buf.
//
// buf must hold at least MinBufferLen(opts) bytes or Write will fail with
// ErrOutOfBounds.
func NewPrerendered(p spi.Port, buf []byte, opts *Opts) (*PrerenderedDev, error) {
	seq, enc, err := opts.validate()
	if err != nil {
		return nil, err
	}
	c, err := connect(p, opts)
	if err != nil {
		return nil, err
	}
	d := &PrerenderedDev{
		c:            c,
		buf:          boundedBuffer{buf: buf},
		seq:          seq,
		enc:          enc,
		numPixels:    opts.NumPixels,
		mosiIdleHigh: opts.MosiIdleHigh,
	}
	if opts.SplitReset {
		d.zeros = make([]byte, enc.timing.ResetBytes)
	}
	return d, nil
}

// Write renders and sends one frame. ErrOutOfBounds is returned before
// any write past the buffer bound; the partially filled buffer is then
// meaningless. A transport error aborts the frame immediately.
func (d *PrerenderedDev) Write(colors []Color) error {
	d.buf.reset()
	if d.mosiIdleHigh {
		if err := d.renderLatch(); err != nil {
			return err
		}
	}
	if err := encodeFrame(&d.buf, d.seq, &d.enc, colors); err != nil {
		return err
	}
	if d.zeros == nil {
		if err := d.renderLatch(); err != nil {
			return err
		}
	}
	if err := d.c.Tx(d.buf.bytes(), nil); err != nil {
		return fmt.Errorf("ws2812: transfer: %w", err)
	}
	if d.zeros != nil {
		if err := d.c.Tx(d.zeros, nil); err != nil {
			return fmt.Errorf("ws2812: latch: %w", err)
		}
	}
	return nil
}

// Halt turns the strip off by writing an all-black frame.
func (d *PrerenderedDev) Halt() error {
	return d.Write(make([]Color, d.numPixels))
}

func (d *PrerenderedDev) String() string {
	return "ws2812{prerendered}"
}

func (d *PrerenderedDev) renderLatch() error {
	for i := 0; i < d.enc.timing.ResetBytes; i++ {
		if err := d.buf.writeByte(0); err != nil {
			return err
		}
	}
	return nil
}
