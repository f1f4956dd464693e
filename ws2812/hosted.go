package ws2812

import (
	"fmt"

	"periph.io/x/conn/v3/spi"
)

// HostedDev owns a growing frame buffer and sends each frame in one bulk
// transfer. The comfortable choice on Linux hosts driving spidev, where
// allocation is cheap and bulk writes are DMA backed.
//
// Not safe for concurrent use.
type HostedDev struct {
	c            spi.Conn
	buf          growBuffer
	seq          sequencer
	enc          encoder
	numPixels    int
	mosiIdleHigh bool
	zeros        []byte
}

// NewHosted connects p and returns a buffered strip. The internal buffer
// grows to one frame and is reused across writes.
func NewHosted(p spi.Port, opts *Opts) (*HostedDev, error) {
	seq, enc, err := opts.validate()
	if err != nil {
		return nil, err
	}
	c, err := connect(p, opts)
	if err != nil {
		return nil, err
	}
	d := &HostedDev{
		c:            c,
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

// Write renders and sends one frame. A transport error aborts the frame
// immediately; reissue a complete frame to recover.
func (d *HostedDev) Write(colors []Color) error {
	d.buf.reset()
	if d.mosiIdleHigh {
		d.renderLatch()
	}
	if err := encodeFrame(&d.buf, d.seq, &d.enc, colors); err != nil {
		return err
	}
	if d.zeros == nil {
		d.renderLatch()
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
func (d *HostedDev) Halt() error {
	return d.Write(make([]Color, d.numPixels))
}

func (d *HostedDev) String() string {
	return "ws2812{hosted}"
}

func (d *HostedDev) renderLatch() {
	for i := 0; i < d.enc.timing.ResetBytes; i++ {
		// growBuffer never fails.
		_ = d.buf.writeByte(0)
	}
}
