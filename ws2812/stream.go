package ws2812

import (
	"fmt"

	"periph.io/x/conn/v3/spi"
)

// ByteConn is the blocking byte exchange transport the streaming strategy
// drives. Send blocks until the peripheral accepts the byte; Read drains
// one received byte, whose value is unused but must be drained on some
// hardware to avoid overrun.
type ByteConn interface {
	Send(b byte) error
	Read() (byte, error)
}

// StreamDev streams encoded bytes through a ByteConn as they are
// produced. Memory use is constant, but every byte is exposed to software
// jitter, so the host must keep up with the bus.
//
// Not safe for concurrent use; one Write owns the transport for its whole
// duration.
type StreamDev struct {
	c            ByteConn
	seq          sequencer
	enc          encoder
	numPixels    int
	mosiIdleHigh bool
}

// NewStream returns a streaming strip on a byte exchange transport.
func NewStream(c ByteConn, opts *Opts) (*StreamDev, error) {
	seq, enc, err := opts.validate()
	if err != nil {
		return nil, err
	}
	return &StreamDev{
		c:            c,
		seq:          seq,
		enc:          enc,
		numPixels:    opts.NumPixels,
		mosiIdleHigh: opts.MosiIdleHigh,
	}, nil
}

// NewStreamSPI connects p at the configured clock and adapts it to the
// byte exchange contract with one byte full duplex transfers.
func NewStreamSPI(p spi.Port, opts *Opts) (*StreamDev, error) {
	c, err := connect(p, opts)
	if err != nil {
		return nil, err
	}
	return NewStream(&spiByteConn{c: c}, opts)
}

// Write sends one frame. A transport error aborts the frame immediately
// and may leave the strip mid-frame; the only remedy is to reissue a
// complete frame.
func (d *StreamDev) Write(colors []Color) error {
	// One dummy byte stays in flight for the whole frame so a
	// single-byte hardware FIFO never runs dry between send and read.
	if err := d.c.Send(0); err != nil {
		return fmt.Errorf("ws2812: fifo offset: %w", err)
	}
	if d.mosiIdleHigh {
		if err := d.latch(); err != nil {
			return err
		}
	}
	if err := encodeFrame(d, d.seq, &d.enc, colors); err != nil {
		return err
	}
	if err := d.latch(); err != nil {
		return err
	}
	// Push the in-flight byte out and rebalance the send/receive pair.
	if err := d.c.Send(0); err != nil {
		return fmt.Errorf("ws2812: drain: %w", err)
	}
	if _, err := d.c.Read(); err != nil {
		return fmt.Errorf("ws2812: drain: %w", err)
	}
	return nil
}

// Halt turns the strip off by writing an all-black frame.
func (d *StreamDev) Halt() error {
	return d.Write(make([]Color, d.numPixels))
}

func (d *StreamDev) String() string {
	return "ws2812{stream}"
}

// writeByte implements byteWriter: exchange one byte, drain the receive
// side.
func (d *StreamDev) writeByte(b byte) error {
	if err := d.c.Send(b); err != nil {
		return fmt.Errorf("ws2812: send: %w", err)
	}
	if _, err := d.c.Read(); err != nil {
		return fmt.Errorf("ws2812: read: %w", err)
	}
	return nil
}

// latch holds the line low long enough for the strip to latch the frame.
func (d *StreamDev) latch() error {
	for i := 0; i < d.enc.timing.ResetBytes; i++ {
		if err := d.writeByte(0); err != nil {
			return err
		}
	}
	return nil
}

// spiByteConn adapts an spi.Conn to ByteConn. A full duplex one byte Tx
// both sends and captures the received byte, so Read just hands back the
// last capture.
type spiByteConn struct {
	c  spi.Conn
	tx [1]byte
	rx [1]byte
}

func (s *spiByteConn) Send(b byte) error {
	s.tx[0] = b
	return s.c.Tx(s.tx[:], s.rx[:])
}

func (s *spiByteConn) Read() (byte, error) {
	return s.rx[0], nil
}
