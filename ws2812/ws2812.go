package ws2812

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

var (
	// ErrInvalidTiming means the requested clock frequency cannot be
	// encoded. Returned at construction; pick a supported clock.
	ErrInvalidTiming = errors.New("ws2812: clock frequency cannot be encoded")

	// ErrOutOfBounds means a prerendered output buffer is smaller than
	// the frame being encoded. The partial buffer must be discarded.
	ErrOutOfBounds = errors.New("ws2812: output buffer too small for frame")
)

// Mode is the SPI mode for this protocol: clock idle low, sample on the
// first edge. The strip never drives the bus back, so it hardly matters.
const Mode = spi.Mode0

// DefaultFreq is the bus clock assumed when Opts.Freq is zero. It matches
// the fixed 4x oversampling table.
const DefaultFreq = 4 * physic.MegaHertz

// Opts holds the strip configuration shared by all strategies.
//
// The zero value is a useful default: a three channel GRB strip on a 4MHz
// bus using the fixed oversampling table.
type Opts struct {
	// NumPixels is the strip length. Used for buffer sizing and Halt.
	NumPixels int
	// Device selects the channel count. Default ThreeChannel.
	Device DeviceKind
	// Order is the wire channel order for three channel devices.
	// Default GRB. Ignored for FourChannelWhite.
	Order PixelOrder
	// Freq is the SPI bus clock. Zero selects the fixed 4x table, which
	// expects the bus at roughly 4MHz. Any other value derives the
	// pulse widths via TimingFor.
	Freq physic.Frequency
	// MosiIdleHigh makes Write emit a full latch gap before the payload
	// too, for transports whose data line rests high between frames.
	MosiIdleHigh bool
	// SplitReset issues the latch gap as its own bulk transfer instead
	// of appending it to the frame. Only meaningful for the buffered
	// strategies; the streaming strategy is byte-at-a-time regardless.
	SplitReset bool
}

func (o *Opts) validate() (sequencer, encoder, error) {
	if o.NumPixels < 0 {
		return sequencer{}, encoder{}, fmt.Errorf("ws2812: invalid pixel count %d", o.NumPixels)
	}
	seq, err := newSequencer(o.Device, o.Order)
	if err != nil {
		return sequencer{}, encoder{}, err
	}
	if o.Freq == 0 {
		return seq, newFixedEncoder(), nil
	}
	t, err := TimingFor(o.Freq)
	if err != nil {
		return sequencer{}, encoder{}, err
	}
	return seq, newTimedEncoder(t), nil
}

func (o *Opts) freq() physic.Frequency {
	if o.Freq == 0 {
		return DefaultFreq
	}
	return o.Freq
}

// MinBufferLen returns the buffer capacity NewPrerendered requires for a
// full frame under opts: the encoded payload, plus the latch gap unless
// SplitReset, plus a leading latch gap when MosiIdleHigh.
func MinBufferLen(opts *Opts) (int, error) {
	seq, enc, err := opts.validate()
	if err != nil {
		return 0, err
	}
	n := opts.NumPixels * seq.channels * enc.bytesPerChannel()
	if !opts.SplitReset {
		n += enc.timing.ResetBytes
	}
	if opts.MosiIdleHigh {
		n += enc.timing.ResetBytes
	}
	return n, nil
}

// connect opens the port at the configured clock.
func connect(p spi.Port, opts *Opts) (spi.Conn, error) {
	c, err := p.Connect(opts.freq(), Mode, 8)
	if err != nil {
		return nil, fmt.Errorf("ws2812: connect: %w", err)
	}
	return c, nil
}

// encodeFrame runs the sequencer and encoder over one frame into w.
func encodeFrame(w byteWriter, seq sequencer, enc *encoder, colors []Color) error {
	for _, c := range colors {
		ch := seq.channelBytes(c)
		for i := 0; i < seq.channels; i++ {
			if err := enc.encodeByte(w, ch[i]); err != nil {
				return err
			}
		}
	}
	return nil
}
