package ws2812

// byteWriter is the sink encoded SPI bytes flow into: a frame buffer or
// the streaming transport.
type byteWriter interface {
	writeByte(b byte) error
}

// twoBitPatterns maps two logical bits to one SPI byte at 4x oversampling.
// Each nibble is one logical bit: 0b1000 for 0, 0b1110 for 1, so a 4MHz
// bus produces a 250ns zero high and a 750ns one high.
var twoBitPatterns = [4]byte{0b1000_1000, 0b1000_1110, 0b1110_1000, 0b1110_1110}

// fixedResetBytes is the latch gap for the fixed table: 140 zero bytes is
// a hair over 300µs at 3.8MHz.
const fixedResetBytes = 140

// encoder expands channel bytes into oversampled SPI bytes. Stateless
// across calls: identical input and timing always yield identical output.
type encoder struct {
	timing Timing
	fixed  bool
}

// newFixedEncoder returns the 4x table encoder for ~4MHz buses.
func newFixedEncoder() encoder {
	return encoder{
		timing: Timing{ZeroHigh: 1, OneHigh: 3, Total: 4, ResetBytes: fixedResetBytes},
		fixed:  true,
	}
}

func newTimedEncoder(t Timing) encoder {
	return encoder{timing: t}
}

// bytesPerChannel is the encoded size of one 8 bit channel value.
func (e *encoder) bytesPerChannel() int {
	if e.fixed {
		return 4
	}
	// 8 bits of Total sub-bits each, packed into bytes.
	return e.timing.Total
}

// encodeByte expands one channel byte, most significant bit first.
func (e *encoder) encodeByte(w byteWriter, b byte) error {
	if e.fixed {
		for i := 0; i < 4; i++ {
			if err := w.writeByte(twoBitPatterns[b>>6]); err != nil {
				return err
			}
			b <<= 2
		}
		return nil
	}

	total := uint(e.timing.Total)
	var acc uint64
	var n uint
	for i := 0; i < 8; i++ {
		p := e.timing.zeroPattern
		if b&0x80 != 0 {
			p = e.timing.onePattern
		}
		acc |= uint64(p) << (64 - n - total)
		n += total
		for n >= 8 {
			if err := w.writeByte(byte(acc >> 56)); err != nil {
				return err
			}
			acc <<= 8
			n -= 8
		}
		b <<= 1
	}
	if n > 0 {
		// Zero padding only ever extends the low phase.
		if err := w.writeByte(byte(acc >> 56)); err != nil {
			return err
		}
	}
	return nil
}
