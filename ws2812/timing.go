package ws2812

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// Protocol constants, expressed as the frequency a single sub-bit may not
// undershoot for the respective phase to stay inside the strip's timing
// tolerances.
const (
	// MinClock is the slowest SPI clock the encoder supports.
	MinClock = 2 * physic.MegaHertz

	zeroHighHz  = 5_000_000 // longest zero high phase
	oneHighHz   = 1_510_000 // longest one high phase
	bitPeriodHz = 1_100_000 // nominal total bit period
	flushHz     = 3_000     // minimum latch gap

	// maxSubBits is the widest per-bit pattern the accumulator holds.
	// This is an artifact of the chosen integer width, not a protocol
	// limit; a wider accumulator would raise it.
	maxSubBits = 28
)

// Timing holds the derived pulse widths for one SPI clock frequency, in
// sub-bit counts. Computed once at construction and never mutated.
type Timing struct {
	// ZeroHigh is the number of high sub-bits encoding a logical 0.
	ZeroHigh int
	// OneHigh is the number of high sub-bits encoding a logical 1.
	OneHigh int
	// Total is the number of sub-bits per logical bit.
	Total int
	// ResetBytes is the number of zero bytes holding the line low for
	// the latch gap.
	ResetBytes int

	onePattern  uint32
	zeroPattern uint32
}

// TimingFor derives the pulse widths for an SPI bus clocked at f.
//
// It fails with ErrInvalidTiming for clocks below MinClock and for clocks
// so fast that one logical bit would need more than 28 sub-bits.
func TimingFor(f physic.Frequency) (Timing, error) {
	if f < MinClock {
		return Timing{}, fmt.Errorf("%w: %s is below the %s minimum", ErrInvalidTiming, f, MinClock)
	}
	// 64-bit arithmetic: absurdly fast clocks must land in the Total
	// check below instead of wrapping into a plausible small clock.
	hz := uint64(f / physic.Hertz)

	zeroHigh := hz / zeroHighHz
	if zeroHigh == 0 {
		zeroHigh = 1
	}
	// +1 rounds up so the high phase never undershoots.
	oneHigh := hz/oneHighHz + 1
	total := hz/bitPeriodHz + 1
	if total == oneHigh {
		// Guarantee a low tail after the one phase.
		total++
	}
	if total > maxSubBits {
		return Timing{}, fmt.Errorf("%w: %s needs %d sub-bits per bit, accumulator holds %d", ErrInvalidTiming, f, total, maxSubBits)
	}

	t := Timing{
		ZeroHigh:   int(zeroHigh),
		OneHigh:    int(oneHigh),
		Total:      int(total),
		ResetBytes: int((hz/flushHz+1)/8 + 1),
	}
	t.onePattern = pattern(t.OneHigh, t.Total)
	t.zeroPattern = pattern(t.ZeroHigh, t.Total)
	return t, nil
}

// pattern builds a total wide bit pattern with the topmost high sub-bits
// set, right-aligned in the word.
func pattern(high, total int) uint32 {
	return ((1 << high) - 1) << (total - high)
}
