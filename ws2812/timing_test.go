package ws2812_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/ws2812-spi/ws2812"
)

func TestTimingInvariants(t *testing.T) {
	// Every supported clock keeps 1 <= ZeroHigh <= OneHigh < Total <= 28.
	for f := 2 * physic.MegaHertz; f <= 30*physic.MegaHertz; f += 100 * physic.KiloHertz {
		tm, err := ws2812.TimingFor(f)
		require.NoError(t, err, "clock %s", f)
		assert.GreaterOrEqual(t, tm.ZeroHigh, 1, "clock %s", f)
		assert.GreaterOrEqual(t, tm.OneHigh, tm.ZeroHigh, "clock %s", f)
		assert.Greater(t, tm.Total, tm.OneHigh, "clock %s", f)
		assert.LessOrEqual(t, tm.Total, 28, "clock %s", f)
		assert.Greater(t, tm.ResetBytes, 0, "clock %s", f)
	}
}

func TestTimingKnownClocks(t *testing.T) {
	var cases = []struct {
		freq                                 physic.Frequency
		zeroHigh, oneHigh, total, resetBytes int
	}{
		{2 * physic.MegaHertz, 1, 2, 3, 84},
		{3 * physic.MegaHertz, 1, 2, 3, 126},
		{3200 * physic.KiloHertz, 1, 3, 4, 134},
		{4 * physic.MegaHertz, 1, 3, 4, 167},
		{8 * physic.MegaHertz, 1, 6, 8, 334},
	}
	for _, c := range cases {
		t.Run(c.freq.String(), func(t *testing.T) {
			tm, err := ws2812.TimingFor(c.freq)
			require.NoError(t, err)
			assert.Equal(t, c.zeroHigh, tm.ZeroHigh, "ZeroHigh")
			assert.Equal(t, c.oneHigh, tm.OneHigh, "OneHigh")
			assert.Equal(t, c.total, tm.Total, "Total")
			assert.Equal(t, c.resetBytes, tm.ResetBytes, "ResetBytes")
		})
	}
}

func TestTimingClockTooSlow(t *testing.T) {
	for _, f := range []physic.Frequency{physic.MegaHertz, 1999 * physic.KiloHertz, 0} {
		_, err := ws2812.TimingFor(f)
		assert.ErrorIs(t, err, ws2812.ErrInvalidTiming, "clock %s", f)
	}
}

func TestTimingClockTooFast(t *testing.T) {
	// 31MHz would need 29 sub-bits per logical bit.
	_, err := ws2812.TimingFor(31 * physic.MegaHertz)
	assert.ErrorIs(t, err, ws2812.ErrInvalidTiming)

	// A clock of 2^32+3M Hz truncated to 32 bits would alias to the
	// valid 3MHz timing; it must be rejected like any other too-fast
	// clock.
	_, err = ws2812.TimingFor(physic.Frequency(1<<32+3_000_000) * physic.Hertz)
	assert.ErrorIs(t, err, ws2812.ErrInvalidTiming)
}
