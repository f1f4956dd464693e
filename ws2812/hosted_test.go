package ws2812_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spitest"

	"github.com/coreman2200/ws2812-spi/ws2812"
)

func TestHostedWrite(t *testing.T) {
	buf := bytes.Buffer{}
	d, err := ws2812.NewHosted(spitest.NewRecordRaw(&buf), &ws2812.Opts{NumPixels: 2})
	require.NoError(t, err)
	require.NoError(t, d.Write([]ws2812.Color{{R: 0x11, G: 0x22, B: 0x33}, {}}))

	sent := buf.Bytes()
	require.Len(t, sent, 2*3*4+140)
	assert.Equal(t, []byte{0x88, 0xE8, 0x88, 0xE8}, sent[:4], "green channel first")
	assert.Equal(t, make([]byte, 140), sent[len(sent)-140:], "latch tail")
}

func TestHostedBufferReuse(t *testing.T) {
	// Two identical frames in a row produce identical byte streams; the
	// internal buffer resets between writes instead of accumulating.
	buf := bytes.Buffer{}
	d, err := ws2812.NewHosted(spitest.NewRecordRaw(&buf), &ws2812.Opts{NumPixels: 1})
	require.NoError(t, err)

	colors := []ws2812.Color{{B: 0x7E}}
	require.NoError(t, d.Write(colors))
	one := append([]byte(nil), buf.Bytes()...)
	require.NoError(t, d.Write(colors))

	assert.Len(t, buf.Bytes(), 2*len(one))
	assert.Equal(t, one, buf.Bytes()[len(one):])
}

func TestHostedLatchIndependentOfLength(t *testing.T) {
	for _, n := range []int{1, 8, 64} {
		buf := bytes.Buffer{}
		opts := &ws2812.Opts{NumPixels: n, Freq: 8 * physic.MegaHertz}
		d, err := ws2812.NewHosted(spitest.NewRecordRaw(&buf), opts)
		require.NoError(t, err)
		require.NoError(t, d.Write(make([]ws2812.Color, n)))

		tm, err := ws2812.TimingFor(opts.Freq)
		require.NoError(t, err)
		assert.Len(t, buf.Bytes(), n*3*tm.Total+tm.ResetBytes, "%d pixels", n)
	}
}

func TestHostedSplitReset(t *testing.T) {
	buf := bytes.Buffer{}
	d, err := ws2812.NewHosted(spitest.NewRecordRaw(&buf), &ws2812.Opts{NumPixels: 1, SplitReset: true})
	require.NoError(t, err)
	require.NoError(t, d.Write([]ws2812.Color{{R: 0xFF}}))
	assert.Len(t, buf.Bytes(), 3*4+140)
}

func TestHostedHalt(t *testing.T) {
	buf := bytes.Buffer{}
	d, err := ws2812.NewHosted(spitest.NewRecordRaw(&buf), &ws2812.Opts{NumPixels: 3})
	require.NoError(t, err)
	require.NoError(t, d.Halt())
	sent := buf.Bytes()
	require.Len(t, sent, 3*3*4+140)
	for _, b := range sent[:3*3*4] {
		require.Equal(t, byte(0x88), b, "all channels off")
	}
}

func TestHostedInvalidOpts(t *testing.T) {
	buf := bytes.Buffer{}
	_, err := ws2812.NewHosted(spitest.NewRecordRaw(&buf), &ws2812.Opts{NumPixels: 1, Freq: physic.MegaHertz})
	assert.ErrorIs(t, err, ws2812.ErrInvalidTiming)

	_, err = ws2812.NewHosted(spitest.NewRecordRaw(&buf), &ws2812.Opts{NumPixels: -1})
	assert.Error(t, err)
}
