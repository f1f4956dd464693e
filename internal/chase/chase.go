// Package chase provides the little frame generators the demo command
// cycles through. Application level animation stays out of the ws2812
// package itself.
package chase

import (
	"math"

	"github.com/coreman2200/ws2812-spi/ws2812"
)

// Wheel maps a hue position in [0,1) onto the RGB color wheel.
func Wheel(h float64) ws2812.Color {
	h = math.Mod(h, 1.0)
	if h < 0 {
		h += 1.0
	}
	h *= 6
	switch {
	case h < 1:
		return ws2812.Color{R: 255, G: byte(255 * h)}
	case h < 2:
		return ws2812.Color{R: byte(255 * (2 - h)), G: 255}
	case h < 3:
		return ws2812.Color{G: 255, B: byte(255 * (h - 2))}
	case h < 4:
		return ws2812.Color{G: byte(255 * (4 - h)), B: 255}
	case h < 5:
		return ws2812.Color{R: byte(255 * (h - 4)), B: 255}
	default:
		return ws2812.Color{R: 255, B: byte(255 * (6 - h))}
	}
}

// Rainbow fills dst with a rotating rainbow at the given phase.
func Rainbow(dst []ws2812.Color, phase, brightness float64) {
	n := len(dst)
	for i := range dst {
		c := Wheel(float64(i)/float64(max(1, n)) + phase)
		dst[i] = scale(c, brightness)
	}
}

// Dot blanks dst and lights a single pixel, wrapping pos around the
// strip.
func Dot(dst []ws2812.Color, pos int, c ws2812.Color) {
	for i := range dst {
		dst[i] = ws2812.Color{}
	}
	if len(dst) == 0 {
		return
	}
	pos %= len(dst)
	if pos < 0 {
		pos += len(dst)
	}
	dst[pos] = c
}

func scale(c ws2812.Color, brightness float64) ws2812.Color {
	if brightness >= 1.0 {
		return c
	}
	if brightness < 0 {
		brightness = 0
	}
	return ws2812.Color{
		R: byte(float64(c.R) * brightness),
		G: byte(float64(c.G) * brightness),
		B: byte(float64(c.B) * brightness),
		W: byte(float64(c.W) * brightness),
	}
}
