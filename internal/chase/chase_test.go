package chase

import (
	"testing"

	"github.com/coreman2200/ws2812-spi/ws2812"
)

func TestWheelPrimaries(t *testing.T) {
	if c := Wheel(0); c.R != 255 || c.G != 0 || c.B != 0 {
		t.Fatalf("expected red at 0, got %#v", c)
	}
	if c := Wheel(1.0 / 3.0); c.G != 255 || c.R != 0 {
		t.Fatalf("expected green at 1/3, got %#v", c)
	}
	if c := Wheel(2.0 / 3.0); c.B != 255 || c.G != 0 {
		t.Fatalf("expected blue at 2/3, got %#v", c)
	}
}

func TestWheelWraps(t *testing.T) {
	a := Wheel(0.25)
	b := Wheel(1.25)
	if a != b {
		t.Fatalf("expected wrap: %#v vs %#v", a, b)
	}
}

func TestRainbowBrightness(t *testing.T) {
	dim := make([]ws2812.Color, 8)
	full := make([]ws2812.Color, 8)
	Rainbow(full, 0, 1.0)
	Rainbow(dim, 0, 0.5)
	for i := range full {
		if dim[i].R > full[i].R || dim[i].G > full[i].G || dim[i].B > full[i].B {
			t.Fatalf("pixel %d brighter than full scale: %#v vs %#v", i, dim[i], full[i])
		}
	}
}

func TestDot(t *testing.T) {
	dst := make([]ws2812.Color, 5)
	Dot(dst, 7, ws2812.Color{R: 1})
	for i, c := range dst {
		if i == 2 {
			if c.R != 1 {
				t.Fatalf("expected lit pixel at 2")
			}
			continue
		}
		if c != (ws2812.Color{}) {
			t.Fatalf("expected blank pixel at %d, got %#v", i, c)
		}
	}
}
