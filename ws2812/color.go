package ws2812

import "fmt"

// Color is a single pixel value. W is only transmitted for
// FourChannelWhite devices.
type Color struct {
	R, G, B, W uint8
}

// DeviceKind selects how many channels a strip expects per pixel.
type DeviceKind int

const (
	// ThreeChannel is the common WS2812/WS2812b/SK6812 RGB strip.
	ThreeChannel DeviceKind = iota
	// FourChannelWhite is the SK6812RGBW family with a dedicated white
	// channel. These always expect G,R,B,W wire order.
	FourChannelWhite
)

// Channels returns the number of channel bytes per pixel.
func (k DeviceKind) Channels() int {
	if k == FourChannelWhite {
		return 4
	}
	return 3
}

func (k DeviceKind) String() string {
	switch k {
	case ThreeChannel:
		return "rgb"
	case FourChannelWhite:
		return "rgbw"
	default:
		return fmt.Sprintf("DeviceKind(%d)", int(k))
	}
}

// ParseDeviceKind parses a config string like "rgb" or "rgbw".
func ParseDeviceKind(s string) (DeviceKind, error) {
	switch s {
	case "rgb", "":
		return ThreeChannel, nil
	case "rgbw":
		return FourChannelWhite, nil
	default:
		return 0, fmt.Errorf("ws2812: unknown device kind %q", s)
	}
}

// PixelOrder is the order color channels are transmitted on the wire for
// three channel devices. Most WS2812 class strips expect GRB, which has
// nothing to do with how the color is held in memory.
type PixelOrder int

const (
	GRB PixelOrder = iota
	RGB
	RBG
	GBR
	BRG
	BGR
)

// orderIdx maps a wire position to an index into [R,G,B].
var orderIdx = [...][3]uint8{
	GRB: {1, 0, 2},
	RGB: {0, 1, 2},
	RBG: {0, 2, 1},
	GBR: {1, 2, 0},
	BRG: {2, 0, 1},
	BGR: {2, 1, 0},
}

var orderNames = [...]string{"GRB", "RGB", "RBG", "GBR", "BRG", "BGR"}

func (o PixelOrder) String() string {
	if o < 0 || int(o) >= len(orderNames) {
		return fmt.Sprintf("PixelOrder(%d)", int(o))
	}
	return orderNames[o]
}

// ParsePixelOrder parses a config string like "GRB".
func ParsePixelOrder(s string) (PixelOrder, error) {
	if s == "" {
		return GRB, nil
	}
	for i, n := range orderNames {
		if n == s {
			return PixelOrder(i), nil
		}
	}
	return 0, fmt.Errorf("ws2812: unknown pixel order %q", s)
}

// sequencer resolves DeviceKind and PixelOrder once, at construction, into
// plain channel indices so that the per-pixel path has no branching.
type sequencer struct {
	channels int
	idx      [4]uint8
}

func newSequencer(kind DeviceKind, order PixelOrder) (sequencer, error) {
	switch kind {
	case ThreeChannel:
		if order < 0 || int(order) >= len(orderIdx) {
			return sequencer{}, fmt.Errorf("ws2812: invalid pixel order %d", int(order))
		}
		o := orderIdx[order]
		return sequencer{channels: 3, idx: [4]uint8{o[0], o[1], o[2], 3}}, nil
	case FourChannelWhite:
		// Fixed G,R,B,W. The configured order does not apply.
		return sequencer{channels: 4, idx: [4]uint8{1, 0, 2, 3}}, nil
	default:
		return sequencer{}, fmt.Errorf("ws2812: unknown device kind %d", int(kind))
	}
}

// channelBytes returns the pixel's channel values in wire order. Only the
// first s.channels entries are valid.
func (s sequencer) channelBytes(c Color) [4]uint8 {
	ch := [4]uint8{c.R, c.G, c.B, c.W}
	return [4]uint8{ch[s.idx[0]], ch[s.idx[1]], ch[s.idx[2]], ch[s.idx[3]]}
}
