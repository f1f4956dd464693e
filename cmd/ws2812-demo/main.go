// Command ws2812-demo runs a rainbow chase on a strip attached to the
// first SPI port, falling back to a console preview when no port exists.
package main

import (
	"flag"
	"image"
	"image/color"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"

	"github.com/coreman2200/ws2812-spi/internal/chase"
	"github.com/coreman2200/ws2812-spi/ws2812"
)

// drawer is the slice of display.Drawer the fallback backends provide.
type drawer interface {
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
	Bounds() image.Rectangle
	Halt() error
}

func main() {
	var (
		dev        = flag.String("dev", "", "SPI port name (empty picks the first)")
		driver     = flag.String("driver", "ws2812", "backend: ws2812 | nrzled | screen")
		strategy   = flag.String("strategy", "hosted", "ws2812 strategy: hosted | prerendered | stream")
		pixels     = flag.Int("pixels", 30, "strip length")
		order      = flag.String("order", "GRB", "wire channel order")
		device     = flag.String("device", "rgb", "device kind: rgb | rgbw")
		hz         = flag.Int("hz", 0, "SPI clock in Hz (0 uses the fixed 4MHz table)")
		fps        = flag.Int("fps", 30, "frames per second")
		brightness = flag.Float64("brightness", 0.5, "global brightness 0..1")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	if _, err := host.Init(); err != nil {
		log.Fatal().Err(err).Msg("host init")
	}

	kind, err := ws2812.ParseDeviceKind(*device)
	if err != nil {
		log.Fatal().Err(err).Msg("bad -device")
	}
	po, err := ws2812.ParsePixelOrder(*order)
	if err != nil {
		log.Fatal().Err(err).Msg("bad -order")
	}
	opts := &ws2812.Opts{
		NumPixels: *pixels,
		Device:    kind,
		Order:     po,
		Freq:      physic.Frequency(*hz) * physic.Hertz,
	}

	write, halt := openBackend(*driver, *dev, *strategy, opts)
	defer halt()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	colors := make([]ws2812.Color, *pixels)
	ticker := time.NewTicker(time.Second / time.Duration(max(1, *fps)))
	defer ticker.Stop()

	phase := 0.0
	for {
		select {
		case <-ticker.C:
			chase.Rainbow(colors, phase, *brightness)
			phase += 0.005
			if err := write(colors); err != nil {
				log.Fatal().Err(err).Msg("frame write failed")
			}
		case s := <-sig:
			log.Info().Str("signal", s.String()).Msg("stopping")
			return
		}
	}
}

// openBackend builds the requested output path and returns a frame write
// function plus a halt hook.
func openBackend(driver, dev, strategy string, opts *ws2812.Opts) (func([]ws2812.Color) error, func()) {
	if driver == "screen" {
		return drawerBackend(screen.New(opts.NumPixels))
	}

	p, err := spireg.Open(dev)
	if err != nil {
		// Same console fallback the simulator uses: keep the demo
		// usable on machines without a SPI port.
		log.Warn().Err(err).Msg("no SPI port, drawing to the console")
		return drawerBackend(screen.New(opts.NumPixels))
	}
	log.Info().Str("port", p.String()).Str("driver", driver).Msg("SPI port open")

	if driver == "nrzled" {
		o := nrzled.Opts{
			NumPixels: opts.NumPixels,
			Channels:  opts.Device.Channels(),
			Freq:      2500 * physic.KiloHertz,
		}
		d, err := nrzled.NewSPI(p, &o)
		if err != nil {
			log.Fatal().Err(err).Msg("nrzled")
		}
		return drawerBackend(d)
	}

	var strip interface {
		Write([]ws2812.Color) error
		Halt() error
	}
	switch strategy {
	case "stream":
		strip, err = ws2812.NewStreamSPI(p, opts)
	case "prerendered":
		var n int
		if n, err = ws2812.MinBufferLen(opts); err == nil {
			strip, err = ws2812.NewPrerendered(p, make([]byte, n), opts)
		}
	default:
		strip, err = ws2812.NewHosted(p, opts)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("strip setup")
	}
	return strip.Write, func() {
		if err := strip.Halt(); err != nil {
			log.Warn().Err(err).Msg("halt")
		}
	}
}

// drawerBackend adapts a display into the frame write contract by
// rasterizing each frame into a 1xN image.
func drawerBackend(d drawer) (func([]ws2812.Color) error, func()) {
	write := func(colors []ws2812.Color) error {
		img := image.NewNRGBA(image.Rect(0, 0, len(colors), 1))
		for i, c := range colors {
			img.SetNRGBA(i, 0, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
		return d.Draw(d.Bounds(), img, image.Point{})
	}
	halt := func() {
		if err := d.Halt(); err != nil {
			log.Warn().Err(err).Msg("halt")
		}
	}
	return write, halt
}
