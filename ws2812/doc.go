// Package ws2812 drives WS2812/WS2812b and SK6812 "NeoPixel" LED strips
// through a byte oriented SPI peripheral.
//
// These strips speak a one-wire self-clocked protocol that SPI hardware has
// no native support for, so the MOSI line is abused as a bit-stream
// generator: every logical protocol bit is oversampled into several SPI
// sub-bits whose high/low ratio lands inside the strip's pulse width
// tolerances. A frame ends with a latch gap of at least 300µs of low
// signal.
//
// Three transmission strategies are provided:
//
//   - NewStream sends encoded bytes one at a time through a blocking byte
//     exchange transport. Lowest memory use, but every byte is exposed to
//     software jitter.
//   - NewPrerendered renders the whole frame into a caller-owned buffer and
//     issues one bulk transfer. Predictable timing at the cost of RAM.
//   - NewHosted owns a growing buffer and is the convenient choice on Linux
//     hosts with spidev, where bulk transfers are cheap.
//
// For buses running at roughly 4MHz a fixed 4x oversampling table is used.
// Any other supported clock goes through TimingFor, which derives the pulse
// widths at construction time.
//
// # Datasheet
//
// https://github.com/cpldcpu/light_ws2812/tree/master/Datasheets
package ws2812
