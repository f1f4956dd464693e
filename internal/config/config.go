package config

import (
	"os"

	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/ws2812-spi/ws2812"
)

type Strip struct {
	Dev          string `yaml:"dev"`        // e.g. /dev/spidev0.0, empty picks the first port
	NumPixels    int    `yaml:"num_pixels"` //
	Device       string `yaml:"device"`     // "rgb" | "rgbw"
	Order        string `yaml:"order"`      // e.g. GRB
	SpeedHz      int    `yaml:"speed_hz"`   // 0 uses the fixed 4MHz table
	Strategy     string `yaml:"strategy"`   // "hosted" | "prerendered" | "stream"
	MosiIdleHigh bool   `yaml:"mosi_idle_high"`
	SplitReset   bool   `yaml:"split_reset"`
}

type Config struct {
	Strip      Strip   `yaml:"strip"`
	FPS        int     `yaml:"fps"`
	Brightness float64 `yaml:"brightness"`
	Addr       string  `yaml:"addr"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Opts maps the strip section onto encoder options.
func (s *Strip) Opts() (*ws2812.Opts, error) {
	kind, err := ws2812.ParseDeviceKind(s.Device)
	if err != nil {
		return nil, err
	}
	order, err := ws2812.ParsePixelOrder(s.Order)
	if err != nil {
		return nil, err
	}
	return &ws2812.Opts{
		NumPixels:    s.NumPixels,
		Device:       kind,
		Order:        order,
		Freq:         physic.Frequency(s.SpeedHz) * physic.Hertz,
		MosiIdleHigh: s.MosiIdleHigh,
		SplitReset:   s.SplitReset,
	}, nil
}
