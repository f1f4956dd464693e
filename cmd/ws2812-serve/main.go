// Command ws2812-serve drives a strip from the network: binary frames
// arrive over a websocket and are encoded onto the SPI bus. Configuration
// comes from a YAML file, with flags as fallbacks.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/coreman2200/ws2812-spi/internal/config"
	"github.com/coreman2200/ws2812-spi/internal/ledserver"
	"github.com/coreman2200/ws2812-spi/ws2812"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		addr       = flag.String("addr", ":8080", "HTTP listen address")
		pixels     = flag.Int("pixels", 30, "strip length when no config file is present")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	cfg := &config.Config{
		Strip: config.Strip{NumPixels: *pixels, Strategy: "hosted"},
		Addr:  *addr,
	}
	if c, err := config.Load(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed, using flags")
		if errors.Is(err, os.ErrNotExist) {
			// Seed a starter file with the effective settings. Never
			// overwrite an existing file that merely failed to parse.
			if err := config.Save(*configPath, cfg); err != nil {
				log.Warn().Err(err).Str("path", *configPath).Msg("config seed failed")
			} else {
				log.Info().Str("path", *configPath).Msg("wrote starter config")
			}
		}
	} else {
		cfg = c
		if cfg.Addr == "" {
			cfg.Addr = *addr
		}
	}

	if _, err := host.Init(); err != nil {
		log.Fatal().Err(err).Msg("host init")
	}

	opts, err := cfg.Strip.Opts()
	if err != nil {
		log.Fatal().Err(err).Msg("bad strip config")
	}

	p, err := spireg.Open(cfg.Strip.Dev)
	if err != nil {
		log.Fatal().Err(err).Str("dev", cfg.Strip.Dev).Msg("SPI open")
	}
	defer p.Close()

	var strip ledserver.Strip
	switch cfg.Strip.Strategy {
	case "stream":
		strip, err = ws2812.NewStreamSPI(p, opts)
	case "prerendered":
		var n int
		if n, err = ws2812.MinBufferLen(opts); err == nil {
			strip, err = ws2812.NewPrerendered(p, make([]byte, n), opts)
		}
	case "hosted", "":
		strip, err = ws2812.NewHosted(p, opts)
	default:
		log.Fatal().Str("strategy", cfg.Strip.Strategy).Msg("unknown strategy")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("strip setup")
	}

	srv := ledserver.New(strip, opts.NumPixels, opts.Device.Channels())
	mux := http.NewServeMux()
	srv.Routes(mux)

	httpSrv := &http.Server{Addr: cfg.Addr, Handler: mux}
	go func() {
		log.Info().Str("addr", cfg.Addr).Int("pixels", opts.NumPixels).Msg("listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	s := <-sig
	log.Info().Str("signal", s.String()).Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)
	if err := srv.Halt(); err != nil {
		log.Warn().Err(err).Msg("halt")
	}
}
