// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// oledsim runs the OLED RGB board program against a simulated board.
//
// The panel can be shown in the terminal, in a browser (MJPEG stream plus a
// websocket for the buttons) and in a desktop window. Buttons come from the
// keyboard, the browser, the window, a Lua script or real GPIO pins.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/oledrgb/buttons"
	"github.com/GermanBionicSystems/oledrgb/internal/config"
	"github.com/GermanBionicSystems/oledrgb/internal/termkeys"
	"github.com/GermanBionicSystems/oledrgb/internal/window"
	"github.com/GermanBionicSystems/oledrgb/internal/ws"
	"github.com/GermanBionicSystems/oledrgb/loop"
	"github.com/GermanBionicSystems/oledrgb/mmio"
	"github.com/GermanBionicSystems/oledrgb/oled"
	"github.com/GermanBionicSystems/oledrgb/policy"
	"github.com/GermanBionicSystems/oledrgb/sim"
	"github.com/GermanBionicSystems/oledrgb/sim/script"
	"github.com/GermanBionicSystems/oledrgb/snapshot"
	"github.com/GermanBionicSystems/oledrgb/termview"
	"github.com/GermanBionicSystems/oledrgb/videosink"
)

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "oledsim: %s.\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	var (
		configPath = flag.String("config", "oledsim.yaml", "path to the YAML configuration; a missing file means defaults")
		policyName = flag.String("policy", "", "color policy: palette or channel")
		multi      = flag.String("multi", "", "simultaneous presses: first or sequential; default sequential for the channel policy, first otherwise")
		layout     = flag.String("layout", "", "byte to channel layout used for previews, e.g. BRG")
		term       = flag.Bool("term", false, "show the panel in the terminal and read keys")
		addr       = flag.String("http", "", "serve the browser preview on this address, e.g. :8080")
		win        = flag.Bool("window", false, "show the panel in a desktop window")
		scriptPath = flag.String("script", "", "Lua script driving the buttons")
		snap       = flag.String("snapshot", "", "write a PNG of the board to this path on exit")
		writeCfg   = flag.Bool("write-config", false, "write the effective configuration to -config and exit")
		debug      = flag.Bool("debug", false, "log at debug level")
	)
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "policy":
			cfg.Policy = *policyName
		case "multi":
			cfg.MultiPress = *multi
		case "layout":
			cfg.Layout = *layout
		case "term":
			cfg.Preview.Term = *term
		case "http":
			cfg.Preview.HTTP = *addr
		case "window":
			cfg.Preview.Window = *win
		case "script":
			cfg.Script = *scriptPath
		case "snapshot":
			cfg.Preview.Snapshot = *snap
		}
	})
	res, err := cfg.Resolve()
	if err != nil {
		return err
	}
	if *writeCfg {
		return config.Save(*configPath, cfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := sim.New(&sim.Opts{
		Map:      res.Map,
		Layout:   res.Layout,
		PollRate: physic.Frequency(cfg.Sim.PollHz) * physic.Hertz,
		Logger:   log.With().Str("dev", "sim").Logger(),
	})
	r, err := mmio.NewRegs(p, &res.Map)
	if err != nil {
		return err
	}

	st := &status{}
	var sinks []display.Drawer
	var refresh []func()

	if cfg.Preview.Term {
		tv, err := termview.New(&termview.Opts{W: oled.Width, H: oled.Height, Status: st.line})
		if err != nil {
			return err
		}
		sinks = append(sinks, tv)
		refresh = append(refresh, func() { _ = tv.Refresh() })
		kb, err := termkeys.Open(os.Stdin, 0, log.With().Str("dev", "keys").Logger())
		if err != nil {
			log.Warn().Err(err).Msg("keyboard input disabled")
		} else {
			defer kb.Close()
			go func() {
				if err := kb.Run(ctx, p); errors.Is(err, termkeys.ErrQuit) {
					cancel()
				}
			}()
		}
	}

	var srv *http.Server
	if cfg.Preview.HTTP != "" {
		vs := videosink.New(&videosink.Options{
			Width:     oled.Width,
			Height:    oled.Height,
			Scale:     cfg.Preview.Scale,
			Caption:   st.line,
			Keepalive: 5 * time.Second,
			Logger:    log.With().Str("dev", "videosink").Logger(),
		})
		sinks = append(sinks, vs)
		refresh = append(refresh, vs.Refresh)
		wsh := ws.New(p, log.With().Str("dev", "ws").Logger())
		defer wsh.Close()
		mux := http.NewServeMux()
		mux.Handle("/", ws.Page("/stream", "/buttons"))
		mux.Handle("/stream", vs)
		mux.Handle("/buttons", wsh)
		// No write timeout: the stream never ends.
		srv = &http.Server{Addr: cfg.Preview.HTTP, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			log.Info().Str("addr", cfg.Preview.HTTP).Msg("HTTP preview")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("HTTP server")
				cancel()
			}
		}()
	}

	var w *window.Window
	if cfg.Preview.Window {
		if w, err = window.New(&window.Opts{
			W:      oled.Width,
			H:      oled.Height,
			Scale:  cfg.Preview.Scale,
			Title:  "OLED RGB",
			Input:  p,
			Logger: log.With().Str("dev", "window").Logger(),
		}); err != nil {
			return err
		}
		sinks = append(sinks, w)
	}
	for _, s := range sinks {
		p.AddSink(s)
	}

	if pins := cfg.Pins(); len(pins) != 0 {
		if err := watchPins(ctx, p, pins, cfg.GPIO); err != nil {
			return err
		}
	}

	if cfg.Script != "" {
		src, err := os.ReadFile(cfg.Script)
		if err != nil {
			return err
		}
		go func() {
			err := script.Run(ctx, p, cfg.Script, string(src), &script.Opts{Logger: log.With().Str("dev", "script").Logger()})
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("script")
			}
			log.Info().Str("script", cfg.Script).Msg("script done")
		}()
	}

	d, err := oled.New(r, &oled.Opts{Layout: res.Layout})
	if err != nil {
		return err
	}
	l, err := loop.New(d, buttons.New(r), &loop.Opts{
		Policy:     res.Policy,
		MultiPress: res.MultiPress,
		Logger:     log.With().Str("dev", "loop").Logger(),
		OnPress: func(b buttons.Button, pol policy.Policy) {
			st.set(pol)
			for _, f := range refresh {
				f()
			}
		},
	})
	if err != nil {
		return err
	}
	log.Info().Stringer("loop", l).Stringer("panel", p).Msg("running")
	// The loop has no shutdown path; it ends with the process.
	go l.Run()

	if w != nil {
		// The window owns the main goroutine until it is closed.
		go func() {
			<-ctx.Done()
			_ = w.Halt()
		}()
		if err := w.Run(); err != nil {
			log.Error().Err(err).Msg("window")
		}
		cancel()
	}
	<-ctx.Done()

	if srv != nil {
		_ = srv.Close()
	}
	for _, s := range sinks {
		if err := s.Halt(); err != nil {
			log.Warn().Err(err).Stringer("sink", s).Msg("halt")
		}
	}
	if cfg.Preview.Snapshot != "" {
		err := snapshot.SavePNG(cfg.Preview.Snapshot, p.Image(), &snapshot.Opts{
			Scale: cfg.Preview.Scale,
			Title: st.line(),
			Held:  p.Input(),
		})
		if err != nil {
			return err
		}
		log.Info().Str("path", cfg.Preview.Snapshot).Msg("snapshot written")
	}
	log.Info().Int("frames", p.Frames()).Int("stray", p.Stray()).Msg("bye")
	return nil
}

// watchPins mirrors GPIO input pins into the panel.
func watchPins(ctx context.Context, p *sim.Panel, names map[buttons.Button]string, c config.GPIO) error {
	if _, err := host.Init(); err != nil {
		return err
	}
	pi := &sim.PinInput{
		Pins:      map[buttons.Button]gpio.PinIn{},
		ActiveLow: c.ActiveLow,
		Rate:      physic.Frequency(c.RateHz) * physic.Hertz,
	}
	for b, n := range names {
		pin := gpioreg.ByName(n)
		if pin == nil {
			return fmt.Errorf("gpio: no pin named %q for %s", n, b)
		}
		pi.Pins[b] = pin
	}
	go func() {
		if err := pi.Run(ctx, p); err != nil {
			log.Error().Err(err).Msg("gpio input")
		}
	}()
	return nil
}

// status is the one line summary of the policy shown under previews. It is
// written on the loop goroutine and read by the previews.
type status struct {
	s atomic.Pointer[string]
}

func (st *status) set(p policy.Policy) {
	s := fmt.Sprintf("%s  %s", p, p.Color())
	st.s.Store(&s)
}

func (st *status) line() string {
	if s := st.s.Load(); s != nil {
		return *s
	}
	return ""
}
