// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/GermanBionicSystems/oled/preview"
	"github.com/GermanBionicSystems/oled/scrolllist"
	"github.com/GermanBionicSystems/oled/ssd1306"
	"github.com/GermanBionicSystems/oled/ssd1306/ssd1306sim"
	"github.com/spf13/cobra"
)

func simCmd(a *app) *cobra.Command {
	var dwell, duration time.Duration
	var addr string
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run the list against a simulated display in the terminal",
		Long: `Run the list against a simulated display rendered in the terminal.

The encoder is replaced by a script that moves to the next line every dwell
period, so every line and the panning of long ones can be checked.

With --http, the display is also served as a live image to web browsers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, dev, err := newSimDisplay(&a.cfg.Display)
			if err != nil {
				return err
			}
			f, err := loadFont(a.cfg.Font, a.cfg.FontSize, a.cfg.Gap)
			if err != nil {
				return err
			}
			list, err := scrolllist.New(dev, a.cfg.Items, f)
			if err != nil {
				return err
			}
			term := ssd1306sim.NewTerminal(nil, nil)
			defer term.Halt()
			refresh := func() error {
				return term.Refresh(sim)
			}
			if addr != "" {
				stream := preview.NewStream(nil)
				stop := serve(a, addr, stream)
				defer stop()
				refresh = func() error {
					if err := stream.Update(sim.Visible()); err != nil {
						return err
					}
					return term.Refresh(sim)
				}
			}
			if err := refresh(); err != nil {
				return err
			}
			poll := a.cfg.Timing.Poll
			rowsPerLine := dev.Rows() / a.cfg.Encoder.RowsPerStep
			if rowsPerLine < 1 {
				rowsPerLine = 1
			}
			c := &controller{
				list:        list,
				input:       &script{every: int(dwell / poll), detents: rowsPerLine},
				rowsPerStep: a.cfg.Encoder.RowsPerStep,
				settle:      a.cfg.Timing.Settle,
				pan:         a.cfg.Timing.Pan,
				log:         a.log,
				onChange:    refresh,
			}
			ctx := cmd.Context()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}
			a.log.Debug("simulating", "sim", sim.String(), "font", f.Name)
			return c.run(ctx, poll)
		},
	}
	cmd.Flags().DurationVar(&dwell, "dwell", 3*time.Second, "Time spent on each line")
	cmd.Flags().DurationVar(&duration, "duration", 0, "Stop after this long, 0 to run until interrupted")
	cmd.Flags().StringVar(&addr, "http", "", "Serve the display on this address, e.g. localhost:8080")
	return cmd
}

// serve starts an HTTP server for stream and returns a function stopping
// both.
func serve(a *app, addr string, stream *preview.Stream) func() {
	srv := &http.Server{Addr: addr, Handler: stream}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server failed", "addr", addr, "err", err)
		}
	}()
	a.log.Info("serving display", "url", "http://"+addr+"/")
	return func() {
		// Streams never go idle; end them before shutting down.
		_ = stream.Halt()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// newSimDisplay returns an initialized display backed by a simulator.
func newSimDisplay(cfg *DisplayConfig) (*ssd1306sim.Sim, *ssd1306.Dev, error) {
	opts := cfg.Opts()
	if opts.BufferRows == 0 {
		opts.BufferRows = 64
	}
	sim, err := ssd1306sim.New(opts.W, opts.BufferRows)
	if err != nil {
		return nil, nil, err
	}
	dev, err := ssd1306.New(sim, &opts)
	if err != nil {
		return nil, nil, err
	}
	if err := dev.Init(); err != nil {
		return nil, nil, err
	}
	if cfg.Flip {
		if err := dev.Flip(true); err != nil {
			return nil, nil, err
		}
	}
	return sim, dev, nil
}

// script turns the encoder by detents every every polls.
type script struct {
	every   int
	detents int
	polls   int
	steps   int
}

func (s *script) Poll() int {
	s.polls++
	if s.every > 0 && s.polls%s.every == 0 {
		s.steps += s.detents
		return s.detents
	}
	return 0
}

func (s *script) Steps() int {
	n := s.steps
	s.steps = 0
	return n
}
