// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// oledlist shows a scrolling list of text lines on a SSD1306 OLED display
// driven by a rotary encoder.
//
// Subcommands:
//
//	run      drive the panel and the encoder through periph.io
//	sim      same user interface, rendered in the terminal
//	preview  save the rendered lines as PNG images
//	bake     convert a TrueType font to Go source
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// app is the state shared by the subcommands.
type app struct {
	configPath string
	debug      bool

	cfg Config
	log *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "oledlist",
		Short: "Scrolling text list on a SSD1306 OLED display",
		Example: `  # Try the configuration in the terminal
  oledlist sim -c oledlist.toml

  # Run on a Raspberry Pi with debug logging
  oledlist run -c oledlist.toml --debug`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.log = newLogger(os.Stderr, a.debug)
			slog.SetDefault(a.log)
			if a.configPath == "" {
				a.cfg = DefaultConfig()
				return a.cfg.Validate()
			}
			cfg, err := LoadConfig(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log.Debug("config loaded", "path", a.configPath, "items", len(cfg.Items), "font", cfg.Font)
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "TOML configuration file")
	root.PersistentFlags().BoolVarP(&a.debug, "debug", "d", false, "Enable debug logging")
	root.AddCommand(runCmd(a), simCmd(a), previewCmd(a), bakeCmd(a))
	return root
}

// newLogger returns a tint logger, colored when w is a terminal.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
		if !noColor {
			w = colorable.NewColorable(f)
		}
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	}))
}
