// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/GermanBionicSystems/oled/ssd1306"
)

// Config is the content of the oledlist.toml file.
type Config struct {
	// Items are the lines of the list.
	Items []string `toml:"items"`
	// Font is "5x8", "basic", "go" or the path to a TrueType file.
	Font string `toml:"font"`
	// FontSize is the size in points for TrueType fonts.
	FontSize float64 `toml:"font_size"`
	// Gap is the space between glyphs of TrueType fonts.
	Gap int `toml:"gap"`

	Display DisplayConfig `toml:"display"`
	Encoder EncoderConfig `toml:"encoder"`
	Timing  TimingConfig  `toml:"timing"`
}

// DisplayConfig describes how the panel is wired.
type DisplayConfig struct {
	// Bus is "spi" or "i2c".
	Bus string `toml:"bus"`
	// Port is the spireg or i2creg name, empty for the first one.
	Port string `toml:"port"`
	// DC is the data/command pin, SPI only.
	DC string `toml:"dc"`
	// Reset is the optional reset pin.
	Reset string `toml:"reset"`
	// Addr is the I²C address.
	Addr       uint16 `toml:"addr"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	BufferRows int    `toml:"buffer_rows"`
	Contrast   byte   `toml:"contrast"`
	Flip       bool   `toml:"flip"`
	Sequential bool   `toml:"sequential"`
}

// EncoderConfig names the rotary encoder pins. The encoder is disabled when
// either is empty.
type EncoderConfig struct {
	A string `toml:"a"`
	B string `toml:"b"`
	// RowsPerStep is how far one detent scrolls.
	RowsPerStep int `toml:"rows_per_step"`
}

// TimingConfig holds the control loop periods.
type TimingConfig struct {
	// Poll is the encoder sampling and control loop period.
	Poll time.Duration `toml:"poll"`
	// Settle is the delay after the last detent before the list snaps to the
	// nearest line.
	Settle time.Duration `toml:"settle"`
	// Pan is the period of horizontal panning steps.
	Pan time.Duration `toml:"pan"`
}

// DefaultConfig returns the configuration used for missing keys.
func DefaultConfig() Config {
	return Config{
		Items:    []string{"Hello", "periph", "SSD1306"},
		Font:     "5x8",
		FontSize: 12,
		Gap:      1,
		Display: DisplayConfig{
			Bus:        "spi",
			DC:         "GPIO24",
			Addr:       ssd1306.DefaultOpts.Addr,
			Width:      ssd1306.DefaultOpts.W,
			Height:     ssd1306.DefaultOpts.H,
			BufferRows: ssd1306.DefaultOpts.BufferRows,
			Contrast:   ssd1306.DefaultOpts.Contrast,
			Sequential: ssd1306.DefaultOpts.Sequential,
		},
		Encoder: EncoderConfig{
			A:           "GPIO14",
			B:           "GPIO15",
			RowsPerStep: 4,
		},
		Timing: TimingConfig{
			Poll:   time.Millisecond,
			Settle: 300 * time.Millisecond,
			Pan:    30 * time.Millisecond,
		},
	}
}

// LoadConfig reads path over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return Config{}, fmt.Errorf("parsing %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values that cannot be checked by the packages they
// are handed to.
func (c *Config) Validate() error {
	if len(c.Items) == 0 {
		return errors.New("no items")
	}
	switch c.Display.Bus {
	case "spi", "i2c":
	default:
		return fmt.Errorf("unknown bus %q", c.Display.Bus)
	}
	if c.Timing.Poll <= 0 || c.Timing.Pan <= 0 || c.Timing.Settle < 0 {
		return errors.New("timing periods must be positive")
	}
	// The list scrolls through a ring of two screens, which must be the
	// whole display RAM.
	ram := c.Display.BufferRows
	if ram == 0 {
		ram = 64
	}
	if ram != 2*c.Display.Height {
		return fmt.Errorf("height %d needs buffer_rows = %d, got %d", c.Display.Height, 2*c.Display.Height, ram)
	}
	if c.Encoder.RowsPerStep < 1 {
		return fmt.Errorf("invalid rows_per_step %d", c.Encoder.RowsPerStep)
	}
	return nil
}

// Opts returns the display driver options.
func (d *DisplayConfig) Opts() ssd1306.Opts {
	return ssd1306.Opts{
		W:          d.Width,
		H:          d.Height,
		BufferRows: d.BufferRows,
		Sequential: d.Sequential,
		Contrast:   d.Contrast,
		Addr:       d.Addr,
	}
}
