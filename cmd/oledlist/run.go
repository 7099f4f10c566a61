// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"time"

	"github.com/GermanBionicSystems/oled/rotary"
	"github.com/GermanBionicSystems/oled/scrolllist"
	"github.com/GermanBionicSystems/oled/ssd1306"
	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

func runCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Drive the display and the rotary encoder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := host.Init()
			if err != nil {
				return fmt.Errorf("failed to initialize periph: %w", err)
			}
			a.log.Debug("periph initialized", "drivers", len(state.Loaded), "failed", len(state.Failed))

			dev, closer, err := openDisplay(&a.cfg.Display)
			if err != nil {
				return err
			}
			defer closer()
			a.log.Info("display ready", "dev", dev.String())

			f, err := loadFont(a.cfg.Font, a.cfg.FontSize, a.cfg.Gap)
			if err != nil {
				return err
			}
			list, err := scrolllist.New(dev, a.cfg.Items, f)
			if err != nil {
				return err
			}

			var input stepper = idle{}
			if a.cfg.Encoder.A != "" && a.cfg.Encoder.B != "" {
				enc, err := openEncoder(&a.cfg.Encoder)
				if err != nil {
					return err
				}
				a.log.Info("encoder ready", "enc", enc.String())
				input = enc
			}
			c := &controller{
				list:        list,
				input:       input,
				rowsPerStep: a.cfg.Encoder.RowsPerStep,
				settle:      a.cfg.Timing.Settle,
				pan:         a.cfg.Timing.Pan,
				log:         a.log,
			}
			err = c.run(cmd.Context(), a.cfg.Timing.Poll)
			if herr := dev.Halt(); err == nil {
				err = herr
			}
			return err
		},
	}
}

// openDisplay opens the configured bus and initializes the display.
func openDisplay(cfg *DisplayConfig) (*ssd1306.Dev, func() error, error) {
	if cfg.Reset != "" {
		if err := reset(cfg.Reset); err != nil {
			return nil, nil, err
		}
	}
	opts := cfg.Opts()
	var dev *ssd1306.Dev
	var closer func() error
	switch cfg.Bus {
	case "i2c":
		b, err := i2creg.Open(cfg.Port)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open I²C bus: %w", err)
		}
		if dev, err = ssd1306.NewI2C(b, &opts); err != nil {
			b.Close()
			return nil, nil, err
		}
		closer = b.Close
	default:
		p, err := spireg.Open(cfg.Port)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open SPI port: %w", err)
		}
		dc := gpioreg.ByName(cfg.DC)
		if dc == nil {
			p.Close()
			return nil, nil, fmt.Errorf("GPIO pin %s not found", cfg.DC)
		}
		if dev, err = ssd1306.NewSPI(p, dc, &opts); err != nil {
			p.Close()
			return nil, nil, err
		}
		closer = p.Close
	}
	if cfg.Flip {
		if err := dev.Flip(true); err != nil {
			closer()
			return nil, nil, err
		}
	}
	return dev, closer, nil
}

// reset pulses the display's RES line low.
func reset(name string) error {
	p := gpioreg.ByName(name)
	if p == nil {
		return fmt.Errorf("GPIO pin %s not found", name)
	}
	if err := p.Out(gpio.Low); err != nil {
		return err
	}
	time.Sleep(10 * time.Millisecond)
	return p.Out(gpio.High)
}

func openEncoder(cfg *EncoderConfig) (*rotary.Encoder, error) {
	pa := gpioreg.ByName(cfg.A)
	if pa == nil {
		return nil, fmt.Errorf("GPIO pin %s not found", cfg.A)
	}
	pb := gpioreg.ByName(cfg.B)
	if pb == nil {
		return nil, fmt.Errorf("GPIO pin %s not found", cfg.B)
	}
	return rotary.New(pa, pb)
}

// idle is the input when no encoder is wired.
type idle struct{}

func (idle) Poll() int  { return 0 }
func (idle) Steps() int { return 0 }
