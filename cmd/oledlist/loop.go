// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/GermanBionicSystems/oled/scrolllist"
)

// stepper is a source of encoder detents.
type stepper interface {
	// Poll samples the input; it is called every loop period.
	Poll() int
	// Steps returns the detents counted since the previous call.
	Steps() int
}

// controller moves the list in response to the encoder: scroll while it
// turns, snap to the nearest line once it rests, then pan long lines.
type controller struct {
	list        *scrolllist.List
	input       stepper
	rowsPerStep int
	settle      time.Duration
	pan         time.Duration
	log         *slog.Logger

	lastMove time.Time
	lastPan  time.Time
	current  int
	// onChange is called after every tick that changed what is shown.
	onChange func() error
}

// tick runs one loop iteration at time now.
func (c *controller) tick(now time.Time) error {
	changed := false
	c.input.Poll()
	if steps := c.input.Steps(); steps != 0 {
		c.log.Debug("scroll", "steps", steps)
		if err := c.list.Scroll(steps * c.rowsPerStep); err != nil {
			return err
		}
		c.lastMove = now
		changed = true
	} else if now.Sub(c.lastMove) >= c.settle {
		home, err := c.list.Settle()
		if err != nil {
			return err
		}
		if !home {
			changed = true
		} else if now.Sub(c.lastPan) >= c.pan {
			c.lastPan = now
			before := c.list.State().PanOffset
			if err := c.list.AutoPan(); err != nil {
				return err
			}
			changed = c.list.State().PanOffset != before
		}
	}
	if n := c.list.Current(); n != c.current && c.list.HomeOffset() == 0 {
		c.current = n
		c.log.Info("selected", "index", n, "item", c.list.Item(n))
	}
	if changed && c.onChange != nil {
		return c.onChange()
	}
	return nil
}

// run calls tick every period until ctx is done.
func (c *controller) run(ctx context.Context, period time.Duration) error {
	t := time.NewTicker(period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			if err := c.tick(now); err != nil {
				return err
			}
		}
	}
}
