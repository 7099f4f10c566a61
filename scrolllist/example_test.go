// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package scrolllist_test

import (
	"fmt"
	"log"

	"github.com/GermanBionicSystems/oled/glyph"
	"github.com/GermanBionicSystems/oled/scrolllist"
	"github.com/GermanBionicSystems/oled/ssd1306"
	"github.com/GermanBionicSystems/oled/ssd1306/ssd1306sim"
)

func Example() {
	// Use a simulated controller; on hardware, use ssd1306.NewSPI or
	// ssd1306.NewI2C instead.
	sim, err := ssd1306sim.New(128, 64)
	if err != nil {
		log.Fatal(err)
	}
	dev, err := ssd1306.New(sim, &ssd1306.DefaultOpts)
	if err != nil {
		log.Fatal(err)
	}
	if err := dev.Init(); err != nil {
		log.Fatal(err)
	}

	l, err := scrolllist.New(dev, []string{"alpha", "beta", "gamma"}, glyph.Proportional5x8)
	if err != nil {
		log.Fatal(err)
	}
	// One line and a quarter.
	if err := l.Scroll(40); err != nil {
		log.Fatal(err)
	}
	fmt.Println(l.Current(), l.HomeOffset())

	// Snap back onto the line.
	for {
		home, err := l.Settle()
		if err != nil {
			log.Fatal(err)
		}
		if home {
			break
		}
	}
	fmt.Println(l.Current(), l.State().Offset)
	// Output:
	// 1 8
	// 1 32
}
