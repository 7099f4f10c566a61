// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rotary decodes a mechanical quadrature rotary encoder wired to two
// GPIO inputs, with the common pin to ground.
//
// The encoder is polled: call Poll often enough to see every transition,
// typically every millisecond, from the same loop that consumes Steps.
// There is no locking; an Encoder belongs to a single goroutine.
package rotary

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// Encoder counts detents of a rotary encoder.
type Encoder struct {
	a, b  gpio.PinIn
	lastA gpio.Level
	lastB gpio.Level
	steps int
}

// New configures a and b as pulled up inputs.
//
// Both contacts are open at a detent so the encoder is assumed to rest
// there.
func New(a, b gpio.PinIn) (*Encoder, error) {
	for _, p := range []gpio.PinIn{a, b} {
		if p == nil {
			return nil, errors.New("rotary: nil pin")
		}
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("rotary: %s: %w", p, err)
		}
	}
	return &Encoder{a: a, b: b, lastA: gpio.High, lastB: gpio.High}, nil
}

func (e *Encoder) String() string {
	return fmt.Sprintf("rotary{%s, %s}", e.a, e.b)
}

// Poll samples both pins and returns the step counted by this sample: +1
// when the encoder reached a detent with B changing last, -1 when A did and
// 0 otherwise.
//
// Samples identical to the previous one are ignored, which filters contact
// bounce that settles back to the same state. When both pins changed since
// the last sample the direction is unknown and nothing is counted.
func (e *Encoder) Poll() int {
	la, lb := e.a.Read(), e.b.Read()
	if la == e.lastA && lb == e.lastB {
		return 0
	}
	aChanged, bChanged := la != e.lastA, lb != e.lastB
	e.lastA, e.lastB = la, lb
	if la != gpio.High || lb != gpio.High || aChanged == bChanged {
		return 0
	}
	step := -1
	if bChanged {
		step = 1
	}
	e.steps += step
	return step
}

// Steps returns the steps counted since the previous call.
func (e *Encoder) Steps() int {
	s := e.steps
	e.steps = 0
	return s
}

// Halt implements conn.Resource.
func (e *Encoder) Halt() error {
	return nil
}
