// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// Channel is the command/data transport to the controller.
//
// Parameter bytes following an opcode are part of the command, not data.
// Data only ever refers to display RAM content.
//
// Errors are returned as reported by the underlying bus and are not retried.
type Channel interface {
	SendCommand(opcode byte, params []byte) error
	SendData(p []byte) error
}

// spiChannel is the 4-wire SPI transport. The D/C line is held Low for
// commands and pulled High only for the duration of a data transfer.
type spiChannel struct {
	c  conn.Conn
	dc gpio.PinOut
}

func (s *spiChannel) String() string {
	return fmt.Sprintf("%s, %s", s.c, s.dc)
}

func (s *spiChannel) SendCommand(opcode byte, params []byte) error {
	if err := s.dc.Out(gpio.Low); err != nil {
		return err
	}
	return s.c.Tx(append([]byte{opcode}, params...), nil)
}

func (s *spiChannel) SendData(p []byte) error {
	if err := s.dc.Out(gpio.High); err != nil {
		return err
	}
	if err := s.c.Tx(p, nil); err != nil {
		return err
	}
	return s.dc.Out(gpio.Low)
}

// i2cChannel prefixes every transaction with a control byte telling
// commands and data apart.
type i2cChannel struct {
	c conn.Conn
}

func (i *i2cChannel) String() string {
	return i.c.String()
}

func (i *i2cChannel) SendCommand(opcode byte, params []byte) error {
	return i.c.Tx(append([]byte{i2cCmd, opcode}, params...), nil)
}

func (i *i2cChannel) SendData(p []byte) error {
	return i.c.Tx(append([]byte{i2cData}, p...), nil)
}

const (
	i2cCmd  = 0x00 // I²C transaction has stream of command bytes
	i2cData = 0x40 // I²C transaction has stream of data bytes
)
