package gree

import (
	"fmt"
	"strings"
)

const (
	// Fixed flags present in every first word
	flagsWord0 uint32 = 0x50000000
	// Toggled instead of writing the health bit when power is off
	powerOffToggle uint32 = 0x80000000
)

// Bit positions before reversal
const (
	shiftPower       = 3
	shiftFan         = 4
	shiftSwing       = 6
	shiftTemp        = 8
	shiftTurbo       = 20
	shiftDisplay     = 21
	shiftHealth      = 22
	shiftXFan        = 23
	shiftDisplayMode = 8
	shiftCheck       = 28
)

// Frame is the two 32-bit protocol words of one command, as sent
type Frame [2]uint32

// FormatBits renders n as 32 ones and zeros, most significant bit first
func FormatBits(n uint32) string {
	return fmt.Sprintf("%032b", n)
}

// String renders both words on their own line
func (f Frame) String() string {
	return strings.Join([]string{FormatBits(f[0]), FormatBits(f[1])}, "\n")
}

// Bits encodes the current settings into the protocol frame. The result is a
// pure function of the controller state and is recomputed on every call.
func (c *Controller) Bits() Frame {
	var b Frame
	c.encodeFields(&b)
	c.encodePower(&b)

	b[0] = ReverseBits(b[0])
	b[1] = ReverseBits(b[1])
	return b
}

// encodeFields lays the settings out most significant bit first. Nothing is
// masked: out of range values bleed into neighbouring bits the same way the
// stock remote firmware does.
func (c *Controller) encodeFields(b *Frame) {
	mode := uint32(c.mode)
	temp := uint32(c.Temperature())

	b[0] |= flagsWord0
	b[0] |= mode
	b[0] |= b2u(c.power) << shiftPower
	b[0] |= uint32(c.FanSpeed()) << shiftFan

	if c.Louver().Swing() {
		b[0] |= 1 << shiftSwing
	}
	b[1] |= uint32(c.Louver())

	b[0] |= (temp - 16) << shiftTemp
	b[1] |= ((temp + mode + 2) % 16) << shiftCheck

	b[0] |= b2u(c.Turbo()) << shiftTurbo
	b[0] |= b2u(c.Display()) << shiftDisplay
	b[0] |= b2u(c.XFan()) << shiftXFan
	b[1] |= uint32(c.DisplayMode()) << shiftDisplayMode
}

// encodePower is the one branch that depends on power. With power on the
// health bit is written; with power off it is skipped and the top flag bit is
// toggled instead.
func (c *Controller) encodePower(b *Frame) {
	if c.power {
		b[0] |= b2u(c.Health()) << shiftHealth
	} else {
		b[0] ^= powerOffToggle
	}
}

// ReverseBits mirrors the bit order of n
func ReverseBits(n uint32) uint32 {
	n = ((n >> 1) & 0x55555555) | ((n & 0x55555555) << 1)
	n = ((n >> 2) & 0x33333333) | ((n & 0x33333333) << 2)
	n = ((n >> 4) & 0x0F0F0F0F) | ((n & 0x0F0F0F0F) << 4)
	n = ((n >> 8) & 0x00FF00FF) | ((n & 0x00FF00FF) << 8)
	n = (n >> 16) | (n << 16)
	return n
}

func b2u(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
