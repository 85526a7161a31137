package emu

import (
	"pocket8/emu/display"
	"pocket8/emu/keypad"
)

// The core never touches hardware. Each peripheral sits behind one of these
// interfaces; on the handheld they are the SPI/GPIO drivers, on a desktop
// they are the development front-end.

// Renderer receives a framebuffer snapshot whenever the display has changed.
// The call must be bounded-latency; a slow driver buffers or drops frames on
// its own side rather than stalling the interpreter.
type Renderer interface {
	Present(frame display.Frame)
}

// Matrix supplies one raw, undebounced reading of the 4x4 key matrix per
// scheduler scan. Row-drive/column-read sequencing lives behind this call.
type Matrix interface {
	ReadRawMatrix() [keypad.NumKeys]bool
}

// Buzzer mirrors the sound timer's active state onto the buzzer/LED pin.
type Buzzer interface {
	SetActive(active bool)
}

// Control is the quit/reset signal source, polled every scheduler iteration
// so a stuck ROM can always be escaped.
type Control interface {
	QuitRequested() bool
}

// Drivers bundles the four peripheral boundaries for a run.
type Drivers struct {
	Renderer Renderer
	Matrix   Matrix
	Buzzer   Buzzer
	Control  Control
}

// NullBuzzer discards buzzer state, for rigs with no sounder fitted.
type NullBuzzer struct{}

func (NullBuzzer) SetActive(bool) {}
