package gui

import (
	"errors"

	"screen-region-select/src/screen"
)

var (
	// ErrGrabFailed means exclusive pointer or keyboard ownership could not be acquired.
	ErrGrabFailed = errors.New("input grab failed")
	// ErrConnectionLost means the event source went away mid-session.
	ErrConnectionLost = errors.New("display connection lost")
)

type Button uint8

const (
	ButtonPrimary   Button = 1
	ButtonMiddle    Button = 2
	ButtonSecondary Button = 3
)

type EventKind int

const (
	EventMotion EventKind = iota + 1
	EventButtonPress
	EventButtonRelease
	// EventDestroy reports that the surface being drawn on was destroyed.
	EventDestroy
)

// Event is one input event delivered through the active grab.
// At is the pointer position in root-window coordinates.
type Event struct {
	Kind   EventKind
	Button Button
	At     screen.Point
}

// EventMask selects which pointer events the grab delivers.
type EventMask uint16

const (
	MaskPointerMotion EventMask = 1 << iota
	MaskButtonPress
	MaskButtonRelease
)

// Cursor is a glyph index into the standard X cursor font.
type Cursor uint16

const CursorCrosshair Cursor = 34

// InputGrabSource is the display connection as seen by the selector:
// a blocking event queue plus exclusive input ownership.
type InputGrabSource interface {
	// NextEvent blocks until the next input event arrives. Any error is
	// terminal for the session.
	NextEvent() (Event, error)
	// Sync flushes pending requests and waits for the server to process them.
	Sync() error
	GrabPointer(mask EventMask, cursor Cursor) error
	GrabKeyboard() error
	UngrabPointer() error
	UngrabKeyboard() error
}

// DrawSurface paints 1px rectangle outlines with an inverting function,
// so drawing the same rectangle twice restores the pixels underneath.
type DrawSurface interface {
	XorRectangle(r screen.Region) error
}
