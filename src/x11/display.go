// Package x11 implements the selector's display capabilities on top of an
// X11 connection: the event queue, pointer/keyboard grabs and XOR drawing
// on the root window.
package x11

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/lucasb-eyer/go-colorful"

	"screen-region-select/src/gui"
)

var errClosed = errors.New("x11: connection closed")

type Options struct {
	// Name is the X display, e.g. ":0". Empty means $DISPLAY.
	Name string
	// OutlineColor is allocated in the default colormap and inverted into
	// the XOR foreground. The zero value is black.
	OutlineColor colorful.Color
}

// Display is one connection to the X server, drawing on the root window of
// the default screen.
type Display struct {
	conn   *xgb.Conn
	screen *xproto.ScreenInfo
	root   xproto.Window
	gc     xproto.Gcontext

	mu      sync.Mutex
	cursors map[gui.Cursor]xproto.Cursor

	closed atomic.Bool // Close was called
	lost   atomic.Bool // the server went away
}

var (
	_ gui.InputGrabSource = (*Display)(nil)
	_ gui.DrawSurface     = (*Display)(nil)
)

// Open connects to the X server and prepares the XOR graphics context.
func Open(opts Options) (*Display, error) {
	conn, err := xgb.NewConnDisplay(opts.Name)
	if err != nil {
		return nil, fmt.Errorf("connect to X display %q: %w", opts.Name, err)
	}

	scr := xproto.Setup(conn).DefaultScreen(conn)
	d := &Display{
		conn:    conn,
		screen:  scr,
		root:    scr.Root,
		cursors: map[gui.Cursor]xproto.Cursor{},
	}
	log.Printf("X11: connected, root=0x%x %dx%d", uint32(d.root), scr.WidthInPixels, scr.HeightInPixels)

	if err := d.createGC(opts.OutlineColor); err != nil {
		conn.Close()
		return nil, err
	}
	return d, nil
}

// NextEvent blocks for the next pointer, button or destroy event. Other
// events (key presses delivered by the keyboard grab, for instance) are
// skipped. Protocol errors from unchecked requests are logged, not fatal.
func (d *Display) NextEvent() (gui.Event, error) {
	for {
		ev, xerr := d.conn.WaitForEvent()
		if ev == nil && xerr == nil {
			d.lost.Store(true)
			return gui.Event{}, errClosed
		}
		if xerr != nil {
			log.Printf("X11: protocol error: %v", xerr)
			continue
		}
		if e, ok := translateEvent(ev); ok {
			return e, nil
		}
	}
}

// Sync makes a round trip so every request sent so far has been processed.
func (d *Display) Sync() error {
	if d.unusable() {
		return errClosed
	}
	d.conn.Sync()
	return nil
}

// Close frees the server-side resources and drops the connection. The
// server releases any grab still held. Safe to call more than once and
// from another goroutine while NextEvent is blocked.
func (d *Display) Close() {
	if !d.closed.CompareAndSwap(false, true) {
		return
	}
	if !d.lost.Load() {
		d.mu.Lock()
		for _, c := range d.cursors {
			xproto.FreeCursor(d.conn, c)
		}
		d.cursors = nil
		d.mu.Unlock()
		xproto.FreeGC(d.conn, d.gc)
	}
	d.conn.Close()
	log.Printf("X11: connection closed")
}

func (d *Display) unusable() bool {
	return d.closed.Load() || d.lost.Load()
}
