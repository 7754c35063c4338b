package overlay

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/lucasb-eyer/go-colorful"

	"screen-region-select/src/gui"
	"screen-region-select/src/screen"
	"screen-region-select/src/x11"
)

// Selector defines a synchronous region-selection API.
// The call is blocking and takes over pointer and keyboard until it returns.
// Returns (region, ok, error). If ok is false and err is nil the user made
// no selection (cancelled, too small, or the surface went away).
type Selector interface {
	Select(ctx context.Context) (screen.Region, bool, error)
}

type Options struct {
	Display        string
	RedrawEvery    int
	OutlineColor   colorful.Color
	ClampToDesktop bool
}

// display is what a selection session needs from a connection.
type display interface {
	gui.InputGrabSource
	gui.DrawSurface
	Close()
}

// NewSelector returns a selector that opens a fresh X11 connection for
// every Select call and closes it afterwards.
func NewSelector(opts Options) Selector {
	return &x11Selector{
		opts: opts,
		open: func() (display, error) {
			return x11.Open(x11.Options{Name: opts.Display, OutlineColor: opts.OutlineColor})
		},
		bounds: screen.DesktopBounds,
	}
}

type x11Selector struct {
	opts   Options
	open   func() (display, error)
	bounds func() (image.Rectangle, error)
}

// Select runs one session. Cancelling ctx closes the connection, which ends
// the blocking loop; the server then drops the grab.
func (s *x11Selector) Select(ctx context.Context) (screen.Region, bool, error) {
	d, err := s.open()
	if err != nil {
		return screen.Region{}, false, err
	}
	defer d.Close()

	stop := context.AfterFunc(ctx, d.Close)
	defer stop()

	sel := gui.NewRegionSelector(d, d, gui.Options{RedrawEvery: s.opts.RedrawEvery})
	region, ok, err := sel.Select(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, gui.ErrConnectionLost) {
			return screen.Region{}, false, fmt.Errorf("selection interrupted: %w", ctxErr)
		}
		return screen.Region{}, false, err
	}
	if !ok {
		return screen.Region{}, false, nil
	}

	if s.opts.ClampToDesktop {
		return s.clamp(region)
	}
	return region, true, nil
}

func (s *x11Selector) clamp(region screen.Region) (screen.Region, bool, error) {
	bounds, err := s.bounds()
	if err != nil {
		log.Printf("OVERLAY: desktop bounds unavailable, returning unclamped region: %v", err)
		return region, true, nil
	}
	clamped, inside := screen.Clamp(region, bounds)
	if !inside || clamped.Degenerate() {
		log.Printf("OVERLAY: region %+v falls outside desktop %v", region, bounds)
		return screen.Region{}, false, nil
	}
	if clamped != region {
		log.Printf("OVERLAY: clamped %+v to %+v", region, clamped)
	}
	return clamped, true, nil
}
