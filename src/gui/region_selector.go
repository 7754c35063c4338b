package gui

import (
	"context"
	"fmt"
	"log"

	"screen-region-select/src/screen"
)

// DefaultRedrawEvery is the motion coalescing factor: the outline is redrawn
// on every Nth motion event only.
const DefaultRedrawEvery = 10

const grabMask = MaskPointerMotion | MaskButtonPress | MaskButtonRelease

type Options struct {
	RedrawEvery int
}

// RegionSelector runs interactive rubber-band selections against one
// display connection. It is not safe for concurrent use.
type RegionSelector struct {
	src         InputGrabSource
	surface     DrawSurface
	redrawEvery int
}

func NewRegionSelector(src InputGrabSource, surface DrawSurface, opts Options) *RegionSelector {
	every := opts.RedrawEvery
	if every <= 0 {
		every = DefaultRedrawEvery
	}
	return &RegionSelector{src: src, surface: surface, redrawEvery: every}
}

type dragState struct {
	active    bool
	anchor    screen.Point
	lastDrawn *screen.Point
	moves     int
}

// Select grabs input and blocks until the user finishes a drag. ok is false
// when the user cancelled with the secondary button, the drag was one pixel
// or less in either direction, or the surface was destroyed. The grab is
// released before Select returns on every path.
func (s *RegionSelector) Select(ctx context.Context) (region screen.Region, ok bool, err error) {
	if err := ctx.Err(); err != nil {
		return screen.Region{}, false, err
	}

	grab, err := AcquireGrab(s.src, grabMask, CursorCrosshair)
	if err != nil {
		log.Printf("SELECT: %v", err)
		return screen.Region{}, false, err
	}
	defer func() {
		if rerr := grab.Release(); rerr != nil {
			log.Printf("SELECT: failed to release input grab: %v", rerr)
			if err == nil {
				region, ok, err = screen.Region{}, false, fmt.Errorf("release input grab: %w", rerr)
			}
		}
	}()

	r, done, err := s.track(grab)
	if err != nil {
		return screen.Region{}, false, err
	}

	if err := grab.Release(); err != nil {
		return screen.Region{}, false, fmt.Errorf("release input grab: %w", err)
	}

	if !done {
		return screen.Region{}, false, nil
	}
	if r.Degenerate() {
		log.Printf("SELECT: selection too small (%dx%d), ignoring", r.Width, r.Height)
		return screen.Region{}, false, nil
	}
	log.Printf("SELECT: selected %+v", r)
	return r, true, nil
}

// track runs the event loop. done is false when the gesture ended without
// producing a rectangle.
func (s *RegionSelector) track(grab *Grab) (screen.Region, bool, error) {
	var drag dragState
	for {
		ev, err := s.src.NextEvent()
		if err != nil {
			grab.abandon()
			return screen.Region{}, false, fmt.Errorf("%w: %w", ErrConnectionLost, err)
		}

		switch ev.Kind {
		case EventDestroy:
			log.Printf("SELECT: drawing surface destroyed, aborting")
			return screen.Region{}, false, s.erase(&drag)

		case EventButtonPress:
			switch ev.Button {
			case ButtonPrimary:
				if drag.active {
					continue
				}
				drag = dragState{active: true, anchor: ev.At}
				log.Printf("SELECT: anchor at (%d, %d)", ev.At.X, ev.At.Y)
			case ButtonSecondary:
				log.Printf("SELECT: cancelled with secondary button")
				return screen.Region{}, false, s.erase(&drag)
			}

		case EventMotion:
			if !drag.active {
				continue
			}
			drag.moves++
			if drag.moves%s.redrawEvery != 0 {
				continue
			}
			if err := s.erase(&drag); err != nil {
				return screen.Region{}, false, err
			}
			at := ev.At
			if err := s.surface.XorRectangle(screen.Normalize(drag.anchor, at)); err != nil {
				return screen.Region{}, false, fmt.Errorf("draw outline: %w", err)
			}
			drag.lastDrawn = &at

		case EventButtonRelease:
			if err := s.erase(&drag); err != nil {
				return screen.Region{}, false, err
			}
			if !drag.active {
				log.Printf("SELECT: button released without a drag in progress")
				return screen.Region{}, false, nil
			}
			return screen.Normalize(drag.anchor, ev.At), true, nil
		}
	}
}

// erase removes the visible outline, if any, by drawing it again with the
// exact corners it was drawn with.
func (s *RegionSelector) erase(drag *dragState) error {
	if drag.lastDrawn == nil {
		return nil
	}
	r := screen.Normalize(drag.anchor, *drag.lastDrawn)
	drag.lastDrawn = nil
	if err := s.surface.XorRectangle(r); err != nil {
		return fmt.Errorf("erase outline: %w", err)
	}
	return nil
}
