package gui

import (
	"fmt"
	"log"

	"github.com/hashicorp/go-multierror"
)

// Grab is exclusive ownership of pointer and keyboard for one session.
// Release is idempotent, so callers defer it and may also call it early.
type Grab struct {
	src      InputGrabSource
	pointer  bool
	keyboard bool
	released bool
}

// AcquireGrab takes the pointer grab and then the keyboard grab. If either
// fails, whatever was taken is given back and the error wraps ErrGrabFailed.
func AcquireGrab(src InputGrabSource, mask EventMask, cursor Cursor) (*Grab, error) {
	g := &Grab{src: src}

	if err := src.GrabPointer(mask, cursor); err != nil {
		return nil, fmt.Errorf("%w: pointer: %w", ErrGrabFailed, err)
	}
	g.pointer = true

	if err := src.GrabKeyboard(); err != nil {
		if rerr := g.Release(); rerr != nil {
			log.Printf("GRAB: rollback after keyboard grab failure: %v", rerr)
		}
		return nil, fmt.Errorf("%w: keyboard: %w", ErrGrabFailed, err)
	}
	g.keyboard = true

	log.Printf("GRAB: pointer and keyboard acquired")
	return g, nil
}

// Release gives up the keyboard grab, then the pointer grab, then syncs
// the connection so the server has processed both before we return.
func (g *Grab) Release() error {
	if g == nil || g.released {
		return nil
	}
	g.released = true

	var result *multierror.Error
	if g.keyboard {
		if err := g.src.UngrabKeyboard(); err != nil {
			result = multierror.Append(result, fmt.Errorf("ungrab keyboard: %w", err))
		}
	}
	if g.pointer {
		if err := g.src.UngrabPointer(); err != nil {
			result = multierror.Append(result, fmt.Errorf("ungrab pointer: %w", err))
		}
	}
	if err := g.src.Sync(); err != nil {
		result = multierror.Append(result, fmt.Errorf("sync: %w", err))
	}

	if err := result.ErrorOrNil(); err != nil {
		return err
	}
	log.Printf("GRAB: released")
	return nil
}

// abandon marks the grab released without talking to the server. Used when
// the connection is gone and the server has already dropped the grab.
func (g *Grab) abandon() {
	if g != nil {
		g.released = true
	}
}
