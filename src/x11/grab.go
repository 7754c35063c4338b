package x11

import (
	"fmt"
	"log"

	"github.com/jezek/xgb/xproto"

	"screen-region-select/src/gui"
)

const cursorFont = "cursor"

func (d *Display) GrabPointer(mask gui.EventMask, cursor gui.Cursor) error {
	if d.unusable() {
		return errClosed
	}
	cur, err := d.glyphCursor(cursor)
	if err != nil {
		// A missing cursor is cosmetic; grab with the inherited one.
		log.Printf("X11: crosshair cursor unavailable: %v", err)
		cur = xproto.CursorNone
	}

	reply, err := xproto.GrabPointer(d.conn, false, d.root, pointerEventMask(mask),
		xproto.GrabModeAsync, xproto.GrabModeAsync,
		xproto.WindowNone, cur, xproto.TimeCurrentTime).Reply()
	if err != nil {
		return fmt.Errorf("grab pointer: %w", err)
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("grab pointer: %s", grabStatusString(reply.Status))
	}
	return nil
}

func (d *Display) GrabKeyboard() error {
	if d.unusable() {
		return errClosed
	}
	reply, err := xproto.GrabKeyboard(d.conn, false, d.root, xproto.TimeCurrentTime,
		xproto.GrabModeAsync, xproto.GrabModeAsync).Reply()
	if err != nil {
		return fmt.Errorf("grab keyboard: %w", err)
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("grab keyboard: %s", grabStatusString(reply.Status))
	}
	return nil
}

func (d *Display) UngrabPointer() error {
	if d.unusable() {
		return errClosed
	}
	return xproto.UngrabPointerChecked(d.conn, xproto.TimeCurrentTime).Check()
}

func (d *Display) UngrabKeyboard() error {
	if d.unusable() {
		return errClosed
	}
	return xproto.UngrabKeyboardChecked(d.conn, xproto.TimeCurrentTime).Check()
}

// glyphCursor creates (once) a white-on-black cursor from the standard
// cursor font. The mask glyph is always the next index.
func (d *Display) glyphCursor(glyph gui.Cursor) (xproto.Cursor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.cursors[glyph]; ok {
		return c, nil
	}

	font, err := xproto.NewFontId(d.conn)
	if err != nil {
		return 0, err
	}
	if err := xproto.OpenFontChecked(d.conn, font, uint16(len(cursorFont)), cursorFont).Check(); err != nil {
		return 0, fmt.Errorf("open cursor font: %w", err)
	}
	defer xproto.CloseFont(d.conn, font)

	cur, err := xproto.NewCursorId(d.conn)
	if err != nil {
		return 0, err
	}
	err = xproto.CreateGlyphCursorChecked(d.conn, cur, font, font,
		uint16(glyph), uint16(glyph)+1,
		0xffff, 0xffff, 0xffff,
		0, 0, 0).Check()
	if err != nil {
		return 0, fmt.Errorf("create glyph cursor %d: %w", glyph, err)
	}
	d.cursors[glyph] = cur
	return cur, nil
}

func pointerEventMask(mask gui.EventMask) uint16 {
	var m uint16
	if mask&gui.MaskPointerMotion != 0 {
		m |= xproto.EventMaskPointerMotion
	}
	if mask&gui.MaskButtonPress != 0 {
		m |= xproto.EventMaskButtonPress
	}
	if mask&gui.MaskButtonRelease != 0 {
		m |= xproto.EventMaskButtonRelease
	}
	return m
}

func grabStatusString(status byte) string {
	switch status {
	case xproto.GrabStatusAlreadyGrabbed:
		return "already grabbed by another client"
	case xproto.GrabStatusInvalidTime:
		return "invalid time"
	case xproto.GrabStatusNotViewable:
		return "grab window not viewable"
	case xproto.GrabStatusFrozen:
		return "frozen by another grab"
	default:
		return fmt.Sprintf("status %d", status)
	}
}
