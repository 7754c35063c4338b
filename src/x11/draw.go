package x11

import (
	"fmt"

	"github.com/jezek/xgb/xproto"
	"github.com/lucasb-eyer/go-colorful"

	"screen-region-select/src/screen"
)

const gcMask = xproto.GcFunction | xproto.GcForeground | xproto.GcBackground |
	xproto.GcLineWidth | xproto.GcLineStyle | xproto.GcCapStyle |
	xproto.GcJoinStyle | xproto.GcFillStyle | xproto.GcFillRule |
	xproto.GcSubwindowMode | xproto.GcGraphicsExposures

func (d *Display) createGC(outline colorful.Color) error {
	r, g, b := colorChannels(outline)
	reply, err := xproto.AllocColor(d.conn, d.screen.DefaultColormap, r, g, b).Reply()
	if err != nil {
		return fmt.Errorf("allocate outline color: %w", err)
	}

	gc, err := xproto.NewGcontextId(d.conn)
	if err != nil {
		return fmt.Errorf("allocate graphics context id: %w", err)
	}

	// Values follow the bit order of gcMask.
	values := []uint32{
		xproto.GxXor,
		xorForeground(reply.Pixel),
		d.screen.BlackPixel,
		1,
		xproto.LineStyleSolid,
		xproto.CapStyleButt,
		xproto.JoinStyleMiter,
		xproto.FillStyleOpaqueStippled,
		xproto.FillRuleWinding,
		xproto.SubwindowModeIncludeInferiors,
		0,
	}
	if err := xproto.CreateGCChecked(d.conn, gc, xproto.Drawable(d.root), gcMask, values).Check(); err != nil {
		return fmt.Errorf("create graphics context: %w", err)
	}
	d.gc = gc
	return nil
}

// XorRectangle draws a 1px outline of r on the root window, including
// whatever windows cover it. Drawing the same r again erases it.
func (d *Display) XorRectangle(r screen.Region) error {
	if d.unusable() {
		return errClosed
	}
	xproto.PolyRectangle(d.conn, xproto.Drawable(d.root), d.gc, []xproto.Rectangle{toXRectangle(r)})
	return nil
}

func toXRectangle(r screen.Region) xproto.Rectangle {
	return xproto.Rectangle{
		X:      int16(r.X),
		Y:      int16(r.Y),
		Width:  uint16(r.Width),
		Height: uint16(r.Height),
	}
}

// xorForeground turns an allocated pixel into the XOR operand: black
// becomes all-ones, which inverts whatever is underneath.
func xorForeground(pixel uint32) uint32 {
	return pixel ^ 0xffffff
}

// colorChannels scales a color to the 16-bit channels X expects.
func colorChannels(c colorful.Color) (uint16, uint16, uint16) {
	r, g, b := c.Clamped().RGB255()
	return uint16(r) * 0x101, uint16(g) * 0x101, uint16(b) * 0x101
}
