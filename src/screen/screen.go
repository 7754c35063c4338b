package screen

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// Region is a normalized screen rectangle in root-window coordinates.
// Width and Height are never negative; build one with Normalize.
type Region struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

type Point struct {
	X int
	Y int
}

// Normalize returns the rectangle spanned by two arbitrary corners.
// The result does not depend on the order of a and b.
func Normalize(a, b Point) Region {
	start := Point{X: min(a.X, b.X), Y: min(a.Y, b.Y)}
	end := Point{X: max(a.X, b.X), Y: max(a.Y, b.Y)}
	return Region{
		X:      start.X,
		Y:      start.Y,
		Width:  end.X - start.X,
		Height: end.Y - start.Y,
	}
}

// Degenerate reports whether the region is too thin to count as a selection.
func (r Region) Degenerate() bool {
	return r.Width <= 1 || r.Height <= 1
}

func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func (r Region) String() string {
	return fmt.Sprintf("%d %d %d %d", r.X, r.Y, r.Width, r.Height)
}

// DesktopBounds returns the union of all active display bounds, i.e. the
// single coordinate space the selector works in.
func DesktopBounds() (image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return image.Rectangle{}, fmt.Errorf("no active displays found")
	}
	union := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		union = union.Union(screenshot.GetDisplayBounds(i))
	}
	return union, nil
}

// Clamp restricts r to bounds. The second result is false when nothing
// of r lies inside bounds.
func Clamp(r Region, bounds image.Rectangle) (Region, bool) {
	in := r.Rect().Intersect(bounds)
	if in.Empty() {
		return Region{}, false
	}
	return Region{X: in.Min.X, Y: in.Min.Y, Width: in.Dx(), Height: in.Dy()}, true
}
