package gui

import (
	"errors"

	"screen-region-select/src/screen"
)

var errQueueDrained = errors.New("event queue drained")

// fakeDisplay is a scripted display connection with a tiny XOR framebuffer.
type fakeDisplay struct {
	events []Event
	calls  []string

	pointerErr  error
	keyboardErr error
	drawErr     error
	ungrabErr   error
	syncErr     error
	panicOnDraw bool

	fb      [][]uint32
	fg      uint32
	visible map[screen.Region]int
	maxSeen int
	draws   int
}

func newFakeDisplay(w, h int, events ...Event) *fakeDisplay {
	fb := make([][]uint32, h)
	for y := range fb {
		fb[y] = make([]uint32, w)
		for x := range fb[y] {
			fb[y][x] = uint32((x*31 + y*17) & 0xffffff)
		}
	}
	return &fakeDisplay{
		events:  events,
		fb:      fb,
		fg:      0xffffff,
		visible: map[screen.Region]int{},
	}
}

func (f *fakeDisplay) NextEvent() (Event, error) {
	if len(f.events) == 0 {
		return Event{}, errQueueDrained
	}
	ev := f.events[0]
	f.events = f.events[1:]
	return ev, nil
}

func (f *fakeDisplay) Sync() error {
	f.calls = append(f.calls, "sync")
	return f.syncErr
}

func (f *fakeDisplay) GrabPointer(mask EventMask, cursor Cursor) error {
	f.calls = append(f.calls, "grab-pointer")
	return f.pointerErr
}

func (f *fakeDisplay) GrabKeyboard() error {
	f.calls = append(f.calls, "grab-keyboard")
	return f.keyboardErr
}

func (f *fakeDisplay) UngrabPointer() error {
	f.calls = append(f.calls, "ungrab-pointer")
	return f.ungrabErr
}

func (f *fakeDisplay) UngrabKeyboard() error {
	f.calls = append(f.calls, "ungrab-keyboard")
	return f.ungrabErr
}

// XorRectangle inverts every pixel of the outline exactly once, the way an
// X server renders a 1px PolyRectangle of size (w+1)x(h+1).
func (f *fakeDisplay) XorRectangle(r screen.Region) error {
	if f.panicOnDraw {
		panic("draw exploded")
	}
	if f.drawErr != nil {
		return f.drawErr
	}
	f.draws++
	for _, p := range outlinePixels(r) {
		if p.Y >= 0 && p.Y < len(f.fb) && p.X >= 0 && p.X < len(f.fb[p.Y]) {
			f.fb[p.Y][p.X] ^= f.fg
		}
	}
	if f.visible[r] == 1 {
		delete(f.visible, r)
	} else {
		f.visible[r] = 1
	}
	if len(f.visible) > f.maxSeen {
		f.maxSeen = len(f.visible)
	}
	return nil
}

func (f *fakeDisplay) snapshot() [][]uint32 {
	out := make([][]uint32, len(f.fb))
	for y := range f.fb {
		out[y] = append([]uint32(nil), f.fb[y]...)
	}
	return out
}

func outlinePixels(r screen.Region) []screen.Point {
	seen := map[screen.Point]bool{}
	var pts []screen.Point
	add := func(x, y int) {
		p := screen.Point{X: x, Y: y}
		if !seen[p] {
			seen[p] = true
			pts = append(pts, p)
		}
	}
	for x := r.X; x <= r.X+r.Width; x++ {
		add(x, r.Y)
		add(x, r.Y+r.Height)
	}
	for y := r.Y; y <= r.Y+r.Height; y++ {
		add(r.X, y)
		add(r.X+r.Width, y)
	}
	return pts
}

func press(b Button, x, y int) Event {
	return Event{Kind: EventButtonPress, Button: b, At: screen.Point{X: x, Y: y}}
}

func release(b Button, x, y int) Event {
	return Event{Kind: EventButtonRelease, Button: b, At: screen.Point{X: x, Y: y}}
}

func motion(x, y int) Event {
	return Event{Kind: EventMotion, At: screen.Point{X: x, Y: y}}
}

// drag produces n motion events on the straight line from (x0,y0) to (x1,y1).
func drag(x0, y0, x1, y1, n int) []Event {
	evs := make([]Event, 0, n)
	for i := 1; i <= n; i++ {
		evs = append(evs, motion(x0+(x1-x0)*i/n, y0+(y1-y0)*i/n))
	}
	return evs
}
