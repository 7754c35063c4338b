package x11

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"screen-region-select/src/gui"
	"screen-region-select/src/screen"
)

func translateEvent(ev xgb.Event) (gui.Event, bool) {
	switch e := ev.(type) {
	case xproto.ButtonPressEvent:
		return gui.Event{
			Kind:   gui.EventButtonPress,
			Button: gui.Button(e.Detail),
			At:     rootPoint(e.RootX, e.RootY),
		}, true
	case xproto.ButtonReleaseEvent:
		return gui.Event{
			Kind:   gui.EventButtonRelease,
			Button: gui.Button(e.Detail),
			At:     rootPoint(e.RootX, e.RootY),
		}, true
	case xproto.MotionNotifyEvent:
		return gui.Event{Kind: gui.EventMotion, At: rootPoint(e.RootX, e.RootY)}, true
	case xproto.DestroyNotifyEvent:
		return gui.Event{Kind: gui.EventDestroy}, true
	}
	return gui.Event{}, false
}

func rootPoint(x, y int16) screen.Point {
	return screen.Point{X: int(x), Y: int(y)}
}
