package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// Window fields carried by a move/resize request.
const maskGeometry uint16 = xproto.ConfigWindowX |
	xproto.ConfigWindowY |
	xproto.ConfigWindowWidth |
	xproto.ConfigWindowHeight

// Geometry is a window position and size. Positions are int16 on the wire and
// dimensions uint16; both are widened here for arithmetic.
type Geometry struct {
	X      int32
	Y      int32
	Width  uint32
	Height uint32
}

// ConfigureRequest is the value mask and value list of a ConfigureWindow
// request, in protocol order.
type ConfigureRequest struct {
	Mask   uint16
	Values []uint32
}

// RaiseRequest restacks a window above all of its siblings.
func RaiseRequest() ConfigureRequest {
	return ConfigureRequest{
		Mask:   xproto.ConfigWindowStackMode,
		Values: []uint32{xproto.StackModeAbove},
	}
}

// MoveResizeRequest sets all four geometry fields at once. Signed positions
// travel as their two's complement bit pattern.
func MoveResizeRequest(g Geometry) ConfigureRequest {
	return ConfigureRequest{
		Mask:   maskGeometry,
		Values: []uint32{uint32(g.X), uint32(g.Y), g.Width, g.Height},
	}
}

// Configure queues a ConfigureWindow request. The request is not checked; a
// rejection shows up as an error reply in the event stream.
func (c *Connection) Configure(win xproto.Window, req ConfigureRequest) {
	xproto.ConfigureWindow(c.conn, win, req.Mask, req.Values)
}

// Geometry fetches the position and size of a window and waits for the reply.
func (c *Connection) Geometry(win xproto.Window) (Geometry, error) {
	if c.closed {
		return Geometry{}, ErrIO
	}
	reply, err := xproto.GetGeometry(c.conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return Geometry{}, classify("GetGeometry", err)
	}
	if reply == nil {
		return Geometry{}, fmt.Errorf("%w: empty GetGeometry reply for window %d", ErrProtocol, win)
	}
	return Geometry{
		X:      int32(reply.X),
		Y:      int32(reply.Y),
		Width:  uint32(reply.Width),
		Height: uint32(reply.Height),
	}, nil
}

// GrabKey registers a passive key grab. With checked set the call waits for
// the server and returns its verdict; otherwise the request is only queued.
func (c *Connection) GrabKey(checked, ownerEvents bool, win xproto.Window, mods uint16,
	key xproto.Keycode, pointerMode, keyboardMode byte) error {
	if !checked {
		xproto.GrabKey(c.conn, ownerEvents, win, mods, key, pointerMode, keyboardMode)
		return nil
	}
	if err := xproto.GrabKeyChecked(c.conn, ownerEvents, win, mods, key,
		pointerMode, keyboardMode).Check(); err != nil {
		return classify("GrabKey", err)
	}
	return nil
}

// GrabButton registers a passive pointer button grab, checked or not.
func (c *Connection) GrabButton(checked, ownerEvents bool, win xproto.Window, eventMask uint16,
	pointerMode, keyboardMode byte, confineTo xproto.Window, cursor xproto.Cursor,
	button byte, mods uint16) error {
	if !checked {
		xproto.GrabButton(c.conn, ownerEvents, win, eventMask, pointerMode, keyboardMode,
			confineTo, cursor, button, mods)
		return nil
	}
	if err := xproto.GrabButtonChecked(c.conn, ownerEvents, win, eventMask, pointerMode,
		keyboardMode, confineTo, cursor, button, mods).Check(); err != nil {
		return classify("GrabButton", err)
	}
	return nil
}
