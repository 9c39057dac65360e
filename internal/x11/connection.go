package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/sirupsen/logrus"
)

// Screen describes the default screen read from the connection setup.
type Screen struct {
	Root   xproto.Window
	Width  uint32
	Height uint32
}

// Connection manages the X11 connection and core X resources
type Connection struct {
	conn   *xgb.Conn
	XUtil  *xgbutil.XUtil
	screen Screen
	log    logrus.FieldLogger
	closed bool
}

// Connect establishes a connection to the X11 server. An empty display uses
// the DISPLAY environment variable.
func Connect(display string, log logrus.FieldLogger) (*Connection, error) {
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	screen, err := screenFromSetup(xproto.Setup(conn), conn.DefaultScreen)
	if err != nil {
		conn.Close()
		return nil, err
	}

	xu, err := xgbutil.NewConnXgb(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	// Keyboard mapping is needed to resolve key chords to key codes.
	keybind.Initialize(xu)

	return &Connection{
		conn:   conn,
		XUtil:  xu,
		screen: screen,
		log:    log,
	}, nil
}

// screenFromSetup picks the display's screen out of the setup reply, falling
// back to the first one.
func screenFromSetup(setup *xproto.SetupInfo, index int) (Screen, error) {
	if setup == nil || len(setup.Roots) == 0 {
		return Screen{}, fmt.Errorf("%w: setup reply contains no root screen", ErrProtocol)
	}
	if index < 0 || index >= len(setup.Roots) {
		index = 0
	}
	root := setup.Roots[index]
	return Screen{
		Root:   root.Root,
		Width:  uint32(root.WidthInPixels),
		Height: uint32(root.HeightInPixels),
	}, nil
}

// Screen returns the screen descriptor captured at connect time.
func (c *Connection) Screen() Screen {
	return c.screen
}

// Flush blocks until every request issued so far has been written and
// processed by the server.
func (c *Connection) Flush() error {
	if c.closed {
		return ErrIO
	}
	// A GetInputFocus round trip is the barrier: replies arrive in request order.
	if _, err := xproto.GetInputFocus(c.conn).Reply(); err != nil {
		return fmt.Errorf("%w: flush: %v", ErrIO, err)
	}
	return nil
}

// WaitForEvent blocks until the server delivers the next event. Error replies
// to unchecked requests are logged and skipped.
func (c *Connection) WaitForEvent() (xgb.Event, error) {
	for {
		if c.closed {
			return nil, ErrIO
		}
		ev, xerr := c.conn.WaitForEvent()
		if ev == nil && xerr == nil {
			// xgb reports a closed connection as two nils.
			c.closed = true
			return nil, ErrIO
		}
		if xerr != nil {
			c.log.WithField("error", xerr.Error()).Debug("X server rejected a request")
			continue
		}
		return ev, nil
	}
}

// Close disconnects from the X11 server.
func (c *Connection) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.conn.Close()
}
