// Package drag turns grabbed key and button events into raise, move and
// resize requests.
package drag

import (
	"errors"
	"fmt"

	"github.com/1broseidon/chordwm/internal/x11"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/sirupsen/logrus"
)

// Server is the part of the X connection the machine talks to.
type Server interface {
	// Geometry waits for the server's answer to GetGeometry.
	Geometry(win xproto.Window) (x11.Geometry, error)
	// Configure queues a ConfigureWindow request.
	Configure(win xproto.Window, req x11.ConfigureRequest)
}

// Bindings maps grabbed keys and buttons to actions.
type Bindings struct {
	RaiseKeys    []xproto.Keycode
	MoveButton   xproto.Button
	ResizeButton xproto.Button
}

// DefaultBindings are F1 on a standard keymap, left button and right button.
func DefaultBindings() Bindings {
	return Bindings{
		RaiseKeys:    []xproto.Keycode{67},
		MoveButton:   1,
		ResizeButton: 3,
	}
}

func (b Bindings) isRaiseKey(code xproto.Keycode) bool {
	for _, k := range b.RaiseKeys {
		if k == code {
			return true
		}
	}
	return false
}

func (b Bindings) modeFor(button xproto.Button) (Mode, bool) {
	switch button {
	case b.MoveButton:
		return ModeMove, true
	case b.ResizeButton:
		return ModeResize, true
	default:
		return 0, false
	}
}

// Machine is the drag state machine. It is not safe for concurrent use; the
// event loop owns it.
type Machine struct {
	server   Server
	bindings Bindings
	log      logrus.FieldLogger

	// nil while idle
	drag *Drag
}

// NewMachine creates an idle machine.
func NewMachine(server Server, bindings Bindings, log logrus.FieldLogger) *Machine {
	return &Machine{
		server:   server,
		bindings: bindings,
		log:      log,
	}
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	if m.drag == nil {
		return PhaseIdle
	}
	return PhaseDragging
}

// Current returns the active drag, if any.
func (m *Machine) Current() (Drag, bool) {
	if m.drag == nil {
		return Drag{}, false
	}
	return *m.drag, true
}

// Handle processes a single event. Only failures of the connection itself are
// returned; events that do not fit the current phase are logged and dropped.
func (m *Machine) Handle(ev xgb.Event) error {
	switch ev := ev.(type) {
	case xproto.KeyPressEvent:
		m.keyPress(ev)
	case xproto.ButtonPressEvent:
		return m.buttonPress(ev)
	case xproto.MotionNotifyEvent:
		m.motion(ev)
	case xproto.ButtonReleaseEvent:
		m.buttonRelease(ev)
	}
	return nil
}

func (m *Machine) keyPress(ev xproto.KeyPressEvent) {
	if !m.bindings.isRaiseKey(ev.Detail) {
		return
	}
	if ev.Child == xproto.WindowNone {
		m.log.Debug("Raise chord over the root window, nothing to raise")
		return
	}
	m.server.Configure(ev.Child, x11.RaiseRequest())
	m.log.WithField("window", ev.Child).Debug("Raised window")
}

func (m *Machine) buttonPress(ev xproto.ButtonPressEvent) error {
	log := m.log.WithFields(logrus.Fields{"window": ev.Child, "button": ev.Detail})

	if m.drag != nil {
		log.WithField("dragging", m.drag.Window).Warn("Button press during an active drag, ignoring")
		return nil
	}
	mode, ok := m.bindings.modeFor(ev.Detail)
	if !ok {
		log.Debug("Press on an unbound button, ignoring")
		return nil
	}
	if ev.Child == xproto.WindowNone {
		log.Debug("Press over the root window, nothing to drag")
		return nil
	}

	geom, err := m.server.Geometry(ev.Child)
	if err != nil {
		var reqErr *x11.RequestError
		if errors.As(err, &reqErr) {
			log.WithError(err).Warn("Could not read window geometry, drag not started")
			return nil
		}
		return fmt.Errorf("start drag on window %d: %w", ev.Child, err)
	}

	m.drag = &Drag{
		Window: ev.Child,
		Mode:   mode,
		Button: ev.Detail,
		Anchor: Point{X: int32(ev.RootX), Y: int32(ev.RootY)},
		Base:   geom,
	}
	log.WithFields(logrus.Fields{
		"mode":   mode,
		"x":      geom.X,
		"y":      geom.Y,
		"width":  geom.Width,
		"height": geom.Height,
	}).Debug("Drag started")
	return nil
}

func (m *Machine) motion(ev xproto.MotionNotifyEvent) {
	if m.drag == nil {
		m.log.Debug("Motion without an active drag, ignoring")
		return
	}
	g := m.drag.Apply(Point{X: int32(ev.RootX), Y: int32(ev.RootY)})
	m.server.Configure(m.drag.Window, x11.MoveResizeRequest(g))
}

func (m *Machine) buttonRelease(ev xproto.ButtonReleaseEvent) {
	if m.drag == nil {
		m.log.WithField("button", ev.Detail).Debug("Release without an active drag, ignoring")
		return
	}
	m.log.WithFields(logrus.Fields{
		"window": m.drag.Window,
		"mode":   m.drag.Mode,
	}).Debug("Drag finished")
	m.drag = nil
}
