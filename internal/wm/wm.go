// Package wm wires the connection, the grabs and the drag machine together
// and runs the event loop.
package wm

import (
	"fmt"

	"github.com/1broseidon/chordwm/internal/config"
	"github.com/1broseidon/chordwm/internal/drag"
	"github.com/1broseidon/chordwm/internal/grabs"
	"github.com/1broseidon/chordwm/internal/x11"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/sirupsen/logrus"
)

// EventSource delivers events and flushes queued requests.
type EventSource interface {
	WaitForEvent() (xgb.Event, error)
	Flush() error
}

// Handler consumes one event at a time.
type Handler interface {
	Handle(ev xgb.Event) error
}

// Display is everything the window manager needs from the X connection.
// x11.Connection implements it.
type Display interface {
	EventSource
	grabs.Requester
	drag.Server
	Screen() x11.Screen
	KeyChord(modifier, key string) (uint16, []xproto.Keycode, error)
	ButtonChord(modifier string, button int) (uint16, xproto.Button, error)
	LockMasks() []uint16
}

var _ Display = (*x11.Connection)(nil)

// WM is a configured window manager ready to run.
type WM struct {
	display Display
	machine *drag.Machine
	log     logrus.FieldLogger
}

// New resolves the configured chords, installs the grabs on the root window
// and builds an idle drag machine.
func New(display Display, cfg *config.Config, log logrus.FieldLogger) (*WM, error) {
	modifier, err := cfg.ModifierChord()
	if err != nil {
		return nil, err
	}

	keyMods, keyCodes, err := display.KeyChord(modifier, cfg.RaiseKey)
	if err != nil {
		return nil, err
	}
	if len(keyCodes) == 0 {
		return nil, fmt.Errorf("raise key %q has no key code in the current keymap", cfg.RaiseKey)
	}
	moveMods, moveButton, err := display.ButtonChord(modifier, cfg.MoveButton)
	if err != nil {
		return nil, err
	}
	resizeMods, resizeButton, err := display.ButtonChord(modifier, cfg.ResizeButton)
	if err != nil {
		return nil, err
	}

	specs := make([]grabs.Spec, 0, len(keyCodes)+2)
	for _, code := range keyCodes {
		specs = append(specs, grabs.KeyGrab(code, keyMods))
	}
	specs = append(specs,
		grabs.ButtonGrab(moveButton, moveMods),
		grabs.ButtonGrab(resizeButton, resizeMods),
	)
	if cfg.IgnoreLockMods {
		specs = grabs.WithLockMasks(specs, display.LockMasks())
	}

	screen := display.Screen()
	if err := grabs.Install(display, screen.Root, specs, cfg.VerifyGrabs); err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"grabs":    len(specs),
		"verified": cfg.VerifyGrabs,
	}).Debug("Grabs installed")

	bindings := drag.Bindings{
		RaiseKeys:    keyCodes,
		MoveButton:   moveButton,
		ResizeButton: resizeButton,
	}
	log.WithFields(logrus.Fields{
		"root":   screen.Root,
		"width":  screen.Width,
		"height": screen.Height,
	}).Info("Connected to X server")

	return &WM{
		display: display,
		machine: drag.NewMachine(display, bindings, log),
		log:     log,
	}, nil
}

// Run processes events until the connection fails.
func (w *WM) Run() error {
	return Run(w.display, w.machine)
}

// Run flushes once, then repeatedly waits for an event, hands it to h and
// flushes the requests h issued. It only returns on a fatal error.
func Run(src EventSource, h Handler) error {
	if err := src.Flush(); err != nil {
		return err
	}
	for {
		ev, err := src.WaitForEvent()
		if err != nil {
			return err
		}
		if err := h.Handle(ev); err != nil {
			return err
		}
		if err := src.Flush(); err != nil {
			return err
		}
	}
}
