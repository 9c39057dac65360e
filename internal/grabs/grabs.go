// Package grabs installs the passive key and button grabs on the root window
// that route the window manager's chords to this client.
package grabs

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/hashicorp/go-multierror"
)

// ErrGrabRejected is returned by a verified install when the server refused
// at least one grab, usually because another client holds the same chord.
var ErrGrabRejected = errors.New("grab rejected by X server")

// Pointer events delivered while a button grab is active.
const buttonEventMask uint16 = xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion

// Kind selects the grab request a Spec turns into.
type Kind int

const (
	// KindKey is a GrabKey request
	KindKey Kind = iota
	// KindButton is a GrabButton request
	KindButton
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindKey:
		return "key"
	case KindButton:
		return "button"
	default:
		return "unknown"
	}
}

// Spec describes a single passive grab.
type Spec struct {
	Kind         Kind
	Key          xproto.Keycode // KindKey only
	Button       xproto.Button  // KindButton only
	Mods         uint16
	OwnerEvents  bool
	EventMask    uint16 // KindButton only
	PointerMode  byte
	KeyboardMode byte
}

// KeyGrab returns an owner-events, fully asynchronous key grab.
func KeyGrab(code xproto.Keycode, mods uint16) Spec {
	return Spec{
		Kind:         KindKey,
		Key:          code,
		Mods:         mods,
		OwnerEvents:  true,
		PointerMode:  xproto.GrabModeAsync,
		KeyboardMode: xproto.GrabModeAsync,
	}
}

// ButtonGrab returns an owner-events, fully asynchronous button grab that
// also reports pointer motion while the button is held.
func ButtonGrab(button xproto.Button, mods uint16) Spec {
	return Spec{
		Kind:         KindButton,
		Button:       button,
		Mods:         mods,
		OwnerEvents:  true,
		EventMask:    buttonEventMask,
		PointerMode:  xproto.GrabModeAsync,
		KeyboardMode: xproto.GrabModeAsync,
	}
}

func (s Spec) String() string {
	if s.Kind == KindKey {
		return fmt.Sprintf("key %d mods %#x", s.Key, s.Mods)
	}
	return fmt.Sprintf("button %d mods %#x", s.Button, s.Mods)
}

// WithLockMasks returns one copy of every spec per lock mask, with the mask
// ORed into its modifiers. Masks should include 0 to keep the plain chord.
func WithLockMasks(specs []Spec, masks []uint16) []Spec {
	if len(masks) == 0 {
		return specs
	}
	out := make([]Spec, 0, len(specs)*len(masks))
	for _, spec := range specs {
		for _, mask := range masks {
			s := spec
			s.Mods |= mask
			out = append(out, s)
		}
	}
	return out
}

// Requester issues grab requests. x11.Connection implements it.
type Requester interface {
	GrabKey(checked, ownerEvents bool, win xproto.Window, mods uint16,
		key xproto.Keycode, pointerMode, keyboardMode byte) error
	GrabButton(checked, ownerEvents bool, win xproto.Window, eventMask uint16,
		pointerMode, keyboardMode byte, confineTo xproto.Window, cursor xproto.Cursor,
		button byte, mods uint16) error
}

// Install registers every spec on root. Without verify the requests are only
// queued and failures go unnoticed. With verify each grab is checked and all
// rejections are reported together, wrapped in ErrGrabRejected.
func Install(r Requester, root xproto.Window, specs []Spec, verify bool) error {
	var result *multierror.Error
	for _, spec := range specs {
		if err := install(r, root, spec, verify); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", spec, err))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %v", ErrGrabRejected, err)
	}
	return nil
}

func install(r Requester, root xproto.Window, spec Spec, verify bool) error {
	switch spec.Kind {
	case KindKey:
		return r.GrabKey(verify, spec.OwnerEvents, root, spec.Mods, spec.Key,
			spec.PointerMode, spec.KeyboardMode)
	case KindButton:
		return r.GrabButton(verify, spec.OwnerEvents, root, spec.EventMask,
			spec.PointerMode, spec.KeyboardMode, xproto.WindowNone, xproto.CursorNone,
			byte(spec.Button), spec.Mods)
	default:
		return fmt.Errorf("unknown grab kind %d", spec.Kind)
	}
}
