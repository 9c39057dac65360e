package drag

import (
	"github.com/1broseidon/chordwm/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

// Phase represents whether a drag is in progress
type Phase int

const (
	// PhaseIdle means no button chord is held
	PhaseIdle Phase = iota
	// PhaseDragging means a window follows the pointer until release
	PhaseDragging
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Mode is what a drag does to its window.
type Mode int

const (
	// ModeMove translates the window by the pointer displacement
	ModeMove Mode = iota
	// ModeResize grows or shrinks the window from its top-left corner
	ModeResize
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case ModeMove:
		return "move"
	case ModeResize:
		return "resize"
	default:
		return "unknown"
	}
}

// Point is a pointer position in root window coordinates.
type Point struct {
	X int32
	Y int32
}

// Drag is the state captured by a button press: the window, the pointer
// position at press time and the window geometry at press time. Both halves
// are set together, so a drag never exists without its base geometry.
type Drag struct {
	Window xproto.Window
	Mode   Mode
	Button xproto.Button
	Anchor Point
	Base   x11.Geometry
}

// Apply returns the window geometry for the pointer at p. It depends only on
// the total displacement from the anchor, so returning to the anchor restores
// the base geometry.
func (d Drag) Apply(p Point) x11.Geometry {
	dx := p.X - d.Anchor.X
	dy := p.Y - d.Anchor.Y

	g := d.Base
	switch d.Mode {
	case ModeMove:
		g.X += dx
		g.Y += dy
	case ModeResize:
		// The protocol rejects zero-sized windows.
		g.Width = clampDimension(int64(d.Base.Width) + int64(dx))
		g.Height = clampDimension(int64(d.Base.Height) + int64(dy))
	}
	return g
}

func clampDimension(v int64) uint32 {
	if v < 1 {
		return 1
	}
	if v > int64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(v)
}
