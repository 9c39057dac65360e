package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
)

// KeyChord resolves a modifier string such as "Control" or "Mod4-Shift" and a
// keysym name such as "F1" into a modifier mask and the key codes that
// produce the keysym under the current keyboard mapping.
func (c *Connection) KeyChord(modifier, key string) (uint16, []xproto.Keycode, error) {
	mods, codes, err := keybind.ParseString(c.XUtil, joinChord(modifier, key))
	if err != nil {
		return 0, nil, fmt.Errorf("invalid key chord %q: %w", joinChord(modifier, key), err)
	}
	return mods, dedupKeycodes(codes), nil
}

// ButtonChord resolves a modifier string and a pointer button index.
func (c *Connection) ButtonChord(modifier string, button int) (uint16, xproto.Button, error) {
	chord := joinChord(modifier, fmt.Sprint(button))
	mods, btn, err := mousebind.ParseString(c.XUtil, chord)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid button chord %q: %w", chord, err)
	}
	return mods, btn, nil
}

// LockMasks returns every combination of the CapsLock, NumLock and
// ScrollLock modifiers, including the empty one. Grabbing a chord once per
// mask keeps it working while a lock is on.
func (c *Connection) LockMasks() []uint16 {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := c.modMaskForKeysym("Num_Lock")
	scrollLock := c.modMaskForKeysym("Scroll_Lock")

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}
	return lockSubsets(base)
}

func (c *Connection) modMaskForKeysym(keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(c.XUtil, keysym) {
		if mask := keybind.ModGet(c.XUtil, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}

// lockSubsets ORs together every subset of base, starting with 0.
func lockSubsets(base []uint16) []uint16 {
	masks := []uint16{0}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		masks = append(masks, mask)
	}
	return masks
}

func joinChord(modifier, trigger string) string {
	if modifier == "" {
		return trigger
	}
	return modifier + "-" + trigger
}

func dedupKeycodes(codes []xproto.Keycode) []xproto.Keycode {
	seen := make(map[xproto.Keycode]struct{}, len(codes))
	out := make([]xproto.Keycode, 0, len(codes))
	for _, code := range codes {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}
