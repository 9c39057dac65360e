package wm

import (
	"errors"
	"testing"

	"github.com/1broseidon/chordwm/internal/config"
	"github.com/1broseidon/chordwm/internal/drag"
	"github.com/1broseidon/chordwm/internal/grabs"
	"github.com/1broseidon/chordwm/internal/x11"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	root   = xproto.Window(0x1e1)
	client = xproto.Window(0x3a00007)
)

type grabCall struct {
	checked bool
	key     xproto.Keycode
	button  byte
	mods    uint16
	mask    uint16
}

type fakeDisplay struct {
	events     []xgb.Event
	flushes    int
	grabs      []grabCall
	grabErr    error
	configured []x11.ConfigureRequest
	keyCodes   []xproto.Keycode
}

func newFakeDisplay(events ...xgb.Event) *fakeDisplay {
	return &fakeDisplay{events: events, keyCodes: []xproto.Keycode{67}}
}

func (f *fakeDisplay) WaitForEvent() (xgb.Event, error) {
	if len(f.events) == 0 {
		return nil, x11.ErrIO
	}
	ev := f.events[0]
	f.events = f.events[1:]
	return ev, nil
}

func (f *fakeDisplay) Flush() error {
	f.flushes++
	return nil
}

func (f *fakeDisplay) GrabKey(checked, _ bool, _ xproto.Window, mods uint16,
	key xproto.Keycode, _, _ byte) error {
	f.grabs = append(f.grabs, grabCall{checked: checked, key: key, mods: mods})
	if checked {
		return f.grabErr
	}
	return nil
}

func (f *fakeDisplay) GrabButton(checked, _ bool, _ xproto.Window, eventMask uint16,
	_, _ byte, _ xproto.Window, _ xproto.Cursor, button byte, mods uint16) error {
	f.grabs = append(f.grabs, grabCall{checked: checked, button: button, mods: mods, mask: eventMask})
	if checked {
		return f.grabErr
	}
	return nil
}

func (f *fakeDisplay) Geometry(xproto.Window) (x11.Geometry, error) {
	return x11.Geometry{X: 100, Y: 100, Width: 50, Height: 50}, nil
}

func (f *fakeDisplay) Configure(_ xproto.Window, req x11.ConfigureRequest) {
	f.configured = append(f.configured, req)
}

func (f *fakeDisplay) Screen() x11.Screen {
	return x11.Screen{Root: root, Width: 1920, Height: 1080}
}

func (f *fakeDisplay) KeyChord(modifier, key string) (uint16, []xproto.Keycode, error) {
	if modifier != "Control" || key != "F1" {
		return 0, nil, errors.New("unexpected chord")
	}
	return xproto.ModMaskControl, f.keyCodes, nil
}

func (f *fakeDisplay) ButtonChord(modifier string, button int) (uint16, xproto.Button, error) {
	if modifier != "Control" {
		return 0, 0, errors.New("unexpected chord")
	}
	return xproto.ModMaskControl, xproto.Button(button), nil
}

func (f *fakeDisplay) LockMasks() []uint16 {
	return []uint16{0, xproto.ModMaskLock}
}

func TestNew_InstallsDefaultGrabs(t *testing.T) {
	d := newFakeDisplay()
	logger, hook := test.NewNullLogger()

	_, err := New(d, config.DefaultConfig(), logger)
	require.NoError(t, err)

	mask := uint16(xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease | xproto.EventMaskPointerMotion)
	assert.Equal(t, []grabCall{
		{key: 67, mods: xproto.ModMaskControl},
		{button: 1, mods: xproto.ModMaskControl, mask: mask},
		{button: 3, mods: xproto.ModMaskControl, mask: mask},
	}, d.grabs)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "Connected to X server", hook.LastEntry().Message)
}

func TestNew_LockMasksMultiplyGrabs(t *testing.T) {
	d := newFakeDisplay()
	logger, _ := test.NewNullLogger()
	cfg := config.DefaultConfig()
	cfg.IgnoreLockMods = true

	_, err := New(d, cfg, logger)
	require.NoError(t, err)
	assert.Len(t, d.grabs, 6)
}

func TestNew_VerifiedGrabRejected(t *testing.T) {
	d := newFakeDisplay()
	d.grabErr = errors.New("BadAccess")
	logger, _ := test.NewNullLogger()
	cfg := config.DefaultConfig()
	cfg.VerifyGrabs = true

	_, err := New(d, cfg, logger)
	require.Error(t, err)
	assert.True(t, errors.Is(err, grabs.ErrGrabRejected))
}

func TestNew_RaiseKeyWithoutKeycode(t *testing.T) {
	d := newFakeDisplay()
	d.keyCodes = nil
	logger, _ := test.NewNullLogger()

	_, err := New(d, config.DefaultConfig(), logger)
	require.Error(t, err)
	assert.Empty(t, d.grabs)
}

func TestRun_DragUntilConnectionLost(t *testing.T) {
	d := newFakeDisplay(
		xproto.ButtonPressEvent{Detail: 1, Root: root, Child: client, RootX: 200, RootY: 200},
		xproto.MotionNotifyEvent{Root: root, Child: client, RootX: 210, RootY: 195},
		xproto.ButtonReleaseEvent{Detail: 1, Root: root, Child: client},
		xproto.KeyPressEvent{Detail: 67, Root: root, Child: client},
	)
	logger, _ := test.NewNullLogger()

	w, err := New(d, config.DefaultConfig(), logger)
	require.NoError(t, err)

	err = w.Run()
	assert.True(t, errors.Is(err, x11.ErrIO))
	assert.Equal(t, drag.PhaseIdle, w.machine.Phase())
	// Once before the loop, then once per event.
	assert.Equal(t, 5, d.flushes)
	assert.Equal(t, []x11.ConfigureRequest{
		x11.MoveResizeRequest(x11.Geometry{X: 110, Y: 95, Width: 50, Height: 50}),
		x11.RaiseRequest(),
	}, d.configured)
}

type failingHandler struct{ err error }

func (h failingHandler) Handle(xgb.Event) error { return h.err }

func TestRun_StopsOnHandlerError(t *testing.T) {
	d := newFakeDisplay(xproto.MotionNotifyEvent{}, xproto.MotionNotifyEvent{})
	boom := errors.New("boom")

	err := Run(d, failingHandler{err: boom})
	assert.Equal(t, boom, err)
	assert.Equal(t, 1, d.flushes)
	assert.Len(t, d.events, 1)
}
