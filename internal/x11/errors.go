package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb"
)

// Error types
var (
	ErrConnection = errors.New("cannot connect to X server")
	ErrProtocol   = errors.New("malformed reply from X server")
	ErrIO         = errors.New("connection with X server lost")
)

// RequestError is returned when the server answers a synchronous request with
// an X error, e.g. GetGeometry on a window that was destroyed meanwhile.
type RequestError struct {
	Request string
	Err     xgb.Error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Request, e.Err.Error())
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// classify turns the error of a round trip into a RequestError when the
// server produced an X error, and into ErrIO otherwise.
func classify(request string, err error) error {
	var xerr xgb.Error
	if errors.As(err, &xerr) {
		return &RequestError{Request: request, Err: xerr}
	}
	return fmt.Errorf("%w: %s: %v", ErrIO, request, err)
}
