package coordinator

import "errors"

// Sentinel kinds for coordinator adapter errors.
var (
	ErrDial         = errors.New("coordinator dial failed")
	ErrRegister     = errors.New("coordinator registration failed")
	ErrNotConnected = errors.New("not connected to coordinator")
)
