package messaging

import "errors"

// ErrNoRoom is returned when sending before Connect.
var ErrNoRoom = errors.New("not connected to a room")
