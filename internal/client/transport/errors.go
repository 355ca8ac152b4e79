package transport

import "errors"

var (
	// ErrNotConnected is returned by Send when there is no live session
	ErrNotConnected = errors.New("transport not connected")

	// ErrSendBufferFull is returned when the outbound buffer is saturated
	ErrSendBufferFull = errors.New("send buffer full")
)
