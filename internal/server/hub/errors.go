package hub

import "errors"

var (
	errNotSubscribe = errors.New("first envelope must be a subscribe")
	errNoRoomID     = errors.New("subscribe without room_id")
)
