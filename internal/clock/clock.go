package clock

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DeviceClock issues client timestamps (unix milliseconds) that never go
// backwards, even across wall-clock adjustments, and carries the device
// identifier used for deterministic tie-breaks when two replicas write in
// the same millisecond.
type DeviceClock struct {
	deviceID string
	last     int64
	mu       sync.Mutex
}

// New creates a clock with a fresh UUID device id.
func New() *DeviceClock {
	return &DeviceClock{deviceID: uuid.New().String()}
}

// NewWithDeviceID creates a clock with a known device id. Used when
// restoring a device identity from local storage and in tests.
func NewWithDeviceID(deviceID string) *DeviceClock {
	return &DeviceClock{deviceID: deviceID}
}

// Now returns the current timestamp. If the wall clock stalls or moves
// backwards, the previous value plus one is returned instead.
func (c *DeviceClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixMilli()
	if now <= c.last {
		now = c.last + 1
	}
	c.last = now
	return now
}

// Observe advances the clock past a timestamp seen from the server or
// another replica, so subsequent local writes order after it.
func (c *DeviceClock) Observe(remote int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if remote > c.last {
		c.last = remote
	}
}

// Last returns the most recently issued or observed timestamp.
func (c *DeviceClock) Last() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.last
}

// DeviceID returns the device identifier.
func (c *DeviceClock) DeviceID() string {
	return c.deviceID
}
