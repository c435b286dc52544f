package tool

import "github.com/Faultbox/socketforge/pkg/math"

// EventKind identifies a discrete input event delivered to the tool.
type EventKind int

const (
	// EventPointerMove reports pointer motion or a per-frame tick;
	// the tool recomputes the highlight and mutates nothing else.
	EventPointerMove EventKind = iota

	// EventPrimaryDown places a random module at the highlighted
	// socket.
	EventPrimaryDown

	// EventSecondaryDown cycles the module at the last clicked socket
	// to the next catalog entry.
	EventSecondaryDown

	// EventCancel terminates the tool and releases its hooks.
	EventCancel
)

// Event is one input event together with the camera state needed to
// pick against the socket tree. Camera is the camera world position
// and Ray the normalized world-space direction through the pointer.
type Event struct {
	Kind   EventKind
	Camera math.Vec3
	Ray    math.Vec3
}
