package sockets

import (
	"github.com/Faultbox/socketforge/internal/catalog"
	"github.com/Faultbox/socketforge/pkg/math"
)

// InstanceTransform returns the world transform a module instance
// takes when placed at a socket: the socket transform composed with
// the inverse of the module's inbound anchor. Applying the result to
// the inbound anchor lands exactly on the socket transform, so the
// same catalog entry works at any socket orientation. A degenerate
// inbound anchor falls back to the module pivot.
func InstanceTransform(socket math.Mat4, mod catalog.Module) math.Mat4 {
	return socket.Mul(mod.In.InverseSafe())
}

// ChildSockets returns one new open socket per outbound anchor of the
// module, in declaration order, positioned in world space relative to
// the placed instance.
func ChildSockets(world math.Mat4, mod catalog.Module) []*Node {
	base := world.Mul(mod.In.InverseSafe())
	children := make([]*Node, 0, len(mod.Out))
	for _, out := range mod.Out {
		children = append(children, NewNode(base.Mul(out)))
	}
	return children
}
