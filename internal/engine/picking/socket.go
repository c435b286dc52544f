package picking

import (
	gomath "math"

	"github.com/Faultbox/socketforge/internal/sockets"
	"github.com/Faultbox/socketforge/pkg/math"
)

// ClosestOpenSocket scans the socket tree and returns the open socket
// whose position lies nearest the ray from the camera through the
// pointer, or nil when no open socket is strictly closer than radius
// to the ray. A socket exactly at radius is not a candidate.
// Closed sockets are skipped entirely. The highlight flag of every
// open socket is reset; the caller highlights the returned candidate.
//
// The distance test projects the camera-to-socket vector onto the ray
// direction and measures the perpendicular remainder.
func ClosestOpenSocket(root *sockets.Node, camera math.Vec3, dir math.Vec3, radius float32) *sockets.Node {
	var best *sockets.Node
	bestSq := float32(gomath.MaxFloat32)
	radiusSq := radius * radius

	root.Walk(func(n *sockets.Node) {
		if !n.Open() {
			return
		}
		n.Highlighted = false

		toSocket := n.Transform.Translation().Sub(camera)
		perp := toSocket.Sub(toSocket.Project(dir))
		distSq := perp.LengthSq()

		if distSq < radiusSq && distSq < bestSq {
			best = n
			bestSq = distSq
		}
	})

	return best
}
