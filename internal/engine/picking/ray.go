// Package picking provides ray casting and socket picking utilities.
package picking

import "github.com/Faultbox/socketforge/pkg/math"

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport
// dimensions. invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	// Unproject the pointer on the near and far planes; TransformPoint
	// applies the perspective divide.
	origin := invViewProj.TransformPoint(math.Vec3{X: ndcX, Y: ndcY, Z: -1.0})
	far := invViewProj.TransformPoint(math.Vec3{X: ndcX, Y: ndcY, Z: 1.0})

	return Ray{Origin: origin, Direction: far.Sub(origin).Normalize()}
}
