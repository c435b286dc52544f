package render

import (
	"github.com/Faultbox/socketforge/internal/catalog"
	"github.com/Faultbox/socketforge/internal/sockets"
	"github.com/Faultbox/socketforge/pkg/math"
)

// placement is one live module instance.
type placement struct {
	transform math.Mat4
	name      string
}

// Instances tracks placed module instances and draws each as a
// wireframe unit cube in module-local space. Handles are never reused
// within a session; 0 is reserved for "no instance".
type Instances struct {
	renderer *Renderer
	nextID   sockets.InstanceID
	placed   map[sockets.InstanceID]placement
}

// NewInstances creates an empty instance store drawing through r.
func NewInstances(r *Renderer) *Instances {
	return &Instances{
		renderer: r,
		nextID:   1,
		placed:   make(map[sockets.InstanceID]placement),
	}
}

// Place records a new instance and returns its handle.
func (s *Instances) Place(transform math.Mat4, mod catalog.Module) (sockets.InstanceID, error) {
	id := s.nextID
	s.nextID++
	s.placed[id] = placement{transform: transform, name: mod.Name}
	return id, nil
}

// Retarget updates an existing instance in place. Unknown handles are
// ignored; the caller's tree is the source of truth.
func (s *Instances) Retarget(id sockets.InstanceID, transform math.Mat4, mod catalog.Module) error {
	if _, ok := s.placed[id]; !ok {
		return nil
	}
	s.placed[id] = placement{transform: transform, name: mod.Name}
	return nil
}

// Release removes an instance.
func (s *Instances) Release(id sockets.InstanceID) {
	delete(s.placed, id)
}

// Count returns the number of live instances.
func (s *Instances) Count() int {
	return len(s.placed)
}

var instanceColor = [4]float32{0.85, 0.85, 0.9, 1.0}

// Draw renders every live instance as a wireframe cube.
func (s *Instances) Draw() {
	for _, p := range s.placed {
		s.renderer.drawMesh(s.renderer.cube, p.transform, instanceColor)
	}
}
