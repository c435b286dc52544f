// Package catalog holds the immutable library of modular assets the
// placement tool can instance.
package catalog

import "github.com/Faultbox/socketforge/pkg/math"

// Module is one placeable asset. In is the local-space inbound anchor
// the module connects through; Out lists the local-space anchors that
// become new sockets once the module is placed. A module with no
// inbound anchor connects through its own pivot (identity), and a
// module with no outbound anchors is a leaf.
type Module struct {
	Name string
	In   math.Mat4
	Out  []math.Mat4
}

// New creates a module, defaulting a zero-value inbound anchor to the
// identity transform.
func New(name string, in math.Mat4, out []math.Mat4) Module {
	if in == (math.Mat4{}) {
		in = math.Identity()
	}
	return Module{Name: name, In: in, Out: out}
}
