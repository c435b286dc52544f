package sockets

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/socketforge/internal/catalog"
	"github.com/Faultbox/socketforge/pkg/math"
)

const epsilon = 1e-5

func matNear(t *testing.T, got, want math.Mat4, label string) {
	t.Helper()
	for i := 0; i < 16; i++ {
		d := got[i] - want[i]
		if d < -epsilon || d > epsilon {
			t.Fatalf("%s element %d: got %f, want %f", label, i, got[i], want[i])
		}
	}
}

func TestInstanceTransformAnchorsToSocket(t *testing.T) {
	// instanceTransform(S, m) * m.In == S for arbitrary anchors and
	// socket orientations.
	sockets := []math.Mat4{
		math.Identity(),
		math.Translate(5, -2, 3),
		math.Translate(1, 0, 0).Mul(math.RotateY(1.1)),
		math.RotateZ(-0.5).Mul(math.Translate(0, 4, 0)).Mul(math.RotateX(0.3)),
	}
	anchors := []math.Mat4{
		math.Identity(),
		math.Translate(0, 0, -2),
		math.Translate(2, 1, 0).Mul(math.RotateY(float32(gomath.Pi / 2))),
	}

	for _, s := range sockets {
		for _, in := range anchors {
			mod := catalog.Module{Name: "m", In: in}
			inst := InstanceTransform(s, mod)
			matNear(t, inst.Mul(in), s, "socket/anchor round trip")
		}
	}
}

func TestInstanceTransformDegenerateAnchor(t *testing.T) {
	// A non-invertible inbound anchor degrades to the module pivot:
	// the instance lands directly on the socket.
	s := math.Translate(3, 0, 1)
	mod := catalog.Module{Name: "m", In: math.Scale(0, 0, 0)}

	matNear(t, InstanceTransform(s, mod), s, "degenerate anchor")
}

func TestChildSocketsOrderAndCount(t *testing.T) {
	out := []math.Mat4{
		math.Translate(0, 0, 4),
		math.Translate(4, 0, 0),
		math.Translate(-4, 0, 0),
	}
	mod := catalog.Module{Name: "junction", In: math.Identity(), Out: out}

	world := math.Translate(10, 0, 0)
	children := ChildSockets(world, mod)

	if len(children) != len(out) {
		t.Fatalf("expected %d children, got %d", len(out), len(children))
	}

	wantPositions := []math.Vec3{
		{X: 10, Y: 0, Z: 4},
		{X: 14, Y: 0, Z: 0},
		{X: 6, Y: 0, Z: 0},
	}
	for i, child := range children {
		if !child.Open() {
			t.Errorf("child %d should be open", i)
		}
		if child.Highlighted {
			t.Errorf("child %d should not be highlighted", i)
		}
		if len(child.Children) != 0 {
			t.Errorf("child %d should have no children", i)
		}
		got := child.Transform.Translation()
		if got.Distance(wantPositions[i]) > epsilon {
			t.Errorf("child %d position: got %v, want %v", i, got, wantPositions[i])
		}
	}
}

func TestChildSocketsRespectInAnchor(t *testing.T) {
	// Out anchors are expressed relative to the inbound pivot: with an
	// in anchor at (0,0,2) and an out anchor at (0,0,4) the child ends
	// up 2 units past the socket along local Z.
	mod := catalog.Module{
		Name: "pipe",
		In:   math.Translate(0, 0, 2),
		Out:  []math.Mat4{math.Translate(0, 0, 4)},
	}

	world := math.Identity()
	children := ChildSockets(world, mod)
	if len(children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(children))
	}

	got := children[0].Transform.Translation()
	want := math.Vec3{X: 0, Y: 0, Z: 2}
	if got.Distance(want) > epsilon {
		t.Errorf("child position: got %v, want %v", got, want)
	}
}

func TestChildSocketsLeafModule(t *testing.T) {
	mod := catalog.Module{Name: "cap", In: math.Identity()}
	children := ChildSockets(math.Translate(1, 2, 3), mod)
	if len(children) != 0 {
		t.Errorf("leaf module should produce no children, got %d", len(children))
	}
}

func TestChildSocketsMatchInstanceAnchors(t *testing.T) {
	// Child sockets coincide with the instance transform applied to
	// each out anchor.
	mod := catalog.Module{
		Name: "elbow",
		In:   math.Translate(-1, 0, 0).Mul(math.RotateY(0.4)),
		Out: []math.Mat4{
			math.Translate(0, 0, 3).Mul(math.RotateY(float32(gomath.Pi / 2))),
		},
	}
	socket := math.Translate(2, 1, -1).Mul(math.RotateZ(0.7))

	inst := InstanceTransform(socket, mod)
	children := ChildSockets(socket, mod)

	matNear(t, children[0].Transform, inst.Mul(mod.Out[0]), "child vs instance anchor")
}
