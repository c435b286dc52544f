package tool

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/Faultbox/socketforge/internal/catalog"
	"github.com/Faultbox/socketforge/internal/sockets"
	"github.com/Faultbox/socketforge/pkg/math"
)

// fakeInstances records instance service calls.
type fakeInstances struct {
	nextID    sockets.InstanceID
	placed    map[sockets.InstanceID]string // live instances by module name
	retargets []string                      // module names passed to Retarget
	released  []sockets.InstanceID
	failPlace bool
}

func newFakeInstances() *fakeInstances {
	return &fakeInstances{nextID: 1, placed: make(map[sockets.InstanceID]string)}
}

func (f *fakeInstances) Place(_ math.Mat4, mod catalog.Module) (sockets.InstanceID, error) {
	if f.failPlace {
		return 0, errors.New("place failed")
	}
	id := f.nextID
	f.nextID++
	f.placed[id] = mod.Name
	return id, nil
}

func (f *fakeInstances) Retarget(id sockets.InstanceID, _ math.Mat4, mod catalog.Module) error {
	f.placed[id] = mod.Name
	f.retargets = append(f.retargets, mod.Name)
	return nil
}

func (f *fakeInstances) Release(id sockets.InstanceID) {
	delete(f.placed, id)
	f.released = append(f.released, id)
}

// fakeHost counts draw handler registrations and removals.
type fakeHost struct {
	added   int
	removed int
	handler func()
	failAdd bool
}

func (h *fakeHost) AddDrawHandler(fn func()) (func(), error) {
	if h.failAdd {
		return nil, errors.New("no draw handler slot")
	}
	h.added++
	h.handler = fn
	return func() { h.removed++ }, nil
}

// testCatalog returns [A(out at z=4), B(leaf)].
func testCatalog() []catalog.Module {
	return []catalog.Module{
		{Name: "A", In: math.Identity(), Out: []math.Mat4{math.Translate(0, 0, 4)}},
		{Name: "B", In: math.Identity()},
	}
}

// pointerAt builds an event whose ray passes straight through the
// given world position from a camera pulled back along +Z.
func pointerAt(kind EventKind, target math.Vec3) Event {
	camera := math.Vec3{X: target.X, Y: target.Y, Z: target.Z + 20}
	return Event{Kind: kind, Camera: camera, Ray: math.Vec3{X: 0, Y: 0, Z: -1}}
}

func startTool(t *testing.T, mods []catalog.Module, seed int64) (*Tool, *fakeInstances, *fakeHost) {
	t.Helper()
	svc := newFakeInstances()
	host := &fakeHost{}
	tl := New(mods, svc, Options{
		PickRadius: 0.5,
		Rand:       rand.New(rand.NewSource(seed)),
	})
	if err := tl.Start(host); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return tl, svc, host
}

func TestStartPlacesRootModule(t *testing.T) {
	tl, svc, host := startTool(t, testCatalog(), 1)

	if tl.State() != StateActive {
		t.Fatalf("expected StateActive, got %v", tl.State())
	}
	root := tl.Root()
	if root == nil || root.Open() {
		t.Fatal("root should be closed after Start")
	}
	if svc.placed[root.Instance] != "A" {
		t.Errorf("root module: got %s, want A (first catalog entry)", svc.placed[root.Instance])
	}
	if len(root.Children) != 1 {
		t.Fatalf("expected 1 open child socket, got %d", len(root.Children))
	}
	child := root.Children[0]
	if !child.Open() {
		t.Error("child socket should be open")
	}
	if got := child.Transform.Translation(); got.Distance(math.Vec3{X: 0, Y: 0, Z: 4}) > 1e-5 {
		t.Errorf("child socket position: got %v, want (0, 0, 4)", got)
	}
	if host.added != 1 {
		t.Errorf("expected 1 draw handler registration, got %d", host.added)
	}
}

func TestStartEmptyCatalog(t *testing.T) {
	svc := newFakeInstances()
	host := &fakeHost{}
	tl := New(nil, svc, Options{})

	err := tl.Start(host)
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got %v", err)
	}
	if tl.State() != StateTerminated {
		t.Errorf("expected StateTerminated, got %v", tl.State())
	}
	if tl.Root() != nil {
		t.Error("no root should exist after failed Start")
	}
	if host.added != 0 {
		t.Error("no draw handler should be registered after failed Start")
	}
}

func TestStartNilHost(t *testing.T) {
	tl := New(testCatalog(), newFakeInstances(), Options{})

	err := tl.Start(nil)
	if !errors.Is(err, ErrNoHost) {
		t.Fatalf("expected ErrNoHost, got %v", err)
	}
	if tl.State() != StateTerminated {
		t.Errorf("expected StateTerminated, got %v", tl.State())
	}
}

func TestStartDrawHandlerFailure(t *testing.T) {
	svc := newFakeInstances()
	host := &fakeHost{failAdd: true}
	tl := New(testCatalog(), svc, Options{})

	if err := tl.Start(host); err == nil {
		t.Fatal("expected error when draw handler registration fails")
	}
	if tl.State() != StateTerminated {
		t.Errorf("expected StateTerminated, got %v", tl.State())
	}
	// The root instance created before the failure must be released.
	if len(svc.placed) != 0 {
		t.Errorf("expected no live instances, got %d", len(svc.placed))
	}
}

func TestPointerMoveHighlights(t *testing.T) {
	tl, _, _ := startTool(t, testCatalog(), 1)
	child := tl.Root().Children[0]

	consumed := tl.Handle(pointerAt(EventPointerMove, child.Transform.Translation()))
	if consumed {
		t.Error("pointer move should pass through")
	}
	if !child.Highlighted {
		t.Error("child under pointer should be highlighted")
	}

	// Moving away clears the highlight.
	tl.Handle(pointerAt(EventPointerMove, math.Vec3{X: 50, Y: 50, Z: 0}))
	if child.Highlighted {
		t.Error("highlight should be reset when pointer moves away")
	}
}

func TestPrimaryClickPlacesModule(t *testing.T) {
	tl, svc, _ := startTool(t, testCatalog(), 1)
	child := tl.Root().Children[0]

	consumed := tl.Handle(pointerAt(EventPrimaryDown, child.Transform.Translation()))
	if !consumed {
		t.Fatal("primary click on a socket should be consumed")
	}
	if child.Open() {
		t.Fatal("clicked socket should be closed")
	}

	name := svc.placed[child.Instance]
	switch name {
	case "A":
		if len(child.Children) != 1 {
			t.Errorf("module A should produce 1 child socket, got %d", len(child.Children))
		}
	case "B":
		if len(child.Children) != 0 {
			t.Errorf("leaf module B should produce no child sockets, got %d", len(child.Children))
		}
	default:
		t.Fatalf("unexpected module %q placed", name)
	}

	// The closed socket is excluded from future candidate sets.
	tl.Handle(pointerAt(EventPointerMove, child.Transform.Translation()))
	if child.Highlighted {
		t.Error("closed socket must never be highlighted")
	}
}

func TestPrimaryClickNoCandidate(t *testing.T) {
	tl, svc, _ := startTool(t, testCatalog(), 1)
	before := len(svc.placed)

	consumed := tl.Handle(pointerAt(EventPrimaryDown, math.Vec3{X: 100, Y: 100, Z: 100}))
	if consumed {
		t.Error("click with no candidate should pass through")
	}
	if len(svc.placed) != before {
		t.Error("no instance should be placed")
	}
}

func TestPrimaryClickPlaceFailure(t *testing.T) {
	tl, svc, _ := startTool(t, testCatalog(), 1)
	child := tl.Root().Children[0]
	svc.failPlace = true

	consumed := tl.Handle(pointerAt(EventPrimaryDown, child.Transform.Translation()))
	if consumed {
		t.Error("failed placement should not consume the event")
	}
	if !child.Open() {
		t.Error("socket should stay open when placement fails")
	}
}

func TestSecondaryClickCyclesThroughCatalog(t *testing.T) {
	mods := testCatalog()
	tl, svc, _ := startTool(t, mods, 1)
	root := tl.Root()

	// The root starts as the cycle target with module A. Cycling
	// len(catalog) times must restore A.
	ev := pointerAt(EventSecondaryDown, math.Vec3{X: 100, Y: 100, Z: 100})
	for i := 0; i < len(mods); i++ {
		if !tl.Handle(ev) {
			t.Fatalf("cycle %d not consumed", i)
		}
	}

	if got := svc.placed[root.Instance]; got != "A" {
		t.Errorf("after full cycle: got module %s, want A", got)
	}
	wantRetargets := []string{"B", "A"}
	if len(svc.retargets) != len(wantRetargets) {
		t.Fatalf("expected %d retargets, got %d", len(wantRetargets), len(svc.retargets))
	}
	for i, want := range wantRetargets {
		if svc.retargets[i] != want {
			t.Errorf("retarget %d: got %s, want %s", i, svc.retargets[i], want)
		}
	}
	// Cycling to A regenerates the out socket.
	if len(root.Children) != 1 {
		t.Errorf("expected 1 regenerated child, got %d", len(root.Children))
	}
}

func TestSecondaryClickReleasesDiscardedSubtree(t *testing.T) {
	tl, svc, _ := startTool(t, testCatalog(), 1)
	root := tl.Root()
	child := root.Children[0]

	// Place a module at the child so the discarded subtree holds an
	// instance.
	if !tl.Handle(pointerAt(EventPrimaryDown, child.Transform.Translation())) {
		t.Fatal("placement not consumed")
	}
	childInstance := child.Instance

	// Cycling a socket whose subtree holds no instances releases
	// nothing. Make sure the child carries module A (one open
	// grandchild socket) before going deeper.
	if svc.placed[childInstance] == "B" {
		tl.Handle(pointerAt(EventSecondaryDown, math.Vec3{}))
	}
	if len(svc.released) != 0 {
		t.Fatalf("cycle discarded an instance-free subtree, expected no releases, got %v", svc.released)
	}

	grand := child.Children[0]
	if !tl.Handle(pointerAt(EventPrimaryDown, grand.Transform.Translation())) {
		t.Fatal("grandchild placement not consumed")
	}
	grandInstance := grand.Instance

	// Cycling the grandchild's parent discards the subtree holding
	// the grandchild instance.
	tl.lastClicked = child
	tl.lastModule = 0
	tl.Handle(pointerAt(EventSecondaryDown, math.Vec3{}))

	found := false
	for _, id := range svc.released {
		if id == grandInstance {
			found = true
		}
		if id == childInstance {
			t.Error("the cycled socket's own instance must not be released")
		}
	}
	if !found {
		t.Error("discarded subtree instance was not released")
	}
}

func TestSecondaryClickWithoutTarget(t *testing.T) {
	tl, _, _ := startTool(t, testCatalog(), 1)
	tl.lastClicked = nil

	if tl.Handle(pointerAt(EventSecondaryDown, math.Vec3{})) {
		t.Error("secondary click with no target should pass through")
	}
}

func TestCancelReleasesHookOnce(t *testing.T) {
	tl, _, host := startTool(t, testCatalog(), 1)

	tl.Cancel()
	if tl.State() != StateTerminated {
		t.Errorf("expected StateTerminated, got %v", tl.State())
	}
	if host.removed != 1 {
		t.Errorf("expected 1 hook removal, got %d", host.removed)
	}
	if tl.Root() != nil {
		t.Error("tree should be discarded on cancel")
	}

	// Idempotent.
	tl.Cancel()
	if host.removed != 1 {
		t.Errorf("second cancel must be a no-op, got %d removals", host.removed)
	}

	// Events after termination pass through untouched.
	if tl.Handle(pointerAt(EventPrimaryDown, math.Vec3{})) {
		t.Error("terminated tool must not consume events")
	}
}

func TestCancelEvent(t *testing.T) {
	tl, _, host := startTool(t, testCatalog(), 1)

	if !tl.Handle(Event{Kind: EventCancel}) {
		t.Error("cancel event should be consumed")
	}
	if tl.State() != StateTerminated {
		t.Errorf("expected StateTerminated, got %v", tl.State())
	}
	if host.removed != 1 {
		t.Errorf("expected 1 hook removal, got %d", host.removed)
	}
}

func TestDrawHandlerRendersTree(t *testing.T) {
	svc := newFakeInstances()
	host := &fakeHost{}
	var drawn *sockets.Node
	tl := New(testCatalog(), svc, Options{
		Draw: func(root *sockets.Node) { drawn = root },
	})
	if err := tl.Start(host); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	host.handler()
	if drawn != tl.Root() {
		t.Error("draw handler should receive the tree root")
	}

	// After cancel the handler is removed by the host; even if
	// invoked, it must not touch a discarded tree.
	tl.Cancel()
	drawn = nil
	host.handler()
	if drawn != nil {
		t.Error("draw handler must not render after cancel")
	}
}

func TestRandomPlacementIsSeedable(t *testing.T) {
	place := func(seed int64) string {
		tl, svc, _ := startTool(t, testCatalog(), seed)
		child := tl.Root().Children[0]
		tl.Handle(pointerAt(EventPrimaryDown, child.Transform.Translation()))
		return svc.placed[child.Instance]
	}

	// Same seed, same module choice.
	if place(42) != place(42) {
		t.Error("same seed should place the same module")
	}
}
