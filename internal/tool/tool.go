// Package tool implements the interactive socket placement tool: a
// state machine that grows a tree of connected module instances in
// response to pointer events. Click an open socket to instance a
// random module there; right click to cycle the last placed module
// through the catalog; escape to stop.
package tool

import (
	"errors"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/Faultbox/socketforge/internal/catalog"
	"github.com/Faultbox/socketforge/internal/engine/picking"
	"github.com/Faultbox/socketforge/internal/sockets"
	"github.com/Faultbox/socketforge/pkg/math"
)

// Initialization failures. Both are fatal for the session: the tool
// goes straight to StateTerminated without creating any state.
var (
	ErrEmptyCatalog = errors.New("module catalog is empty")
	ErrNoHost       = errors.New("no host viewport")
)

// State is the tool lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateActive
	StateTerminated
)

// InstanceService creates and manages placed module instances. The
// tool only holds opaque handles; rendering and resource ownership
// stay with the implementation.
type InstanceService interface {
	Place(transform math.Mat4, mod catalog.Module) (sockets.InstanceID, error)
	Retarget(id sockets.InstanceID, transform math.Mat4, mod catalog.Module) error
	Release(id sockets.InstanceID)
}

// Host is the viewport the tool runs in. AddDrawHandler registers fn
// to be invoked once per redraw; the returned remove function
// unregisters it and must be safe to call exactly once.
type Host interface {
	AddDrawHandler(fn func()) (remove func(), err error)
}

// DrawFunc renders the open sockets of the tree rooted at root.
type DrawFunc func(root *sockets.Node)

// Options configures a Tool.
type Options struct {
	// PickRadius is the maximum perpendicular distance between a
	// socket and the pointer ray for the socket to be selectable.
	PickRadius float32

	// Rand selects modules on primary click. Seed it for
	// deterministic tests; nil uses the global source.
	Rand *rand.Rand

	// Draw renders open sockets on each host redraw. May be nil.
	Draw DrawFunc

	// Log may be nil.
	Log *zap.Logger
}

// Tool owns the socket tree and drives it from input events. All
// methods must be called from the host's event thread; the tool does
// no locking because traversal and mutation never overlap.
type Tool struct {
	state       State
	catalog     []catalog.Module
	instances   InstanceService
	pickRadius  float32
	rng         *rand.Rand
	draw        DrawFunc
	log         *zap.Logger
	root        *sockets.Node
	lastClicked *sockets.Node
	lastModule  int // catalog index instanced at lastClicked
	removeDraw  func()
}

// New creates a tool over the given catalog and instance service.
// Call Start before delivering events.
func New(mods []catalog.Module, instances InstanceService, opts Options) *Tool {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.PickRadius <= 0 {
		opts.PickRadius = 0.15
	}
	return &Tool{
		state:      StateUninitialized,
		catalog:    mods,
		instances:  instances,
		pickRadius: opts.PickRadius,
		rng:        opts.Rand,
		draw:       opts.Draw,
		log:        opts.Log,
	}
}

// State returns the current lifecycle state.
func (t *Tool) State() State {
	return t.state
}

// Root returns the root socket, or nil before Start / after Cancel.
func (t *Tool) Root() *sockets.Node {
	return t.root
}

// Start places the first catalog module at the identity-transform
// root socket, registers the draw hook with the host, and activates
// the tool. On failure the tool terminates immediately with no state
// created.
func (t *Tool) Start(host Host) error {
	if t.state != StateUninitialized {
		return fmt.Errorf("tool already started")
	}
	if len(t.catalog) == 0 {
		t.state = StateTerminated
		return ErrEmptyCatalog
	}
	if host == nil {
		t.state = StateTerminated
		return ErrNoHost
	}

	root := sockets.NewNode(math.Identity())
	if err := t.place(root, 0); err != nil {
		t.state = StateTerminated
		return fmt.Errorf("placing root module: %w", err)
	}

	remove, err := host.AddDrawHandler(func() {
		if t.draw != nil && t.root != nil {
			t.draw(t.root)
		}
	})
	if err != nil {
		t.instances.Release(root.Instance)
		t.state = StateTerminated
		return fmt.Errorf("registering draw hook: %w", err)
	}

	t.root = root
	t.removeDraw = remove
	// Start with the root as the cycle target so a secondary click
	// before any placement cycles the root module.
	t.lastClicked = root
	t.lastModule = 0
	t.state = StateActive

	t.log.Info("tool started",
		zap.Int("modules", len(t.catalog)),
		zap.String("root_module", t.catalog[0].Name),
	)
	return nil
}

// Handle processes one input event. It returns true when the tool
// consumed the event (a mutation or cancel happened); unconsumed
// events should pass through to the host.
func (t *Tool) Handle(ev Event) bool {
	if t.state != StateActive {
		return false
	}

	if ev.Kind == EventCancel {
		t.Cancel()
		return true
	}

	// Every event re-picks against the current pointer ray so the
	// highlight never goes stale.
	hot := picking.ClosestOpenSocket(t.root, ev.Camera, ev.Ray, t.pickRadius)
	if hot != nil {
		hot.Highlighted = true
	}

	switch ev.Kind {
	case EventPrimaryDown:
		if hot == nil {
			return false
		}
		idx := t.pickModule()
		if err := t.place(hot, idx); err != nil {
			t.log.Warn("placing module failed", zap.Error(err))
			return false
		}
		// The socket just closed and closed sockets are never drawn
		// highlighted.
		hot.Highlighted = false
		t.lastClicked = hot
		t.lastModule = idx
		t.log.Debug("module placed",
			zap.String("module", t.catalog[idx].Name),
			zap.Int("open_children", len(hot.Children)),
		)
		return true

	case EventSecondaryDown:
		if t.lastClicked == nil || t.lastClicked.Open() {
			return false
		}
		next := (t.lastModule + 1) % len(t.catalog)
		if err := t.cycle(t.lastClicked, next); err != nil {
			t.log.Warn("cycling module failed", zap.Error(err))
			return false
		}
		t.lastModule = next
		t.log.Debug("module cycled", zap.String("module", t.catalog[next].Name))
		return true
	}

	return false
}

// Cancel releases the draw hook and discards the tree. Idempotent;
// safe on a tool that never finished starting.
func (t *Tool) Cancel() {
	if t.state == StateTerminated {
		return
	}
	if t.removeDraw != nil {
		t.removeDraw()
		t.removeDraw = nil
	}
	t.root = nil
	t.lastClicked = nil
	t.state = StateTerminated
	t.log.Info("tool terminated")
}

// pickModule selects a random catalog index for a primary click.
func (t *Tool) pickModule() int {
	if t.rng != nil {
		return t.rng.Intn(len(t.catalog))
	}
	return rand.Intn(len(t.catalog))
}

// place closes the socket with an instance of catalog[idx] and
// populates its child sockets.
func (t *Tool) place(n *sockets.Node, idx int) error {
	mod := t.catalog[idx]
	id, err := t.instances.Place(sockets.InstanceTransform(n.Transform, mod), mod)
	if err != nil {
		return err
	}
	n.Instance = id
	n.Children = sockets.ChildSockets(n.Transform, mod)
	return nil
}

// cycle swaps the module instanced at a closed socket for
// catalog[idx], reusing the instance handle, and regenerates the
// child sockets from scratch. Instances placed in the discarded
// subtree are released.
func (t *Tool) cycle(n *sockets.Node, idx int) error {
	mod := t.catalog[idx]
	if err := t.instances.Retarget(n.Instance, sockets.InstanceTransform(n.Transform, mod), mod); err != nil {
		return err
	}
	for _, child := range n.Children {
		t.releaseSubtree(child)
	}
	n.Children = sockets.ChildSockets(n.Transform, mod)
	return nil
}

// releaseSubtree releases every instance placed in the subtree.
func (t *Tool) releaseSubtree(n *sockets.Node) {
	n.Walk(func(c *sockets.Node) {
		if !c.Open() {
			t.instances.Release(c.Instance)
		}
	})
}
