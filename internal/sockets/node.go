// Package sockets implements the socket graph: a rooted tree of
// world-space anchor points that modular assets are instanced onto.
// An open socket has no instance and no children; placing a module
// closes the socket and creates one child socket per outbound anchor.
package sockets

import "github.com/Faultbox/socketforge/pkg/math"

// InstanceID is an opaque handle to an externally managed placed
// instance. Zero means no instance.
type InstanceID uint64

// Node is one socket in the graph. Each node is exclusively owned by
// its parent; the tree has no back-edges and no sharing.
type Node struct {
	// Transform is the socket's world-space transform.
	Transform math.Mat4

	// Highlighted marks the current best pick candidate. It is
	// recomputed on every picking pass and otherwise transient.
	Highlighted bool

	// Instance is the handle of the module instanced here, or zero
	// while the socket is open.
	Instance InstanceID

	// Children are the sockets created from the placed module's
	// outbound anchors, in declaration order. Empty while open.
	Children []*Node
}

// NewNode creates an open socket at the given world transform.
func NewNode(transform math.Mat4) *Node {
	return &Node{Transform: transform}
}

// Open reports whether the socket has no placed instance.
func (n *Node) Open() bool {
	return n.Instance == 0
}

// Walk visits n and every descendant in depth-first pre-order,
// children in declaration order. visit must not change the tree shape
// while the walk is running; node-local flags are fine.
func (n *Node) Walk(visit func(*Node)) {
	visit(n)
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) { count++ })
	return count
}
