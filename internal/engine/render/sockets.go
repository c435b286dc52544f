package render

import (
	"github.com/Faultbox/socketforge/internal/sockets"
	"github.com/Faultbox/socketforge/pkg/math"
)

// SocketStyle controls how open sockets are drawn.
type SocketStyle struct {
	SocketRadius    float32
	HighlightRadius float32
	SocketColor     [4]float32
	HighlightColor  [4]float32
}

// DrawSockets renders a translucent sphere at every open socket of the
// tree. Highlighted sockets get the larger radius and brighter color.
func (r *Renderer) DrawSockets(root *sockets.Node, style SocketStyle) {
	if root == nil {
		return
	}

	root.Walk(func(n *sockets.Node) {
		if !n.Open() {
			return
		}

		radius := style.SocketRadius
		color := style.SocketColor
		if n.Highlighted {
			radius = style.HighlightRadius
			color = style.HighlightColor
		}

		pos := n.Transform.Translation()
		model := math.Translate(pos.X, pos.Y, pos.Z).Mul(math.Scale(radius, radius, radius))
		r.drawMesh(r.sphere, model, color)
	})
}
