package layout

import "math"

// quadtree is a Barnes-Hut accelerator for the many-body force. Internal
// nodes aggregate the charge and charge-weighted center of their subtree so
// distant regions can act as a single point charge.
type quadtree struct {
	nodes []quadCell
}

type quadCell struct {
	// children are indices into quadtree.nodes; -1 means empty. A cell
	// with body >= 0 and no children is a leaf holding one body.
	children [4]int32
	body     int32

	x0, y0, x1, y1 float64 // cell bounds
	charge         float64 // aggregate charge of the subtree
	cx, cy         float64 // charge-weighted center
}

const noCell = int32(-1)

// buildQuadtree inserts every body into a fresh tree covering their bounding
// square.
func buildQuadtree(bodies []body) *quadtree {
	if len(bodies) == 0 {
		return &quadtree{}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range bodies {
		minX = math.Min(minX, bodies[i].x)
		maxX = math.Max(maxX, bodies[i].x)
		minY = math.Min(minY, bodies[i].y)
		maxY = math.Max(maxY, bodies[i].y)
	}
	// Square cells keep the theta criterion isotropic.
	side := math.Max(maxX-minX, maxY-minY)
	if side == 0 {
		side = 1
	}

	qt := &quadtree{nodes: make([]quadCell, 0, 2*len(bodies))}
	root := qt.newCell(minX, minY, minX+side, minY+side)
	for i := range bodies {
		qt.insert(root, int32(i), bodies)
	}
	qt.aggregate(root, bodies)
	return qt
}

func (qt *quadtree) newCell(x0, y0, x1, y1 float64) int32 {
	qt.nodes = append(qt.nodes, quadCell{
		children: [4]int32{noCell, noCell, noCell, noCell},
		body:     noCell,
		x0:       x0, y0: y0, x1: x1, y1: y1,
	})
	return int32(len(qt.nodes) - 1)
}

func (qt *quadtree) quadrant(cell int32, x, y float64) int {
	c := &qt.nodes[cell]
	mx := (c.x0 + c.x1) / 2
	my := (c.y0 + c.y1) / 2
	q := 0
	if x >= mx {
		q |= 1
	}
	if y >= my {
		q |= 2
	}
	return q
}

func (qt *quadtree) childBounds(cell int32, q int) (float64, float64, float64, float64) {
	c := &qt.nodes[cell]
	mx := (c.x0 + c.x1) / 2
	my := (c.y0 + c.y1) / 2
	x0, y0, x1, y1 := c.x0, c.y0, mx, my
	if q&1 != 0 {
		x0, x1 = mx, c.x1
	}
	if q&2 != 0 {
		y0, y1 = my, c.y1
	}
	return x0, y0, x1, y1
}

func (qt *quadtree) insert(cell, bodyIdx int32, bodies []body) {
	for depth := 0; ; depth++ {
		c := &qt.nodes[cell]
		hasChildren := c.children[0] != noCell || c.children[1] != noCell ||
			c.children[2] != noCell || c.children[3] != noCell

		if !hasChildren && c.body == noCell {
			c.body = bodyIdx
			return
		}

		// Coincident bodies would split forever; chain them at depth.
		if depth > 48 {
			return
		}

		if !hasChildren {
			// Leaf with one occupant: push it down before descending.
			old := c.body
			c.body = noCell
			oq := qt.quadrant(cell, bodies[old].x, bodies[old].y)
			x0, y0, x1, y1 := qt.childBounds(cell, oq)
			child := qt.newCell(x0, y0, x1, y1)
			qt.nodes[cell].children[oq] = child
			qt.nodes[child].body = old
		}

		q := qt.quadrant(cell, bodies[bodyIdx].x, bodies[bodyIdx].y)
		if qt.nodes[cell].children[q] == noCell {
			x0, y0, x1, y1 := qt.childBounds(cell, q)
			child := qt.newCell(x0, y0, x1, y1)
			qt.nodes[cell].children[q] = child
		}
		cell = qt.nodes[cell].children[q]
	}
}

// aggregate computes subtree charges and centers bottom-up.
func (qt *quadtree) aggregate(cell int32, bodies []body) (float64, float64, float64) {
	c := &qt.nodes[cell]
	var charge, wx, wy float64

	if c.body != noCell {
		b := &bodies[c.body]
		charge = b.charge
		wx = b.x * b.charge
		wy = b.y * b.charge
	}
	for _, child := range c.children {
		if child == noCell {
			continue
		}
		cc, cx, cy := qt.aggregate(child, bodies)
		charge += cc
		wx += cx
		wy += cy
	}

	c = &qt.nodes[cell]
	c.charge = charge
	if charge != 0 {
		c.cx = wx / charge
		c.cy = wy / charge
	}
	return charge, wx, wy
}

// visit walks the tree for one target body, calling apply for every cell (or
// leaf body) that the theta criterion accepts as a far-field approximation.
func (qt *quadtree) visit(target int32, bodies []body, theta2, distMax2 float64, apply func(cx, cy, charge float64)) {
	if len(qt.nodes) == 0 {
		return
	}
	tb := &bodies[target]
	stack := make([]int32, 0, 64)
	stack = append(stack, 0)

	for len(stack) > 0 {
		cell := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		c := &qt.nodes[cell]

		if c.charge == 0 {
			continue
		}

		dx := c.cx - tb.x
		dy := c.cy - tb.y
		d2 := dx*dx + dy*dy
		width := c.x1 - c.x0

		// Far enough: treat the whole subtree as one charge.
		if width*width < theta2*d2 {
			if d2 < distMax2 {
				apply(c.cx, c.cy, c.charge)
			}
			continue
		}

		if c.body != noCell {
			if c.body != target {
				b := &bodies[c.body]
				bdx := b.x - tb.x
				bdy := b.y - tb.y
				if bdx*bdx+bdy*bdy < distMax2 {
					apply(b.x, b.y, b.charge)
				}
			}
		}
		for _, child := range c.children {
			if child != noCell {
				stack = append(stack, child)
			}
		}
	}
}
