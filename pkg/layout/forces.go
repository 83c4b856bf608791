package layout

import (
	"math"
	"math/rand"
)

// applyLinks pulls connected bodies toward their per-type rest distance.
// The correction is split between the endpoints by degree bias so hubs move
// less than their leaves, and scaled by min(strength, 1): stronger bonds
// pull harder rather than sit closer.
func applyLinks(bodies []body, springs []spring, alpha float64, rng *rand.Rand) {
	for i := range springs {
		s := &springs[i]
		src := &bodies[s.src]
		dst := &bodies[s.dst]

		dx := dst.x + dst.vx - src.x - src.vx
		dy := dst.y + dst.vy - src.y - src.vy
		if dx == 0 {
			dx = jiggle(rng)
		}
		if dy == 0 {
			dy = jiggle(rng)
		}
		dist := math.Sqrt(dx*dx + dy*dy)

		k := (dist - s.dist) / dist * alpha * s.coeff
		fx := dx * k
		fy := dy * k

		dst.vx -= fx * s.srcBias
		dst.vy -= fy * s.srcBias
		src.vx += fx * (1 - s.srcBias)
		src.vy += fy * (1 - s.srcBias)
	}
}

// applyManyBody repels every body pair, tier-1 bodies hardest, using the
// Barnes-Hut tree above a small population and an exact pass below it.
func applyManyBody(bodies []body, cfg Config, alpha float64, rng *rand.Rand) {
	const exactThreshold = 128

	if len(bodies) <= exactThreshold {
		for i := range bodies {
			for j := i + 1; j < len(bodies); j++ {
				a, b := &bodies[i], &bodies[j]
				dx := b.x - a.x
				dy := b.y - a.y
				if dx == 0 {
					dx = jiggle(rng)
				}
				if dy == 0 {
					dy = jiggle(rng)
				}
				d2 := dx*dx + dy*dy
				if d2 >= cfg.DistanceMax*cfg.DistanceMax {
					continue
				}
				// Each body feels the other's charge.
				wa := b.charge * alpha / d2
				wb := a.charge * alpha / d2
				a.vx += dx * wa
				a.vy += dy * wa
				b.vx -= dx * wb
				b.vy -= dy * wb
			}
		}
		return
	}

	qt := buildQuadtree(bodies)
	theta2 := cfg.Theta * cfg.Theta
	distMax2 := cfg.DistanceMax * cfg.DistanceMax
	for i := range bodies {
		tb := &bodies[i]
		qt.visit(int32(i), bodies, theta2, distMax2, func(cx, cy, charge float64) {
			dx := cx - tb.x
			dy := cy - tb.y
			if dx == 0 {
				dx = jiggle(rng)
			}
			if dy == 0 {
				dy = jiggle(rng)
			}
			d2 := dx*dx + dy*dy
			if d2 == 0 {
				return
			}
			w := charge * alpha / d2
			tb.vx += dx * w
			tb.vy += dy * w
		})
	}
}

// applyCenter drifts the whole system so its mean position tracks the canvas
// center. Pinned bodies are excluded from the mean but hold their ground.
func applyCenter(bodies []body, cfg Config) {
	if len(bodies) == 0 {
		return
	}
	var mx, my float64
	free := 0
	for i := range bodies {
		if bodies[i].fixed {
			continue
		}
		mx += bodies[i].x
		my += bodies[i].y
		free++
	}
	if free == 0 {
		return
	}
	sx := (cfg.Width/2 - mx/float64(free)) * cfg.CenterStrength
	sy := (cfg.Height/2 - my/float64(free)) * cfg.CenterStrength
	for i := range bodies {
		if bodies[i].fixed {
			continue
		}
		bodies[i].x += sx
		bodies[i].y += sy
	}
}

// applyCollide relaxes pairwise overlaps: any two centers closer than the
// sum of their radii plus the margin are pushed apart positionally. Returns
// the number of overlaps touched, so callers can iterate to a clean state.
func applyCollide(bodies []body, cfg Config, rng *rand.Rand) int {
	overlaps := 0
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			a, b := &bodies[i], &bodies[j]
			minDist := a.radius + b.radius + cfg.CollideMargin

			dx := b.x - a.x
			dy := b.y - a.y
			if dx == 0 {
				dx = jiggle(rng)
			}
			if dy == 0 {
				dy = jiggle(rng)
			}
			d2 := dx*dx + dy*dy
			if d2 >= minDist*minDist {
				continue
			}
			overlaps++

			dist := math.Sqrt(d2)
			push := (minDist - dist) / dist
			fx := dx * push
			fy := dy * push

			switch {
			case a.fixed && b.fixed:
				// Both pinned: the caller chose the overlap.
			case a.fixed:
				b.x += fx
				b.y += fy
			case b.fixed:
				a.x -= fx
				a.y -= fy
			default:
				a.x -= fx / 2
				a.y -= fy / 2
				b.x += fx / 2
				b.y += fy / 2
			}
		}
	}
	return overlaps
}
