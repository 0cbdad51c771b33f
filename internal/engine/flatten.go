package engine

// Sampling densities for curve flattening. These are fixed so runtime
// stays linear in input size and identical inputs always flatten to
// identical point sequences.
const (
	cubicFlattenSteps = 10
	quadFlattenSteps  = 8
	arcFlattenSteps   = 8
)

// FlattenPath converts path data into an ordered point sequence by
// walking the commands with a cursor and a subpath start point. Curves
// contribute sampled intermediate points; close commands revisit the
// subpath start. The sequence is consumed by center-of-mass analysis
// and discarded, it is not a render representation.
func FlattenPath(d string) []Point {
	var pts []Point
	var cur, start Point
	for _, cmd := range parsePath(d) {
		a := cmd.args
		switch cmd.op {
		case 'M':
			cur = Point{X: a[0], Y: a[1]}
			start = cur
			pts = append(pts, cur)
		case 'm':
			cur = Point{X: cur.X + a[0], Y: cur.Y + a[1]}
			start = cur
			pts = append(pts, cur)
		case 'L':
			cur = Point{X: a[0], Y: a[1]}
			pts = append(pts, cur)
		case 'l':
			cur = Point{X: cur.X + a[0], Y: cur.Y + a[1]}
			pts = append(pts, cur)
		case 'H':
			cur.X = a[0]
			pts = append(pts, cur)
		case 'h':
			cur.X += a[0]
			pts = append(pts, cur)
		case 'V':
			cur.Y = a[0]
			pts = append(pts, cur)
		case 'v':
			cur.Y += a[0]
			pts = append(pts, cur)
		case 'C':
			c1 := Point{X: a[0], Y: a[1]}
			c2 := Point{X: a[2], Y: a[3]}
			end := Point{X: a[4], Y: a[5]}
			pts = sampleCubic(pts, cur, c1, c2, end)
			cur = end
		case 'c':
			c1 := Point{X: cur.X + a[0], Y: cur.Y + a[1]}
			c2 := Point{X: cur.X + a[2], Y: cur.Y + a[3]}
			end := Point{X: cur.X + a[4], Y: cur.Y + a[5]}
			pts = sampleCubic(pts, cur, c1, c2, end)
			cur = end
		case 'Q':
			c := Point{X: a[0], Y: a[1]}
			end := Point{X: a[2], Y: a[3]}
			pts = sampleQuad(pts, cur, c, end)
			cur = end
		case 'q':
			c := Point{X: cur.X + a[0], Y: cur.Y + a[1]}
			end := Point{X: cur.X + a[2], Y: cur.Y + a[3]}
			pts = sampleQuad(pts, cur, c, end)
			cur = end
		case 'A', 'a':
			end := Point{X: a[5], Y: a[6]}
			if cmd.op == 'a' {
				end.X += cur.X
				end.Y += cur.Y
			}
			// Arc segments interpolate straight between endpoints rather
			// than along the ellipse. Centers computed downstream depend
			// on this, so a true elliptical evaluation here is a behavior
			// change for arc-heavy icons, not a cleanup.
			for i := 1; i <= arcFlattenSteps; i++ {
				t := float64(i) / arcFlattenSteps
				pts = append(pts, lerp(cur, end, t))
			}
			cur = end
		case 'Z', 'z':
			cur = start
			pts = append(pts, start)
		}
	}
	return pts
}

func lerp(a, b Point, t float64) Point {
	return Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// sampleCubic appends cubicFlattenSteps points along a cubic Bezier via
// de Casteljau evaluation. t=0 is skipped: the cursor point is already
// in the sequence.
func sampleCubic(pts []Point, p0, c1, c2, p1 Point) []Point {
	for i := 1; i <= cubicFlattenSteps; i++ {
		t := float64(i) / cubicFlattenSteps
		ab := lerp(p0, c1, t)
		bc := lerp(c1, c2, t)
		cd := lerp(c2, p1, t)
		pts = append(pts, lerp(lerp(ab, bc, t), lerp(bc, cd, t), t))
	}
	return pts
}

func sampleQuad(pts []Point, p0, c, p1 Point) []Point {
	for i := 1; i <= quadFlattenSteps; i++ {
		t := float64(i) / quadFlattenSteps
		pts = append(pts, lerp(lerp(p0, c, t), lerp(c, p1, t), t))
	}
	return pts
}
