package engine

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ShapeKind classifies a fragment for center analysis.
type ShapeKind string

const (
	// ShapeKindComplexPath marks fragments carrying path elements; the
	// general flatten-and-weigh machinery runs regardless of how simple
	// the path looks.
	ShapeKindComplexPath ShapeKind = "complex-path"
	// ShapeKindPolygon marks explicit polygon/polyline point lists.
	ShapeKindPolygon ShapeKind = "polygon"
	// ShapeKindBasic marks circle/ellipse/rect/line content, where the
	// bounding-box center is already the visual center.
	ShapeKindBasic ShapeKind = "basic"
	// ShapeKindEmpty marks fragments with no analyzable geometry.
	ShapeKindEmpty ShapeKind = "empty"
)

// Analyzer confidence levels. The floor is the consumer-side cutoff:
// below or at it, callers stay on the bounding-box center.
const (
	confidenceBasic      = 0.9
	confidencePolygon    = 0.85
	confidenceSinglePath = 0.8
	confidenceAgreement  = 0.9
	confidenceModerate   = 0.7
	confidenceDisagree   = 0.5
	confidenceNone       = 0.1

	ConfidenceFloor = 0.7
)

// Strategy-spread cutoffs in coordinate units.
const (
	spreadAgreement = 2.0
	spreadModerate  = 8.0
)

// degenerateArea is the signed-area magnitude below which a vertex loop
// counts as collapsed and the centroid falls back to the point mean.
const degenerateArea = 1e-6

// CenterResult carries both center candidates for a fragment plus the
// evidence for choosing between them.
type CenterResult struct {
	BoundsCenter Point     `json:"boundsCenter"`
	Centroid     Point     `json:"centroid"`
	UseCentroid  bool      `json:"useCentroid"`
	Kind         ShapeKind `json:"shapeKind"`
	Confidence   float64   `json:"confidence"`
}

// Effective returns the center a consumer should use: the centroid only
// when analysis produced one and trusts it above the floor.
func (r CenterResult) Effective() Point {
	if r.UseCentroid && r.Confidence > ConfidenceFloor {
		return r.Centroid
	}
	return r.BoundsCenter
}

// AnalyzeMarkup finds the visual center of an embedded vector fragment,
// in the fragment's own coordinate units.
//
// Fragments with any path element take the general path machinery;
// explicit polygons take the shoelace formula; symmetric primitives
// (circle/ellipse/rect/line) gain nothing from centroid analysis and
// report their coordinate-space center directly. A fragment that
// declares no usable viewBox yields zero bounds at rock-bottom
// confidence so callers prefer their own fallback over fabricated
// bounds.
func AnalyzeMarkup(markup string) CenterResult {
	info := scanMarkup(markup)
	switch {
	case len(info.paths) == 1:
		return analyzePoints(FlattenPath(info.paths[0]), ShapeKindComplexPath, confidenceSinglePath)
	case len(info.paths) > 1:
		return analyzeMultiPath(info.paths)
	case len(info.polygons) > 0:
		return analyzeRings(info.polygons)
	case info.basic:
		if !info.hasViewBox {
			return CenterResult{Kind: ShapeKindBasic, Confidence: confidenceNone}
		}
		c := Point{
			X: info.viewBox.MinX + info.viewBox.Width/2,
			Y: info.viewBox.MinY + info.viewBox.Height/2,
		}
		return CenterResult{BoundsCenter: c, Centroid: c, Kind: ShapeKindBasic, Confidence: confidenceBasic}
	default:
		return CenterResult{Kind: ShapeKindEmpty, Confidence: confidenceNone}
	}
}

// AnalyzePath analyzes a single path-command string.
func AnalyzePath(d string) CenterResult {
	return analyzePoints(FlattenPath(d), ShapeKindComplexPath, confidenceSinglePath)
}

// AnalyzePolygon analyzes an explicit closed vertex list.
func AnalyzePolygon(pts []Point) CenterResult {
	if len(pts) == 0 {
		return CenterResult{Kind: ShapeKindPolygon, Confidence: confidenceNone}
	}
	return analyzeRings([][]Point{pts})
}

func analyzePoints(pts []Point, kind ShapeKind, confidence float64) CenterResult {
	if len(pts) == 0 {
		return CenterResult{Kind: kind, Confidence: confidenceNone}
	}
	c, ok := shoelaceCentroid(pts)
	if !ok {
		c = meanPoint(pts)
	}
	return CenterResult{
		BoundsCenter: PointsBounds(pts).Center(),
		Centroid:     c,
		UseCentroid:  true,
		Kind:         kind,
		Confidence:   confidence,
	}
}

// analyzeRings combines one or more vertex loops, weighting each ring's
// shoelace centroid by its absolute area. Collapsed rings contribute
// their point mean at zero weight; if everything collapses the result
// falls back to the mean of all points.
func analyzeRings(rings [][]Point) CenterResult {
	var all []Point
	var weightedX, weightedY, totalArea float64
	for _, ring := range rings {
		all = append(all, ring...)
		c, area := shoelace(ring)
		if math.Abs(area) < degenerateArea {
			continue
		}
		w := math.Abs(area)
		weightedX += c.X * w
		weightedY += c.Y * w
		totalArea += w
	}
	if len(all) == 0 {
		return CenterResult{Kind: ShapeKindPolygon, Confidence: confidenceNone}
	}
	c := meanPoint(all)
	if totalArea >= degenerateArea {
		c = Point{X: weightedX / totalArea, Y: weightedY / totalArea}
	}
	return CenterResult{
		BoundsCenter: PointsBounds(all).Center(),
		Centroid:     c,
		UseCentroid:  true,
		Kind:         ShapeKindPolygon,
		Confidence:   confidencePolygon,
	}
}

// analyzeMultiPath weighs three centroid estimates against each other:
// an unweighted mean of per-path centers, an area-weighted mean, and a
// point-count-weighted mean. Agreement between the strategies decides
// which estimate wins and how much to trust it.
func analyzeMultiPath(paths []string) CenterResult {
	var xs, ys, areas, counts []float64
	var all []Point
	for _, d := range paths {
		pts := FlattenPath(d)
		if len(pts) == 0 {
			continue
		}
		b := PointsBounds(pts)
		c := b.Center()
		xs = append(xs, c.X)
		ys = append(ys, c.Y)
		areas = append(areas, b.Area())
		counts = append(counts, float64(len(pts)))
		all = append(all, pts...)
	}
	if len(xs) == 0 {
		return CenterResult{Kind: ShapeKindComplexPath, Confidence: confidenceNone}
	}
	boundsCenter := PointsBounds(all).Center()
	if len(xs) == 1 {
		// One usable path: nothing to cross-check.
		return CenterResult{
			BoundsCenter: boundsCenter,
			Centroid:     Point{X: xs[0], Y: ys[0]},
			UseCentroid:  true,
			Kind:         ShapeKindComplexPath,
			Confidence:   confidenceSinglePath,
		}
	}

	equal := Point{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)}
	area := weightedMean(xs, ys, areas, equal)
	complexity := weightedMean(xs, ys, counts, equal)

	estimates := []Point{equal, area, complexity}
	spread := estimateSpread(estimates)

	var chosen Point
	var confidence float64
	switch {
	case spread < spreadAgreement:
		chosen, confidence = area, confidenceAgreement
	case spread < spreadModerate:
		chosen, confidence = meanPoint(estimates), confidenceModerate
	default:
		chosen, confidence = equal, confidenceDisagree
	}
	return CenterResult{
		BoundsCenter: boundsCenter,
		Centroid:     chosen,
		UseCentroid:  true,
		Kind:         ShapeKindComplexPath,
		Confidence:   confidence,
	}
}

// weightedMean averages the centers with the given weights, falling back
// when the weights carry no mass.
func weightedMean(xs, ys, weights []float64, fallback Point) Point {
	if floats.Sum(weights) <= 0 {
		return fallback
	}
	return Point{X: stat.Mean(xs, weights), Y: stat.Mean(ys, weights)}
}

// estimateSpread is the Euclidean standard deviation of the estimates:
// the root-mean-square distance from their common mean, in coordinate
// units.
func estimateSpread(estimates []Point) float64 {
	m := meanPoint(estimates)
	var sum float64
	for _, e := range estimates {
		dx, dy := e.X-m.X, e.Y-m.Y
		sum += dx*dx + dy*dy
	}
	return math.Sqrt(sum / float64(len(estimates)))
}

func meanPoint(pts []Point) Point {
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return Point{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)}
}

// shoelaceCentroid computes the signed-area centroid of a closed vertex
// loop. ok is false for degenerate loops (fewer than three vertices or
// near-zero area), where the formula divides by nothing meaningful.
func shoelaceCentroid(pts []Point) (Point, bool) {
	c, area := shoelace(pts)
	if math.Abs(area) < degenerateArea {
		return Point{}, false
	}
	return c, true
}

func shoelace(pts []Point) (Point, float64) {
	if len(pts) < 3 {
		return Point{}, 0
	}
	var area, cx, cy float64
	for i := range pts {
		j := (i + 1) % len(pts)
		cross := pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
		area += cross
		cx += (pts[i].X + pts[j].X) * cross
		cy += (pts[i].Y + pts[j].Y) * cross
	}
	area /= 2
	if area == 0 {
		return Point{}, 0
	}
	return Point{X: cx / (6 * area), Y: cy / (6 * area)}, area
}
