package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/satkunas/sticker-factory/backend-go/internal/template"
)

// CompileShapePath converts a shape layer into a path-command string
// centered at the resolved position. Shape semantics do not survive past
// this point: downstream consumers only ever see the path string.
//
// rect/circle/ellipse/polygon outputs are closed; line is a two-point
// open path; the path subtype passes its data through verbatim so a
// layer can act as a guide or clip source. An unknown subtype compiles
// to the empty string, which downstream treats as "no geometry".
func CompileShapePath(s *template.ShapeLayer, center Point, vb template.ViewBox) string {
	if s == nil {
		return ""
	}
	switch s.Subtype {
	case template.ShapeRect:
		return rectPath(s, center)
	case template.ShapeCircle:
		r := s.Width / 2
		return ellipsePath(center, r, r)
	case template.ShapeEllipse:
		return ellipsePath(center, s.Width/2, s.Height/2)
	case template.ShapePolygon:
		return polygonPath(s.Points)
	case template.ShapeLine:
		return linePath(s, vb)
	case template.ShapePath:
		return s.D
	default:
		return ""
	}
}

func rectPath(s *template.ShapeLayer, center Point) string {
	w, h := s.Width, s.Height
	x, y := center.X-w/2, center.Y-h/2

	rx, ry, rounded := cornerRadii(s, w, h)
	if !rounded {
		return fmt.Sprintf("M %s %s L %s %s L %s %s L %s %s Z",
			num(x), num(y),
			num(x+w), num(y),
			num(x+w), num(y+h),
			num(x), num(y+h))
	}

	// Rounded corners as quadratic curves through the corner point.
	var b strings.Builder
	fmt.Fprintf(&b, "M %s %s", num(x+rx), num(y))
	fmt.Fprintf(&b, " L %s %s", num(x+w-rx), num(y))
	fmt.Fprintf(&b, " Q %s %s %s %s", num(x+w), num(y), num(x+w), num(y+ry))
	fmt.Fprintf(&b, " L %s %s", num(x+w), num(y+h-ry))
	fmt.Fprintf(&b, " Q %s %s %s %s", num(x+w), num(y+h), num(x+w-rx), num(y+h))
	fmt.Fprintf(&b, " L %s %s", num(x+rx), num(y+h))
	fmt.Fprintf(&b, " Q %s %s %s %s", num(x), num(y+h), num(x), num(y+h-ry))
	fmt.Fprintf(&b, " L %s %s", num(x), num(y+ry))
	fmt.Fprintf(&b, " Q %s %s %s %s", num(x), num(y), num(x+rx), num(y))
	b.WriteString(" Z")
	return b.String()
}

// cornerRadii applies the SVG rx/ry convention: a single declared radius
// stands in for both, and radii clamp to half the rectangle side.
func cornerRadii(s *template.ShapeLayer, w, h float64) (rx, ry float64, rounded bool) {
	if s.RX == nil && s.RY == nil {
		return 0, 0, false
	}
	switch {
	case s.RX != nil && s.RY != nil:
		rx, ry = *s.RX, *s.RY
	case s.RX != nil:
		rx, ry = *s.RX, *s.RX
	default:
		rx, ry = *s.RY, *s.RY
	}
	if rx <= 0 && ry <= 0 {
		return 0, 0, false
	}
	rx = clamp(rx, 0, w/2)
	ry = clamp(ry, 0, h/2)
	return rx, ry, true
}

// ellipsePath draws the outline as two 180° arcs meeting at the
// horizontal extremes.
func ellipsePath(center Point, rx, ry float64) string {
	return fmt.Sprintf("M %s %s A %s %s 0 1 0 %s %s A %s %s 0 1 0 %s %s Z",
		num(center.X-rx), num(center.Y),
		num(rx), num(ry), num(center.X+rx), num(center.Y),
		num(rx), num(ry), num(center.X-rx), num(center.Y))
}

func polygonPath(pts []template.Point) string {
	if len(pts) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "M %s %s", num(pts[0].X), num(pts[0].Y))
	for _, p := range pts[1:] {
		fmt.Fprintf(&b, " L %s %s", num(p.X), num(p.Y))
	}
	b.WriteString(" Z")
	return b.String()
}

func linePath(s *template.ShapeLayer, vb template.ViewBox) string {
	if s.Line == nil {
		return ""
	}
	l := ResolveLinePosition(*s.Line, vb)
	return fmt.Sprintf("M %s %s L %s %s", num(l.X1), num(l.Y1), num(l.X2), num(l.Y2))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// num formats a coordinate with the shortest representation that
// round-trips, keeping path strings stable for tests and diffs.
func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
