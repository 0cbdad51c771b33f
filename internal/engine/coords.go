package engine

import (
	"github.com/satkunas/sticker-factory/backend-go/internal/template"
)

// ResolveCoordinate converts a template coordinate into an absolute value
// against one axis of a coordinate space. Percentages resolve to
// origin + extent*(pct/100); plain numbers pass through unchanged; any
// other string resolves to the origin. Never fails.
func ResolveCoordinate(c template.Coord, extent, origin float64) float64 {
	if pct, ok := c.Percent(); ok {
		return origin + extent*(pct/100)
	}
	if n, ok := c.Absolute(); ok {
		return n
	}
	return origin
}

// ResolvePosition resolves a center-anchored layer position, x against
// the horizontal axis and y against the vertical axis independently.
func ResolvePosition(p template.Position, vb template.ViewBox) Point {
	return Point{
		X: ResolveCoordinate(p.X, vb.Width, vb.MinX),
		Y: ResolveCoordinate(p.Y, vb.Height, vb.MinY),
	}
}

// Line is a resolved pair of line endpoints.
type Line struct {
	X1, Y1, X2, Y2 float64
}

// ResolveLinePosition resolves all four endpoints of a line shape.
func ResolveLinePosition(lp template.LinePoints, vb template.ViewBox) Line {
	return Line{
		X1: ResolveCoordinate(lp.X1, vb.Width, vb.MinX),
		Y1: ResolveCoordinate(lp.Y1, vb.Height, vb.MinY),
		X2: ResolveCoordinate(lp.X2, vb.Width, vb.MinX),
		Y2: ResolveCoordinate(lp.Y2, vb.Height, vb.MinY),
	}
}
