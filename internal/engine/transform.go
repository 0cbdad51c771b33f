package engine

import (
	"fmt"
	"strings"

	"github.com/satkunas/sticker-factory/backend-go/internal/template"
)

type OpKind string

const (
	OpTranslate OpKind = "translate"
	OpScale     OpKind = "scale"
	OpRotate    OpKind = "rotate"
)

// Op is one primitive transform operation. Translate carries dx/dy,
// scale a uniform factor, rotate degrees.
type Op struct {
	Kind OpKind
	X    float64
	Y    float64
}

func TranslateOp(dx, dy float64) Op { return Op{Kind: OpTranslate, X: dx, Y: dy} }
func ScaleOp(s float64) Op          { return Op{Kind: OpScale, X: s} }
func RotateOp(deg float64) Op       { return Op{Kind: OpRotate, X: deg} }

// Chain is an ordered operation list. Listed order is outermost-first,
// matching how an SVG transform attribute reads: the last operation
// applies to points first.
type Chain []Op

// Attr serializes the chain as an SVG transform attribute value. An
// empty chain serializes to the empty string (no attribute emitted).
func (c Chain) Attr() string {
	if len(c) == 0 {
		return ""
	}
	parts := make([]string, len(c))
	for i, op := range c {
		switch op.Kind {
		case OpTranslate:
			parts[i] = fmt.Sprintf("translate(%s, %s)", num(op.X), num(op.Y))
		case OpScale:
			parts[i] = fmt.Sprintf("scale(%s)", num(op.X))
		case OpRotate:
			parts[i] = fmt.Sprintf("rotate(%s)", num(op.X))
		}
	}
	return strings.Join(parts, " ")
}

// Matrix evaluates the chain into a single affine matrix.
func (c Chain) Matrix() Matrix2D {
	m := Identity()
	for _, op := range c {
		switch op.Kind {
		case OpTranslate:
			m = m.Multiply(Translate(op.X, op.Y))
		case OpScale:
			m = m.Multiply(Scale(op.X, op.X))
		case OpRotate:
			m = m.Multiply(RotateDegrees(op.X))
		}
	}
	return m
}

// TransformParams are the optional transform attributes of a layer. The
// origin, when set, is a pivot in the layer's local space, already in
// outer units (see ScaleOriginToOuter for icon-space pivots).
type TransformParams struct {
	Scale    *float64
	Rotation *float64
	Origin   *Point
}

// ComposeTransform builds the inner operation chain for a layer. Cases
// in priority order:
//
//  1. origin with scale and/or rotation: translate to the pivot, scale
//     (1 when rotation-only), optionally rotate, translate back, so the
//     pivot point itself does not move.
//  2. scale and rotation: applied about the local origin.
//  3. scale only.
//  4. rotation only.
//  5. neither: empty chain.
func ComposeTransform(p TransformParams) Chain {
	hasScale := p.Scale != nil
	hasRotation := p.Rotation != nil

	switch {
	case p.Origin != nil && (hasScale || hasRotation):
		s := 1.0
		if hasScale {
			s = *p.Scale
		}
		chain := Chain{TranslateOp(p.Origin.X, p.Origin.Y), ScaleOp(s)}
		if hasRotation {
			chain = append(chain, RotateOp(*p.Rotation))
		}
		return append(chain, TranslateOp(-p.Origin.X, -p.Origin.Y))
	case hasScale && hasRotation:
		return Chain{ScaleOp(*p.Scale), RotateOp(*p.Rotation)}
	case hasScale:
		return Chain{ScaleOp(*p.Scale)}
	case hasRotation:
		return Chain{RotateOp(*p.Rotation)}
	default:
		return nil
	}
}

// ComposeIconTransform wraps the inner chain for an icon layer. Icon
// content paints from its own top-left, so after translating to the
// resolved position a second translate recenters the w×h box; the inner
// chain then pivots within it. Under this ordering the pivot maps to
// the same final coordinate whether or not scale/rotate are present.
func ComposeIconTransform(position Point, width, height float64, p TransformParams) Chain {
	chain := Chain{
		TranslateOp(position.X, position.Y),
		TranslateOp(-width/2, -height/2),
	}
	return append(chain, ComposeTransform(p)...)
}

// ScaleOriginToOuter maps a pivot expressed in an icon's own coordinate
// space into outer units, per axis, by the ratio of the painted size to
// the icon's viewBox extent. A degenerate viewBox leaves the pivot
// untouched rather than producing non-finite values.
func ScaleOriginToOuter(origin Point, width, height float64, vb template.ViewBox) Point {
	out := origin
	if vb.Width > 0 {
		out.X = origin.X * (width / vb.Width)
	}
	if vb.Height > 0 {
		out.Y = origin.Y * (height / vb.Height)
	}
	return out
}
