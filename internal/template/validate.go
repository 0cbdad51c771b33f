package template

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidSpace  = errors.New("coordinate space extent must be positive and finite")
	ErrDuplicateID   = errors.New("duplicate layer id")
	ErrUnknownKind   = errors.New("unknown layer kind")
	ErrKindMismatch  = errors.New("layer payload does not match its kind")
	ErrDanglingRef   = errors.New("reference to missing layer")
	ErrInvalidScale  = errors.New("scale must be positive")
	ErrIconNoContent = errors.New("icon layer needs markup or an icon id")
)

// Validate rejects caller contract violations before any geometry runs.
// Everything past this boundary degrades instead of failing.
func Validate(t *Template) error {
	space := t.Space()
	if !finitePositive(space.Width) || !finitePositive(space.Height) ||
		!finite(space.MinX) || !finite(space.MinY) {
		return fmt.Errorf("%w: %.6g x %.6g", ErrInvalidSpace, space.Width, space.Height)
	}

	seen := make(map[string]bool, len(t.Layers))
	shapes := make(map[string]*ShapeLayer, len(t.Layers))
	for i := range t.Layers {
		l := &t.Layers[i]
		if l.ID == "" {
			return fmt.Errorf("layer %d: missing id", i)
		}
		if seen[l.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateID, l.ID)
		}
		seen[l.ID] = true
		if l.Kind == LayerShape {
			shapes[l.ID] = l.Shape
		}
	}

	for i := range t.Layers {
		l := &t.Layers[i]
		if err := validateLayer(l, shapes); err != nil {
			return fmt.Errorf("layer %q: %w", l.ID, err)
		}
	}
	return nil
}

func validateLayer(l *Layer, shapes map[string]*ShapeLayer) error {
	switch l.Kind {
	case LayerShape:
		if l.Shape == nil || l.Text != nil || l.Icon != nil {
			return ErrKindMismatch
		}
	case LayerText:
		if l.Text == nil || l.Shape != nil || l.Icon != nil {
			return ErrKindMismatch
		}
		if l.Text.PathLayer != "" {
			if _, ok := shapes[l.Text.PathLayer]; !ok {
				return fmt.Errorf("%w: pathLayer %q", ErrDanglingRef, l.Text.PathLayer)
			}
		}
	case LayerIcon:
		if l.Icon == nil || l.Shape != nil || l.Text != nil {
			return ErrKindMismatch
		}
		if l.Icon.Markup == "" && l.Icon.IconID == "" {
			return ErrIconNoContent
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, l.Kind)
	}

	if l.Scale != nil && (!finite(*l.Scale) || *l.Scale <= 0) {
		return fmt.Errorf("%w: %.6g", ErrInvalidScale, *l.Scale)
	}
	if l.Clip != "" {
		if _, ok := shapes[l.Clip]; !ok {
			return fmt.Errorf("%w: clip %q", ErrDanglingRef, l.Clip)
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func finitePositive(f float64) bool {
	return finite(f) && f > 0
}
