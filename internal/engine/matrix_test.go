package engine

import (
	"math"
	"testing"
)

func matrixApprox(a, b Matrix2D, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func TestMatrixTransformPoint(t *testing.T) {
	tests := []struct {
		name         string
		m            Matrix2D
		x, y         float64
		wantX, wantY float64
	}{
		{"identity", Identity(), 3, 4, 3, 4},
		{"translate", Translate(10, -5), 3, 4, 13, -1},
		{"scale", Scale(2, 3), 3, 4, 6, 12},
		{"quarter turn", RotateDegrees(90), 1, 0, 0, 1},
		{"half turn", RotateDegrees(180), 1, 0, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.m.TransformPoint(tt.x, tt.y)
			if math.Abs(x-tt.wantX) > 1e-9 || math.Abs(y-tt.wantY) > 1e-9 {
				t.Errorf("TransformPoint(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

// Multiply composes right-to-left: the right operand applies to points
// first.
func TestMatrixMultiplyOrder(t *testing.T) {
	m := Translate(5, 0).Multiply(RotateDegrees(90))
	x, y := m.TransformPoint(1, 0)
	if math.Abs(x-5) > 1e-9 || math.Abs(y-1) > 1e-9 {
		t.Errorf("translate*rotate maps (1,0) to (%v, %v), want (5, 1)", x, y)
	}

	m = RotateDegrees(90).Multiply(Translate(5, 0))
	x, y = m.TransformPoint(1, 0)
	if math.Abs(x) > 1e-9 || math.Abs(y-6) > 1e-9 {
		t.Errorf("rotate*translate maps (1,0) to (%v, %v), want (0, 6)", x, y)
	}
}

func TestMatrixTransformRect(t *testing.T) {
	r := RotateDegrees(45).TransformRect(Rect{X: -0.5, Y: -0.5, Width: 1, Height: 1})
	want := math.Sqrt2
	if math.Abs(r.Width-want) > 1e-9 || math.Abs(r.Height-want) > 1e-9 {
		t.Errorf("rotated unit square bbox = %v x %v, want %v x %v", r.Width, r.Height, want, want)
	}
	if math.Abs(r.X+want/2) > 1e-9 || math.Abs(r.Y+want/2) > 1e-9 {
		t.Errorf("rotated unit square bbox origin = (%v, %v), want centered", r.X, r.Y)
	}
}

func TestMatrixDeterminant(t *testing.T) {
	if got := Scale(2, 3).Determinant(); math.Abs(got-6) > 1e-9 {
		t.Errorf("Determinant() = %v, want 6", got)
	}
}

func TestMatrixInvert(t *testing.T) {
	m := Translate(7, -2).Multiply(RotateDegrees(30)).Multiply(Scale(2, 2))
	if !matrixApprox(m.Multiply(m.Invert()), Identity(), 1e-9) {
		t.Error("m * m.Invert() is not identity")
	}
	if !m.Invert().Multiply(m).IsIdentity() {
		t.Error("m.Invert() * m is not identity")
	}
}

func TestMatrixInvertSingular(t *testing.T) {
	if got := Scale(0, 0).Invert(); !got.IsIdentity() {
		t.Errorf("singular inverse = %v, want identity", got)
	}
}

func TestPointsBounds(t *testing.T) {
	tests := []struct {
		name string
		pts  []Point
		want Rect
	}{
		{"empty", nil, Rect{}},
		{"single point", []Point{{3, 4}}, Rect{X: 3, Y: 4}},
		{
			"spread",
			[]Point{{-1, 2}, {5, -3}, {0, 0}},
			Rect{X: -1, Y: -3, Width: 6, Height: 5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointsBounds(tt.pts); got != tt.want {
				t.Errorf("PointsBounds() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
