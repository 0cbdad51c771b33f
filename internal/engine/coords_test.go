package engine

import (
	"math"
	"testing"

	"github.com/satkunas/sticker-factory/backend-go/internal/template"
)

const coordEps = 1e-9

func TestResolveCoordinate(t *testing.T) {
	tests := []struct {
		name   string
		value  template.Coord
		extent float64
		origin float64
		want   float64
	}{
		{"half percent", template.Expr("50%"), 200, 0, 100},
		{"negative percent", template.Expr("-10%"), 200, 0, -20},
		{"over hundred", template.Expr("150%"), 200, 0, 300},
		{"decimal percent", template.Expr("12.5%"), 400, 0, 50},
		{"percent with origin", template.Expr("50%"), 200, 10, 110},
		{"absolute ignores space", template.Abs(42), 200, 5, 42},
		{"absolute zero", template.Abs(0), 200, 5, 0},
		{"numeric string", template.Expr("42"), 200, 5, 42},
		{"junk string", template.Expr("abc"), 200, 5, 5},
		{"junk percent", template.Expr("abc%"), 200, 5, 5},
		{"empty string", template.Expr(""), 200, 5, 5},
		{"bare percent sign", template.Expr("%"), 200, 5, 5},
		{"padded percent", template.Expr(" 25% "), 200, 0, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveCoordinate(tt.value, tt.extent, tt.origin)
			if math.Abs(got-tt.want) > coordEps {
				t.Errorf("ResolveCoordinate(%v, %v, %v) = %v, want %v", tt.value, tt.extent, tt.origin, got, tt.want)
			}
		})
	}
}

func TestResolvePosition(t *testing.T) {
	tests := []struct {
		name string
		pos  template.Position
		vb   template.ViewBox
		want Point
	}{
		{
			"center of space",
			template.Position{X: template.Expr("50%"), Y: template.Expr("50%")},
			template.ViewBox{Width: 400, Height: 300},
			Point{X: 200, Y: 150},
		},
		{
			"axes resolve independently",
			template.Position{X: template.Expr("25%"), Y: template.Abs(12)},
			template.ViewBox{Width: 400, Height: 300},
			Point{X: 100, Y: 12},
		},
		{
			"origin offset applies to percentages",
			template.Position{X: template.Expr("50%"), Y: template.Expr("100%")},
			template.ViewBox{MinX: 10, MinY: 20, Width: 100, Height: 50},
			Point{X: 60, Y: 70},
		},
		{
			"junk coordinates land on the origin",
			template.Position{X: template.Expr("wat"), Y: template.Expr("nope")},
			template.ViewBox{MinX: 10, MinY: 20, Width: 100, Height: 50},
			Point{X: 10, Y: 20},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePosition(tt.pos, tt.vb)
			if math.Abs(got.X-tt.want.X) > coordEps || math.Abs(got.Y-tt.want.Y) > coordEps {
				t.Errorf("ResolvePosition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveLinePosition(t *testing.T) {
	vb := template.ViewBox{Width: 200, Height: 100}
	lp := template.LinePoints{
		X1: template.Expr("0%"),
		Y1: template.Expr("50%"),
		X2: template.Expr("100%"),
		Y2: template.Abs(80),
	}
	got := ResolveLinePosition(lp, vb)
	want := Line{X1: 0, Y1: 50, X2: 200, Y2: 80}
	if got != want {
		t.Errorf("ResolveLinePosition() = %+v, want %+v", got, want)
	}
}
