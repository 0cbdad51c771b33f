package template

import (
	"github.com/satkunas/sticker-factory/backend-go/internal/typeid"
)

// NewSampleTemplate builds a round badge sticker exercising every layer
// kind: background and border shapes, a curved title following a guide
// arc, a pivoted icon, and a straight subtitle.
func NewSampleTemplate() *Template {
	borderID := typeid.NewLayerID()
	bgID := typeid.NewLayerID()
	guideID := typeid.NewLayerID()
	iconID := typeid.NewLayerID()
	titleID := typeid.NewLayerID()
	subtitleID := typeid.NewLayerID()

	rotation := 15.0
	strokeFour := 4.0

	return &Template{
		ID:      typeid.NewTemplateID(),
		Name:    "Round Badge",
		ViewBox: ViewBox{Width: 256, Height: 256},
		Layers: []Layer{
			{
				ID:       borderID,
				Kind:     LayerShape,
				Position: Position{X: Pct(50), Y: Pct(50)},
				Shape: &ShapeLayer{
					Subtype: ShapeCircle,
					Width:   240,
					Height:  240,
					Style: Style{
						Fill:        "#f4f1de",
						Stroke:      "#3d405b",
						StrokeWidth: &strokeFour,
					},
				},
			},
			{
				ID:       bgID,
				Kind:     LayerShape,
				Position: Position{X: Pct(50), Y: Pct(50)},
				Shape: &ShapeLayer{
					Subtype: ShapeCircle,
					Width:   204,
					Height:  204,
					Style: Style{
						Fill: "#81b29a",
					},
				},
			},
			{
				// Upper arc the title follows; no paint, defs only.
				ID:       guideID,
				Kind:     LayerShape,
				Position: Position{X: Pct(50), Y: Pct(50)},
				Shape: &ShapeLayer{
					Subtype: ShapePath,
					D:       "M 40 128 A 88 88 0 0 1 216 128",
				},
			},
			{
				ID:              iconID,
				Kind:            LayerIcon,
				Position:        Position{X: Pct(50), Y: Pct(44)},
				Rotation:        &rotation,
				TransformOrigin: &Point{X: 12, Y: 12},
				Icon: &IconLayer{
					Markup: `<svg viewBox="0 0 24 24"><path d="M12 2 L15 9 L22 9.5 L16.8 14.3 L18.5 21.5 L12 17.6 L5.5 21.5 L7.2 14.3 L2 9.5 L9 9 Z"/></svg>`,
					Width:  84,
					Height: 84,
					Fill:   "#e07a5f",
				},
			},
			{
				ID:       titleID,
				Kind:     LayerText,
				Position: Position{X: Pct(50), Y: Pct(18)},
				Text: &TextLayer{
					Content:    "STICKER FACTORY",
					FontFamily: "Bebas Neue",
					FontSize:   26,
					FontWeight: "700",
					PathLayer:  guideID,
					Style: Style{
						Fill: "#3d405b",
					},
				},
			},
			{
				ID:       subtitleID,
				Kind:     LayerText,
				Position: Position{X: Pct(50), Y: Pct(76)},
				Text: &TextLayer{
					Content:    "EST. 2024",
					FontFamily: "Inter",
					FontSize:   16,
					Style: Style{
						Fill: "#f4f1de",
					},
				},
			},
		},
	}
}
