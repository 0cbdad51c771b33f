package template

import (
	"encoding/json"
	"testing"
)

func TestCoordUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Coord
	}{
		{"number", `42`, Coord{Num: 42}},
		{"negative number", `-3.5`, Coord{Num: -3.5}},
		{"percentage string", `"50%"`, Coord{Str: "50%", IsStr: true}},
		{"numeric string", `"42"`, Coord{Str: "42", IsStr: true}},
		{"junk string", `"center"`, Coord{Str: "center", IsStr: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Coord
			if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
				t.Fatalf("Unmarshal(%s): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCoordUnmarshalRejectsOtherTypes(t *testing.T) {
	for _, in := range []string{`true`, `[1]`, `{"x":1}`} {
		var c Coord
		if err := json.Unmarshal([]byte(in), &c); err == nil {
			t.Errorf("Unmarshal(%s) accepted, want error", in)
		}
	}
}

func TestCoordMarshalRoundTrip(t *testing.T) {
	for _, c := range []Coord{Abs(42), Abs(-3.5), Expr("50%"), Expr("junk"), Pct(12.5)} {
		data, err := json.Marshal(c)
		if err != nil {
			t.Fatalf("Marshal(%+v): %v", c, err)
		}
		var got Coord
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal(%s): %v", data, err)
		}
		if got != c {
			t.Errorf("round trip %+v -> %s -> %+v", c, data, got)
		}
	}
}

func TestCoordPercent(t *testing.T) {
	tests := []struct {
		name string
		c    Coord
		want float64
		ok   bool
	}{
		{"percentage", Expr("50%"), 50, true},
		{"negative percentage", Expr("-10%"), -10, true},
		{"decimal percentage", Expr("12.5%"), 12.5, true},
		{"padded", Expr(" 25% "), 25, true},
		{"constructor", Pct(75), 75, true},
		{"number is not a percentage", Abs(50), 0, false},
		{"numeric string is not a percentage", Expr("50"), 0, false},
		{"junk prefix", Expr("abc%"), 0, false},
		{"bare sign", Expr("%"), 0, false},
		{"empty", Expr(""), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.c.Percent()
			if got != tt.want || ok != tt.ok {
				t.Errorf("Percent() = %v, %v, want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCoordAbsolute(t *testing.T) {
	tests := []struct {
		name string
		c    Coord
		want float64
		ok   bool
	}{
		{"number", Abs(42), 42, true},
		{"zero", Abs(0), 0, true},
		{"numeric string", Expr("42"), 42, true},
		{"padded numeric string", Expr(" 7 "), 7, true},
		{"percentage is not absolute", Expr("50%"), 0, false},
		{"junk", Expr("abc"), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.c.Absolute()
			if got != tt.want || ok != tt.ok {
				t.Errorf("Absolute() = %v, %v, want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestTemplateSpace(t *testing.T) {
	tests := []struct {
		name string
		tpl  Template
		want ViewBox
	}{
		{
			"explicit viewBox wins",
			Template{Width: 10, Height: 10, ViewBox: ViewBox{MinX: -5, MinY: -5, Width: 20, Height: 20}},
			ViewBox{MinX: -5, MinY: -5, Width: 20, Height: 20},
		},
		{
			"derived from width and height",
			Template{Width: 400, Height: 300},
			ViewBox{Width: 400, Height: 300},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tpl.Space(); got != tt.want {
				t.Errorf("Space() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestViewBoxAttr(t *testing.T) {
	vb := ViewBox{MinX: -5, MinY: 0, Width: 200, Height: 100.5}
	if got, want := vb.Attr(), "-5 0 200 100.5"; got != want {
		t.Errorf("Attr() = %q, want %q", got, want)
	}
}

func TestTemplateLayerLookup(t *testing.T) {
	tpl := Template{Layers: []Layer{{ID: "a"}, {ID: "b"}}}
	if l := tpl.Layer("b"); l == nil || l.ID != "b" {
		t.Errorf("Layer(%q) = %+v", "b", l)
	}
	if l := tpl.Layer("nope"); l != nil {
		t.Errorf("Layer(%q) = %+v, want nil", "nope", l)
	}
}

// A full document decode: the layer kind selects its payload, positions
// mix numbers and percentage strings.
func TestTemplateUnmarshal(t *testing.T) {
	raw := `{
		"name": "badge",
		"viewBox": {"minX": 0, "minY": 0, "width": 256, "height": 256},
		"layers": [
			{
				"id": "bg",
				"type": "shape",
				"position": {"x": "50%", "y": "50%"},
				"shape": {"subtype": "circle", "width": 240, "fill": "#f4f1de", "strokeWidth": 4}
			},
			{
				"id": "title",
				"type": "text",
				"position": {"x": "50%", "y": 48},
				"rotation": -10,
				"text": {"text": "HELLO", "fontFamily": "Inter", "fontSize": 24}
			},
			{
				"id": "mark",
				"type": "icon",
				"position": {"x": 128, "y": 160},
				"transformOrigin": {"x": 12, "y": 12},
				"icon": {"iconId": "icon_star", "width": 64, "height": 64, "fill": "#e07a5f"}
			}
		]
	}`
	var tpl Template
	if err := json.Unmarshal([]byte(raw), &tpl); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if err := Validate(&tpl); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	bg := tpl.Layer("bg")
	if bg.Kind != LayerShape || bg.Shape == nil || bg.Shape.Subtype != ShapeCircle {
		t.Errorf("bg layer decoded as %+v", bg)
	}
	if bg.Shape.StrokeWidth == nil || *bg.Shape.StrokeWidth != 4 {
		t.Errorf("bg strokeWidth = %v", bg.Shape.StrokeWidth)
	}
	if pct, ok := bg.Position.X.Percent(); !ok || pct != 50 {
		t.Errorf("bg position x = %+v", bg.Position.X)
	}

	title := tpl.Layer("title")
	if title.Kind != LayerText || title.Text == nil || title.Text.Content != "HELLO" {
		t.Errorf("title layer decoded as %+v", title)
	}
	if title.Rotation == nil || *title.Rotation != -10 {
		t.Errorf("title rotation = %v", title.Rotation)
	}
	if n, ok := title.Position.Y.Absolute(); !ok || n != 48 {
		t.Errorf("title position y = %+v", title.Position.Y)
	}

	mark := tpl.Layer("mark")
	if mark.Kind != LayerIcon || mark.Icon == nil || mark.Icon.IconID != "icon_star" {
		t.Errorf("mark layer decoded as %+v", mark)
	}
	if mark.TransformOrigin == nil || mark.TransformOrigin.X != 12 {
		t.Errorf("mark transformOrigin = %+v", mark.TransformOrigin)
	}
}

func TestOverrideUnmarshal(t *testing.T) {
	raw := `{"text": "CUSTOM", "fill": "#ff0000", "fontSize": 18}`
	var ov Override
	if err := json.Unmarshal([]byte(raw), &ov); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if ov.Text == nil || *ov.Text != "CUSTOM" {
		t.Errorf("Text = %v", ov.Text)
	}
	if ov.Fill == nil || *ov.Fill != "#ff0000" {
		t.Errorf("Fill = %v", ov.Fill)
	}
	if ov.FontSize == nil || *ov.FontSize != 18 {
		t.Errorf("FontSize = %v", ov.FontSize)
	}
	if ov.Stroke != nil || ov.FontWeight != nil {
		t.Errorf("unset fields decoded non-nil: %+v", ov)
	}
}
