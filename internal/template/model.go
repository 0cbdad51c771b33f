package template

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Template is a declarative layout document: a coordinate space plus an
// ordered layer list. List order is paint order (earlier = behind).
type Template struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	ViewBox ViewBox `json:"viewBox,omitempty"`
	Layers  []Layer `json:"layers"`
}

// ViewBox is the coordinate space percentage coordinates resolve against.
type ViewBox struct {
	MinX   float64 `json:"minX"`
	MinY   float64 `json:"minY"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (v ViewBox) IsZero() bool {
	return v.MinX == 0 && v.MinY == 0 && v.Width == 0 && v.Height == 0
}

// Attr formats the viewBox as an SVG attribute value.
func (v ViewBox) Attr() string {
	return fmt.Sprintf("%s %s %s %s", fmtNum(v.MinX), fmtNum(v.MinY), fmtNum(v.Width), fmtNum(v.Height))
}

// Space returns the effective coordinate space: the explicit viewBox if
// present, otherwise one derived from the template's width/height.
func (t *Template) Space() ViewBox {
	if !t.ViewBox.IsZero() {
		return t.ViewBox
	}
	return ViewBox{Width: t.Width, Height: t.Height}
}

// Layer returns the layer with the given id, or nil.
func (t *Template) Layer(id string) *Layer {
	for i := range t.Layers {
		if t.Layers[i].ID == id {
			return &t.Layers[i]
		}
	}
	return nil
}

type LayerKind string

const (
	LayerShape LayerKind = "shape"
	LayerText  LayerKind = "text"
	LayerIcon  LayerKind = "icon"
)

// Layer is one positioned element. Kind selects exactly one of the
// Shape/Text/Icon payloads; position always denotes the visual center.
type Layer struct {
	ID              string    `json:"id"`
	Kind            LayerKind `json:"type"`
	Position        Position  `json:"position"`
	Rotation        *float64  `json:"rotation,omitempty"`
	Scale           *float64  `json:"scale,omitempty"`
	TransformOrigin *Point    `json:"transformOrigin,omitempty"`
	Clip            string    `json:"clip,omitempty"`

	Shape *ShapeLayer `json:"shape,omitempty"`
	Text  *TextLayer  `json:"text,omitempty"`
	Icon  *IconLayer  `json:"icon,omitempty"`
}

type Position struct {
	X Coord `json:"x"`
	Y Coord `json:"y"`
}

// Point is an absolute 2D point in template or icon-local units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ShapeSubtype string

const (
	ShapeRect    ShapeSubtype = "rect"
	ShapeCircle  ShapeSubtype = "circle"
	ShapeEllipse ShapeSubtype = "ellipse"
	ShapePolygon ShapeSubtype = "polygon"
	ShapeLine    ShapeSubtype = "line"
	ShapePath    ShapeSubtype = "path"
)

type ShapeLayer struct {
	Subtype ShapeSubtype `json:"subtype"`
	Width   float64      `json:"width,omitempty"`
	Height  float64      `json:"height,omitempty"`
	RX      *float64     `json:"rx,omitempty"`
	RY      *float64     `json:"ry,omitempty"`
	Points  []Point      `json:"points,omitempty"`
	Line    *LinePoints  `json:"line,omitempty"`
	D       string       `json:"d,omitempty"`
	Style
}

// LinePoints are the endpoints of a line shape; each coordinate may be a
// percentage of the coordinate space.
type LinePoints struct {
	X1 Coord `json:"x1"`
	Y1 Coord `json:"y1"`
	X2 Coord `json:"x2"`
	Y2 Coord `json:"y2"`
}

type TextLayer struct {
	Content    string  `json:"text"`
	FontFamily string  `json:"fontFamily,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontWeight string  `json:"fontWeight,omitempty"`
	PathLayer  string  `json:"pathLayer,omitempty"`
	Style
}

type IconLayer struct {
	IconID string  `json:"iconId,omitempty"`
	Markup string  `json:"markup,omitempty"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Fill   string  `json:"fill,omitempty"`
}

// Style carries paint attributes. Empty string means "not declared", which
// is distinct from the explicit value "none".
type Style struct {
	Fill           string   `json:"fill,omitempty"`
	Stroke         string   `json:"stroke,omitempty"`
	StrokeWidth    *float64 `json:"strokeWidth,omitempty"`
	StrokeLinejoin string   `json:"strokeLinejoin,omitempty"`
}

// Override is a per-layer user edit. Nil fields fall back to the template's
// declared defaults; set fields win.
type Override struct {
	Text        *string  `json:"text,omitempty"`
	Fill        *string  `json:"fill,omitempty"`
	Stroke      *string  `json:"stroke,omitempty"`
	StrokeWidth *float64 `json:"strokeWidth,omitempty"`
	FontFamily  *string  `json:"fontFamily,omitempty"`
	FontSize    *float64 `json:"fontSize,omitempty"`
	FontWeight  *string  `json:"fontWeight,omitempty"`
}

// Coord is a template coordinate: an absolute number or a percentage
// string such as "50%". Anything else resolves to the space origin.
type Coord struct {
	Num   float64
	Str   string
	IsStr bool
}

func Abs(n float64) Coord { return Coord{Num: n} }
func Expr(s string) Coord { return Coord{Str: s, IsStr: true} }
func Pct(n float64) Coord { return Coord{Str: strconv.FormatFloat(n, 'f', -1, 64) + "%", IsStr: true} }

func (c *Coord) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*c = Coord{Num: n}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Coord{Str: s, IsStr: true}
		return nil
	}
	return fmt.Errorf("coordinate must be a number or string, got %s", string(data))
}

func (c Coord) MarshalJSON() ([]byte, error) {
	if c.IsStr {
		return json.Marshal(c.Str)
	}
	return json.Marshal(c.Num)
}

// Percent reports whether the coordinate is a percentage string and, if
// so, its numeric value. A "%" suffix with an unparseable prefix is junk,
// not a percentage.
func (c Coord) Percent() (float64, bool) {
	if !c.IsStr {
		return 0, false
	}
	s := strings.TrimSpace(c.Str)
	if !strings.HasSuffix(s, "%") {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "%")), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Absolute reports whether the coordinate carries a plain numeric value,
// accepting numeric strings as numbers.
func (c Coord) Absolute() (float64, bool) {
	if !c.IsStr {
		return c.Num, true
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(c.Str), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func fmtNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
