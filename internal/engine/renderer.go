package engine

import (
	"github.com/satkunas/sticker-factory/backend-go/internal/template"
)

// FontResolver maps a declared font family (a structured descriptor
// name or a plain family string) to a display family, and supplies the
// web-font import URL when one applies.
type FontResolver interface {
	ResolveFamily(name string) string
	ImportURL(family string) string
}

// IconLoader returns raw embeddable vector markup for an icon id.
type IconLoader interface {
	IconMarkup(id string) (string, error)
}

// Sanitizer strips unsafe content from externally-sourced markup before
// it is embedded. The engine trusts whatever it returns.
type Sanitizer interface {
	SanitizeMarkup(markup string) string
}

// Renderer runs the full layout pipeline over a template. All
// collaborators are optional; a zero Renderer renders self-contained
// templates (inline markup, no web fonts) as-is. Renderer holds no
// state between calls and is safe for concurrent use.
type Renderer struct {
	Fonts    FontResolver
	Icons    IconLoader
	Sanitize Sanitizer
}

func (r *Renderer) resolveFamily(name string) string {
	if r.Fonts == nil || name == "" {
		return name
	}
	return r.Fonts.ResolveFamily(name)
}

func (r *Renderer) importURL(family string) string {
	if r.Fonts == nil {
		return ""
	}
	return r.Fonts.ImportURL(family)
}

// iconMarkup resolves an icon layer's content: inline markup wins,
// otherwise the loader is consulted. Failures degrade to no content so
// a missing icon never sinks the whole render.
func (r *Renderer) iconMarkup(ic *template.IconLayer) string {
	markup := ic.Markup
	if markup == "" && ic.IconID != "" && r.Icons != nil {
		loaded, err := r.Icons.IconMarkup(ic.IconID)
		if err == nil {
			markup = loaded
		}
	}
	if markup != "" && r.Sanitize != nil {
		markup = r.Sanitize.SanitizeMarkup(markup)
	}
	return markup
}

// LayerInfo is the per-layer geometry summary exposed to editors:
// where the layer resolved to and where its visual center lies.
type LayerInfo struct {
	ID       string             `json:"id"`
	Kind     template.LayerKind `json:"kind"`
	Position Point              `json:"position"`
	Center   CenterResult       `json:"center"`
}

// AnalyzeLayers computes center analysis for every layer, in template
// coordinates.
func (r *Renderer) AnalyzeLayers(t *template.Template) []LayerInfo {
	if t == nil {
		return nil
	}
	vb := t.Space()
	infos := make([]LayerInfo, 0, len(t.Layers))
	for i := range t.Layers {
		l := &t.Layers[i]
		pos := ResolvePosition(l.Position, vb)
		infos = append(infos, LayerInfo{
			ID:       l.ID,
			Kind:     l.Kind,
			Position: pos,
			Center:   r.layerCenter(l, pos, vb),
		})
	}
	return infos
}

// LayerCenter analyzes a single layer by id.
func (r *Renderer) LayerCenter(t *template.Template, id string) (CenterResult, bool) {
	if t == nil {
		return CenterResult{}, false
	}
	l := t.Layer(id)
	if l == nil {
		return CenterResult{}, false
	}
	vb := t.Space()
	pos := ResolvePosition(l.Position, vb)
	return r.layerCenter(l, pos, vb), true
}

func (r *Renderer) layerCenter(l *template.Layer, pos Point, vb template.ViewBox) CenterResult {
	switch l.Kind {
	case template.LayerShape:
		return shapeCenter(l.Shape, pos, vb)
	case template.LayerIcon:
		return r.iconCenter(l.Icon, pos)
	default:
		// Text anchors on its position; nothing to analyze.
		return CenterResult{BoundsCenter: pos, Centroid: pos, Kind: ShapeKindBasic, Confidence: confidenceBasic}
	}
}

func shapeCenter(s *template.ShapeLayer, pos Point, vb template.ViewBox) CenterResult {
	if s == nil {
		return CenterResult{BoundsCenter: pos, Kind: ShapeKindEmpty, Confidence: confidenceNone}
	}
	switch s.Subtype {
	case template.ShapeRect, template.ShapeCircle, template.ShapeEllipse:
		// Symmetric primitives center on their resolved position.
		return CenterResult{BoundsCenter: pos, Centroid: pos, Kind: ShapeKindBasic, Confidence: confidenceBasic}
	case template.ShapeLine:
		c := pos
		if s.Line != nil {
			l := ResolveLinePosition(*s.Line, vb)
			c = Point{X: (l.X1 + l.X2) / 2, Y: (l.Y1 + l.Y2) / 2}
		}
		return CenterResult{BoundsCenter: c, Centroid: c, Kind: ShapeKindBasic, Confidence: confidenceBasic}
	case template.ShapePolygon:
		return AnalyzePolygon(toEnginePoints(s.Points))
	case template.ShapePath:
		return AnalyzePath(s.D)
	default:
		return CenterResult{BoundsCenter: pos, Kind: ShapeKindEmpty, Confidence: confidenceNone}
	}
}

// iconCenter analyzes icon content in its own units and maps the result
// into template coordinates through the icon's painted box. Without a
// usable icon viewBox the resolved position is the only defensible
// center, so it is returned at the analyzer's (low) confidence.
func (r *Renderer) iconCenter(ic *template.IconLayer, pos Point) CenterResult {
	if ic == nil {
		return CenterResult{BoundsCenter: pos, Kind: ShapeKindEmpty, Confidence: confidenceNone}
	}
	markup := r.iconMarkup(ic)
	if markup == "" {
		return CenterResult{BoundsCenter: pos, Centroid: pos, Kind: ShapeKindEmpty, Confidence: confidenceNone}
	}
	res := AnalyzeMarkup(markup)
	vb, has := MarkupViewBox(markup)
	if !has || vb.Width <= 0 || vb.Height <= 0 {
		res.BoundsCenter = pos
		res.Centroid = pos
		res.UseCentroid = false
		return res
	}
	topLeft := Point{X: pos.X - ic.Width/2, Y: pos.Y - ic.Height/2}
	sx := ic.Width / vb.Width
	sy := ic.Height / vb.Height
	mapPt := func(p Point) Point {
		return Point{
			X: topLeft.X + (p.X-vb.MinX)*sx,
			Y: topLeft.Y + (p.Y-vb.MinY)*sy,
		}
	}
	res.BoundsCenter = mapPt(res.BoundsCenter)
	res.Centroid = mapPt(res.Centroid)
	return res
}

func toEnginePoints(pts []template.Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = Point{X: p.X, Y: p.Y}
	}
	return out
}
