package engine

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/satkunas/sticker-factory/backend-go/internal/template"
)

const lineHeightEm = 1.2

// Render assembles the final vector document: XML declaration, a root
// element carrying the coordinate space, one definitions block, then
// one fragment per layer with list order preserved as paint order.
// Rendering is total: malformed geometry degrades to omitted fragments,
// never to a failed document.
func (r *Renderer) Render(t *template.Template, overrides map[string]template.Override) string {
	if t == nil {
		return ""
	}
	vb := t.Space()
	refs := referencedShapes(t)

	var defs, frags bytes.Buffer
	var families []string
	seenFamily := make(map[string]bool)

	for i := range t.Layers {
		l := &t.Layers[i]
		var ov *template.Override
		if o, ok := overrides[l.ID]; ok {
			ov = &o
		}
		switch l.Kind {
		case template.LayerShape:
			r.renderShape(&frags, &defs, l, ov, vb, refs)
		case template.LayerText:
			if fam := r.renderText(&frags, l, ov, vb); fam != "" && !seenFamily[fam] {
				seenFamily[fam] = true
				families = append(families, fam)
			}
		case template.LayerIcon:
			r.renderIcon(&frags, l, ov, vb)
		}
	}

	var doc bytes.Buffer
	doc.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(&doc, "<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"%s\" width=\"%s\" height=\"%s\">\n",
		vb.Attr(), num(vb.Width), num(vb.Height))
	r.writeDefs(&doc, families, &defs)
	doc.Write(frags.Bytes())
	doc.WriteString("</svg>\n")
	return doc.String()
}

// refUse records how other layers reference a shape: as a text guide
// path, as a clip boundary, or both.
type refUse struct {
	path bool
	clip bool
}

func referencedShapes(t *template.Template) map[string]refUse {
	refs := make(map[string]refUse)
	for i := range t.Layers {
		l := &t.Layers[i]
		if l.Clip != "" {
			u := refs[l.Clip]
			u.clip = true
			refs[l.Clip] = u
		}
		if l.Kind == template.LayerText && l.Text != nil && l.Text.PathLayer != "" {
			u := refs[l.Text.PathLayer]
			u.path = true
			refs[l.Text.PathLayer] = u
		}
	}
	return refs
}

func (r *Renderer) renderShape(frags, defs *bytes.Buffer, l *template.Layer, ov *template.Override, vb template.ViewBox, refs map[string]refUse) {
	center := ResolvePosition(l.Position, vb)
	d := CompileShapePath(l.Shape, center, vb)
	if d == "" {
		return
	}
	style := mergeStyle(l.Shape.Style, ov)

	// A referenced shape's path lands in defs exactly once per use,
	// addressable by id.
	if use, ok := refs[l.ID]; ok {
		if use.path {
			fmt.Fprintf(defs, "    <path id=\"path-%s\" d=\"%s\"/>\n", xmlEscape(l.ID), xmlEscape(d))
		}
		if use.clip {
			fmt.Fprintf(defs, "    <clipPath id=\"clip-%s\"><path d=\"%s\"/></clipPath>\n", xmlEscape(l.ID), xmlEscape(d))
		}
	}

	// No declared paint at all means a guide: defs only, nothing
	// painted inline.
	if style.nonVisual() {
		return
	}

	chain := ComposeTransform(layerParams(l, nil))
	fmt.Fprintf(frags, "  <path id=\"%s\" d=\"%s\"", xmlEscape(l.ID), xmlEscape(d))
	writePaintAttrs(frags, style)
	writeTransform(frags, chain)
	writeClip(frags, l)
	frags.WriteString("/>\n")
}

func (r *Renderer) renderText(frags *bytes.Buffer, l *template.Layer, ov *template.Override, vb template.ViewBox) string {
	tx := l.Text
	content := tx.Content
	family := tx.FontFamily
	size := tx.FontSize
	weight := tx.FontWeight
	if ov != nil {
		if ov.Text != nil {
			content = *ov.Text
		}
		if ov.FontFamily != nil {
			family = *ov.FontFamily
		}
		if ov.FontSize != nil {
			size = *ov.FontSize
		}
		if ov.FontWeight != nil {
			weight = *ov.FontWeight
		}
	}
	if content == "" {
		return ""
	}
	style := mergeStyle(tx.Style, ov)
	display := r.resolveFamily(family)

	if tx.PathLayer != "" {
		// Path-following text: the guide is already in absolute
		// coordinates, so the resolved position does not translate it.
		chain := ComposeTransform(layerParams(l, nil))
		fmt.Fprintf(frags, "  <text id=\"%s\"", xmlEscape(l.ID))
		writeFontAttrs(frags, display, size, weight)
		writePaintAttrs(frags, style)
		writeTransform(frags, chain)
		writeClip(frags, l)
		fmt.Fprintf(frags, "><textPath href=\"#path-%s\" startOffset=\"50%%\" text-anchor=\"middle\">%s</textPath></text>\n",
			xmlEscape(tx.PathLayer), xmlEscape(content))
		return display
	}

	pos := ResolvePosition(l.Position, vb)
	chain := append(Chain{TranslateOp(pos.X, pos.Y)}, ComposeTransform(layerParams(l, nil))...)
	fmt.Fprintf(frags, "  <text id=\"%s\" x=\"0\" y=\"0\" text-anchor=\"middle\" dominant-baseline=\"central\"", xmlEscape(l.ID))
	writeFontAttrs(frags, display, size, weight)
	writePaintAttrs(frags, style)
	writeTransform(frags, chain)
	writeClip(frags, l)
	frags.WriteString(">")
	writeTextContent(frags, content)
	frags.WriteString("</text>\n")
	return display
}

// writeTextContent emits the text body, splitting newline-separated
// content into vertically centered tspans.
func writeTextContent(b *bytes.Buffer, content string) {
	lines := strings.Split(content, "\n")
	if len(lines) == 1 {
		b.WriteString(xmlEscape(content))
		return
	}
	firstDy := -lineHeightEm * float64(len(lines)-1) / 2
	for i, line := range lines {
		dy := lineHeightEm
		if i == 0 {
			dy = firstDy
		}
		fmt.Fprintf(b, "<tspan x=\"0\" dy=\"%sem\">%s</tspan>", num(dy), xmlEscape(line))
	}
}

func (r *Renderer) renderIcon(frags *bytes.Buffer, l *template.Layer, ov *template.Override, vb template.ViewBox) {
	ic := l.Icon
	markup := r.iconMarkup(ic)
	if markup == "" {
		return
	}
	pos := ResolvePosition(l.Position, vb)
	iconVB, hasVB := MarkupViewBox(markup)

	var origin *Point
	if l.TransformOrigin != nil {
		o := ScaleOriginToOuter(Point{X: l.TransformOrigin.X, Y: l.TransformOrigin.Y}, ic.Width, ic.Height, iconVB)
		origin = &o
	}
	chain := ComposeIconTransform(pos, ic.Width, ic.Height, layerParams(l, origin))

	fill := ic.Fill
	if ov != nil && ov.Fill != nil {
		fill = *ov.Fill
	}

	fmt.Fprintf(frags, "  <g id=\"%s\" transform=\"%s\"", xmlEscape(l.ID), chain.Attr())
	if fill != "" {
		fmt.Fprintf(frags, " fill=\"%s\"", xmlEscape(fill))
	}
	writeClip(frags, l)
	frags.WriteString(">")

	// The nested svg maps icon-space units onto the painted w×h box
	// through its viewBox, so no scale op appears in the chain.
	fmt.Fprintf(frags, "<svg width=\"%s\" height=\"%s\"", num(ic.Width), num(ic.Height))
	if hasVB {
		fmt.Fprintf(frags, " viewBox=\"%s\"", iconVB.Attr())
	}
	frags.WriteString(">")
	frags.WriteString(InnerMarkup(markup))
	frags.WriteString("</svg></g>\n")
}

func (r *Renderer) writeDefs(doc *bytes.Buffer, families []string, defs *bytes.Buffer) {
	var imports []string
	for _, fam := range families {
		if url := r.importURL(fam); url != "" {
			imports = append(imports, url)
		}
	}
	if defs.Len() == 0 && len(imports) == 0 {
		return
	}
	doc.WriteString("  <defs>\n")
	if len(imports) > 0 {
		doc.WriteString("    <style>")
		for _, u := range imports {
			fmt.Fprintf(doc, "@import url('%s');", u)
		}
		doc.WriteString("</style>\n")
	}
	doc.Write(defs.Bytes())
	doc.WriteString("  </defs>\n")
}

// layerParams collects a layer's optional transform attributes. The
// origin argument, when non-nil, overrides the declared one (icons pass
// their pivot pre-scaled into outer units).
func layerParams(l *template.Layer, origin *Point) TransformParams {
	p := TransformParams{Scale: l.Scale, Rotation: l.Rotation}
	switch {
	case origin != nil:
		p.Origin = origin
	case l.TransformOrigin != nil:
		p.Origin = &Point{X: l.TransformOrigin.X, Y: l.TransformOrigin.Y}
	}
	return p
}

// mergedStyle is the effective paint state after override resolution:
// override > template default > absent. Absent stays absent, it never
// substitutes a value.
type mergedStyle struct {
	fill           string
	stroke         string
	strokeWidth    *float64
	strokeLinejoin string
}

func mergeStyle(st template.Style, ov *template.Override) mergedStyle {
	m := mergedStyle{
		fill:           st.Fill,
		stroke:         st.Stroke,
		strokeWidth:    st.StrokeWidth,
		strokeLinejoin: st.StrokeLinejoin,
	}
	if ov == nil {
		return m
	}
	if ov.Fill != nil {
		m.fill = *ov.Fill
	}
	if ov.Stroke != nil {
		m.stroke = *ov.Stroke
	}
	if ov.StrokeWidth != nil {
		m.strokeWidth = ov.StrokeWidth
	}
	return m
}

func paintAbsent(v string) bool {
	return v == "" || v == "none"
}

func (m mergedStyle) nonVisual() bool {
	return paintAbsent(m.fill) && paintAbsent(m.stroke)
}

func writePaintAttrs(b *bytes.Buffer, m mergedStyle) {
	if m.fill != "" {
		fmt.Fprintf(b, " fill=\"%s\"", xmlEscape(m.fill))
	}
	if m.stroke != "" {
		fmt.Fprintf(b, " stroke=\"%s\"", xmlEscape(m.stroke))
	}
	if m.strokeWidth != nil {
		fmt.Fprintf(b, " stroke-width=\"%s\"", num(*m.strokeWidth))
	}
	if m.strokeLinejoin != "" {
		fmt.Fprintf(b, " stroke-linejoin=\"%s\"", xmlEscape(m.strokeLinejoin))
	}
}

func writeFontAttrs(b *bytes.Buffer, family string, size float64, weight string) {
	if family != "" {
		fmt.Fprintf(b, " font-family=\"%s\"", xmlEscape(family))
	}
	if size > 0 {
		fmt.Fprintf(b, " font-size=\"%s\"", num(size))
	}
	if weight != "" {
		fmt.Fprintf(b, " font-weight=\"%s\"", xmlEscape(weight))
	}
}

func writeTransform(b *bytes.Buffer, c Chain) {
	if attr := c.Attr(); attr != "" {
		fmt.Fprintf(b, " transform=\"%s\"", attr)
	}
}

func writeClip(b *bytes.Buffer, l *template.Layer) {
	if l.Clip != "" {
		fmt.Fprintf(b, " clip-path=\"url(#clip-%s)\"", xmlEscape(l.Clip))
	}
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func xmlEscape(s string) string {
	return xmlEscaper.Replace(s)
}
