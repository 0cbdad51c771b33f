package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/satkunas/sticker-factory/backend-go/internal/template"
)

type stubFonts struct {
	families map[string]string
	urls     map[string]string
}

func (s stubFonts) ResolveFamily(name string) string {
	if f, ok := s.families[name]; ok {
		return f
	}
	return name
}

func (s stubFonts) ImportURL(family string) string { return s.urls[family] }

type stubIcons map[string]string

func (s stubIcons) IconMarkup(id string) (string, error) {
	m, ok := s[id]
	if !ok {
		return "", errors.New("icon not found")
	}
	return m, nil
}

type recordSanitizer struct {
	calls int
}

func (s *recordSanitizer) SanitizeMarkup(markup string) string {
	s.calls++
	return strings.ReplaceAll(markup, "<script>boom</script>", "")
}

func sptr(s string) *string { return &s }

func mustIndex(t *testing.T, doc, sub string) int {
	t.Helper()
	i := strings.Index(doc, sub)
	if i < 0 {
		t.Fatalf("document missing %q:\n%s", sub, doc)
	}
	return i
}

func rectLayer(id string, w, h float64, fill string) template.Layer {
	return template.Layer{
		ID:       id,
		Kind:     template.LayerShape,
		Position: template.Position{X: template.Expr("50%"), Y: template.Expr("50%")},
		Shape: &template.ShapeLayer{
			Subtype: template.ShapeRect,
			Width:   w,
			Height:  h,
			Style:   template.Style{Fill: fill},
		},
	}
}

func TestRenderDocumentShell(t *testing.T) {
	tpl := &template.Template{
		Name: "plain", Width: 400, Height: 300,
		Layers: []template.Layer{rectLayer("bg", 200, 100, "#ff0000")},
	}
	var r Renderer
	doc := r.Render(tpl, nil)

	if !strings.HasPrefix(doc, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n") {
		t.Errorf("document does not start with an XML declaration:\n%s", doc)
	}
	mustIndex(t, doc, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 400 300" width="400" height="300">`)
	if !strings.HasSuffix(doc, "</svg>\n") {
		t.Errorf("document does not end with the root close:\n%s", doc)
	}
	if strings.Contains(doc, "<defs>") {
		t.Errorf("document has a defs block with nothing to define:\n%s", doc)
	}
}

// A 200x100 rect centered at (50%, 50%) of a 400x300 space spans
// x 100..300, y 100..200.
func TestRenderResolvesPercentagePositions(t *testing.T) {
	tpl := &template.Template{
		Name: "centered", Width: 400, Height: 300,
		Layers: []template.Layer{rectLayer("bg", 200, 100, "#ff0000")},
	}
	var r Renderer
	doc := r.Render(tpl, nil)
	mustIndex(t, doc, `<path id="bg" d="M 100 100 L 300 100 L 300 200 L 100 200 Z" fill="#ff0000"/>`)
}

func TestRenderNilTemplate(t *testing.T) {
	var r Renderer
	if doc := r.Render(nil, nil); doc != "" {
		t.Errorf("Render(nil) = %q, want empty", doc)
	}
}

func TestRenderPreservesLayerOrder(t *testing.T) {
	tpl := &template.Template{
		Name: "stacked", Width: 100, Height: 100,
		Layers: []template.Layer{
			rectLayer("back", 80, 80, "#111111"),
			{
				ID:       "mid",
				Kind:     template.LayerText,
				Position: template.Position{X: template.Expr("50%"), Y: template.Expr("50%")},
				Text:     &template.TextLayer{Content: "hi", FontSize: 12},
			},
			{
				ID:       "front",
				Kind:     template.LayerIcon,
				Position: template.Position{X: template.Expr("50%"), Y: template.Expr("50%")},
				Icon: &template.IconLayer{
					Markup: `<svg viewBox="0 0 24 24"><circle cx="12" cy="12" r="10"/></svg>`,
					Width:  24, Height: 24,
				},
			},
		},
	}
	var r Renderer
	doc := r.Render(tpl, nil)

	back := mustIndex(t, doc, `id="back"`)
	mid := mustIndex(t, doc, `id="mid"`)
	front := mustIndex(t, doc, `id="front"`)
	if !(back < mid && mid < front) {
		t.Errorf("paint order %d/%d/%d does not follow list order:\n%s", back, mid, front, doc)
	}
}

func TestRenderGuideShapeStaysInDefs(t *testing.T) {
	guide := template.Layer{
		ID:   "guide",
		Kind: template.LayerShape,
		Shape: &template.ShapeLayer{
			Subtype: template.ShapePath,
			D:       "M 10 50 A 40 40 0 0 1 90 50",
		},
	}
	tpl := &template.Template{
		Name: "curved", Width: 100, Height: 100,
		Layers: []template.Layer{
			guide,
			{
				ID:       "title",
				Kind:     template.LayerText,
				Position: template.Position{X: template.Expr("50%"), Y: template.Expr("50%")},
				Text: &template.TextLayer{
					Content:   "ALONG THE ARC",
					FontSize:  12,
					PathLayer: "guide",
					Style:     template.Style{Fill: "#222222"},
				},
			},
		},
	}
	var r Renderer
	doc := r.Render(tpl, nil)

	mustIndex(t, doc, `<path id="path-guide" d="M 10 50 A 40 40 0 0 1 90 50"/>`)
	mustIndex(t, doc, `<textPath href="#path-guide" startOffset="50%" text-anchor="middle">ALONG THE ARC</textPath>`)
	if strings.Contains(doc, `<path id="guide"`) {
		t.Errorf("unpainted guide rendered inline:\n%s", doc)
	}
	// Path-following text rides the guide's absolute coordinates; a
	// position translate would shift it off the path.
	if strings.Contains(doc, `id="title" x=`) || strings.Contains(doc, `translate(50, 50)`) {
		t.Errorf("curved text carries positioning it should not:\n%s", doc)
	}
}

func TestRenderExplicitNoneIsNonVisual(t *testing.T) {
	l := rectLayer("ghost", 10, 10, "none")
	tpl := &template.Template{Name: "ghost", Width: 100, Height: 100, Layers: []template.Layer{l}}
	var r Renderer
	doc := r.Render(tpl, nil)
	if strings.Contains(doc, `id="ghost"`) {
		t.Errorf("fill=none shape rendered:\n%s", doc)
	}
}

func TestRenderStrokeOnlyShape(t *testing.T) {
	w := 2.0
	l := rectLayer("outline", 10, 10, "")
	l.Shape.Style = template.Style{Stroke: "#00ff00", StrokeWidth: &w}
	tpl := &template.Template{Name: "outline", Width: 100, Height: 100, Layers: []template.Layer{l}}
	var r Renderer
	doc := r.Render(tpl, nil)

	frag := doc[mustIndex(t, doc, `<path id="outline"`):]
	frag = frag[:strings.Index(frag, "\n")]
	if !strings.Contains(frag, `stroke="#00ff00"`) || !strings.Contains(frag, `stroke-width="2"`) {
		t.Errorf("stroke attributes missing: %s", frag)
	}
	if strings.Contains(frag, `fill=`) {
		t.Errorf("absent fill was emitted: %s", frag)
	}
}

func TestRenderOverrides(t *testing.T) {
	tpl := &template.Template{
		Name: "customizable", Width: 100, Height: 100,
		Layers: []template.Layer{
			rectLayer("bg", 80, 80, "#aaaaaa"),
			{
				ID:       "label",
				Kind:     template.LayerText,
				Position: template.Position{X: template.Expr("50%"), Y: template.Expr("50%")},
				Text: &template.TextLayer{
					Content: "DEFAULT", FontSize: 12,
					Style: template.Style{Fill: "#000000"},
				},
			},
		},
	}
	var r Renderer
	doc := r.Render(tpl, map[string]template.Override{
		"bg":      {Fill: sptr("#bbccdd")},
		"label":   {Text: sptr("CUSTOM")},
		"missing": {Fill: sptr("#ff0000")},
	})

	mustIndex(t, doc, `fill="#bbccdd"`)
	if strings.Contains(doc, "#aaaaaa") {
		t.Errorf("overridden fill still present:\n%s", doc)
	}
	mustIndex(t, doc, ">CUSTOM<")
	if strings.Contains(doc, "DEFAULT") {
		t.Errorf("overridden text still present:\n%s", doc)
	}
	// The label's fill had no override and keeps its default.
	mustIndex(t, doc, `fill="#000000"`)
}

// An override can paint a layer the template leaves invisible.
func TestRenderOverrideRevealsGuide(t *testing.T) {
	tpl := &template.Template{
		Name: "guides", Width: 100, Height: 100,
		Layers: []template.Layer{rectLayer("frame", 50, 50, "")},
	}
	var r Renderer
	if doc := r.Render(tpl, nil); strings.Contains(doc, `id="frame"`) {
		t.Fatalf("unpainted shape rendered without override:\n%s", doc)
	}
	doc := r.Render(tpl, map[string]template.Override{"frame": {Stroke: sptr("#123123")}})
	frag := doc[mustIndex(t, doc, `<path id="frame"`):]
	if !strings.Contains(frag[:strings.Index(frag, "\n")], `stroke="#123123"`) {
		t.Errorf("override stroke missing:\n%s", doc)
	}
}

func TestRenderClipPath(t *testing.T) {
	photoFill := rectLayer("photo", 90, 90, "#336699")
	photoFill.Clip = "window"
	tpl := &template.Template{
		Name: "clipped", Width: 100, Height: 100,
		Layers: []template.Layer{
			rectLayer("window", 40, 40, "#ffffff"),
			photoFill,
		},
	}
	var r Renderer
	doc := r.Render(tpl, nil)

	mustIndex(t, doc, `<clipPath id="clip-window"><path d="M 30 30 L 70 30 L 70 70 L 30 70 Z"/></clipPath>`)
	mustIndex(t, doc, `clip-path="url(#clip-window)"`)
	// The window shape is painted too: being referenced does not hide a
	// shape that declares paint.
	mustIndex(t, doc, `<path id="window"`)
}

func TestRenderIconInlineMarkup(t *testing.T) {
	tpl := &template.Template{
		Name: "badge", Width: 200, Height: 200,
		Layers: []template.Layer{
			{
				ID:       "star",
				Kind:     template.LayerIcon,
				Position: template.Position{X: template.Abs(100), Y: template.Abs(100)},
				Icon: &template.IconLayer{
					Markup: `<svg viewBox="0 0 24 24"><path d="M 2 2 L 22 22"/></svg>`,
					Width:  48, Height: 48,
					Fill: "#e07a5f",
				},
			},
		},
	}
	var r Renderer
	doc := r.Render(tpl, nil)

	mustIndex(t, doc, `<g id="star" transform="translate(100, 100) translate(-24, -24)" fill="#e07a5f">`+
		`<svg width="48" height="48" viewBox="0 0 24 24"><path d="M 2 2 L 22 22"/></svg></g>`)
}

func TestRenderIconTransformChain(t *testing.T) {
	rot, scale := 15.0, 1.5
	tpl := &template.Template{
		Name: "spun", Width: 200, Height: 200,
		Layers: []template.Layer{
			{
				ID:              "star",
				Kind:            template.LayerIcon,
				Position:        template.Position{X: template.Abs(100), Y: template.Abs(100)},
				Rotation:        &rot,
				Scale:           &scale,
				TransformOrigin: &template.Point{X: 12, Y: 12},
				Icon: &template.IconLayer{
					Markup: `<svg viewBox="0 0 24 24"><path d="M 2 2 L 22 22"/></svg>`,
					Width:  48, Height: 48,
				},
			},
		},
	}
	var r Renderer
	doc := r.Render(tpl, nil)

	// The 24-unit pivot doubles into the painted 48x48 box; position and
	// recentering translates come first, the pivoted spin after.
	mustIndex(t, doc, `transform="translate(100, 100) translate(-24, -24) translate(24, 24) scale(1.5) rotate(15) translate(-24, -24)"`)
}

func TestRenderIconFromLoader(t *testing.T) {
	san := &recordSanitizer{}
	r := Renderer{
		Icons: stubIcons{
			"icon_star": `<svg viewBox="0 0 24 24"><script>boom</script><circle cx="12" cy="12" r="10"/></svg>`,
		},
		Sanitize: san,
	}
	tpl := &template.Template{
		Name: "loaded", Width: 100, Height: 100,
		Layers: []template.Layer{
			{
				ID:       "star",
				Kind:     template.LayerIcon,
				Position: template.Position{X: template.Expr("50%"), Y: template.Expr("50%")},
				Icon:     &template.IconLayer{IconID: "icon_star", Width: 24, Height: 24},
			},
		},
	}
	doc := r.Render(tpl, nil)

	mustIndex(t, doc, `<circle cx="12" cy="12" r="10"/>`)
	if strings.Contains(doc, "script") {
		t.Errorf("sanitizer output ignored:\n%s", doc)
	}
	if san.calls == 0 {
		t.Error("sanitizer never consulted")
	}
}

func TestRenderIconLoadFailureDegrades(t *testing.T) {
	r := Renderer{Icons: stubIcons{}}
	tpl := &template.Template{
		Name: "broken", Width: 100, Height: 100,
		Layers: []template.Layer{
			{
				ID:       "gone",
				Kind:     template.LayerIcon,
				Position: template.Position{X: template.Expr("50%"), Y: template.Expr("50%")},
				Icon:     &template.IconLayer{IconID: "icon_missing", Width: 24, Height: 24},
			},
			rectLayer("bg", 10, 10, "#ffffff"),
		},
	}
	doc := r.Render(tpl, nil)

	if strings.Contains(doc, `id="gone"`) {
		t.Errorf("missing icon produced a fragment:\n%s", doc)
	}
	mustIndex(t, doc, `id="bg"`)
}

func TestRenderFontImports(t *testing.T) {
	r := Renderer{
		Fonts: stubFonts{
			families: map[string]string{"inter-700": "Inter"},
			urls:     map[string]string{"Inter": "https://fonts.googleapis.com/css2?family=Inter:wght@700"},
		},
	}
	text := func(id string) template.Layer {
		return template.Layer{
			ID:       id,
			Kind:     template.LayerText,
			Position: template.Position{X: template.Expr("50%"), Y: template.Expr("50%")},
			Text:     &template.TextLayer{Content: "hi", FontFamily: "inter-700", FontSize: 14},
		}
	}
	tpl := &template.Template{
		Name: "typed", Width: 100, Height: 100,
		Layers: []template.Layer{text("a"), text("b")},
	}
	doc := r.Render(tpl, nil)

	mustIndex(t, doc, `font-family="Inter"`)
	mustIndex(t, doc, `<style>@import url('https://fonts.googleapis.com/css2?family=Inter:wght@700');</style>`)
	if strings.Count(doc, "@import") != 1 {
		t.Errorf("same family imported %d times, want once:\n%s", strings.Count(doc, "@import"), doc)
	}
}

func TestRenderWithoutFontResolver(t *testing.T) {
	tpl := &template.Template{
		Name: "plain-fonts", Width: 100, Height: 100,
		Layers: []template.Layer{
			{
				ID:       "t",
				Kind:     template.LayerText,
				Position: template.Position{X: template.Expr("50%"), Y: template.Expr("50%")},
				Text:     &template.TextLayer{Content: "hi", FontFamily: "Courier", FontSize: 14},
			},
		},
	}
	var r Renderer
	doc := r.Render(tpl, nil)

	mustIndex(t, doc, `font-family="Courier"`)
	if strings.Contains(doc, "@import") {
		t.Errorf("import emitted with no resolver:\n%s", doc)
	}
}

func TestRenderStraightText(t *testing.T) {
	rot := 45.0
	tpl := &template.Template{
		Name: "labelled", Width: 400, Height: 300,
		Layers: []template.Layer{
			{
				ID:       "label",
				Kind:     template.LayerText,
				Position: template.Position{X: template.Expr("50%"), Y: template.Expr("50%")},
				Rotation: &rot,
				Text: &template.TextLayer{
					Content: "Fish & Chips <hot>", FontSize: 16, FontWeight: "700",
					Style: template.Style{Fill: "#333333"},
				},
			},
		},
	}
	var r Renderer
	doc := r.Render(tpl, nil)

	frag := doc[mustIndex(t, doc, `<text id="label"`):]
	frag = frag[:strings.Index(frag, "\n")]
	for _, want := range []string{
		`x="0" y="0"`,
		`text-anchor="middle"`,
		`dominant-baseline="central"`,
		`font-size="16"`,
		`font-weight="700"`,
		`transform="translate(200, 150) rotate(45)"`,
		`>Fish &amp; Chips &lt;hot&gt;<`,
	} {
		if !strings.Contains(frag, want) {
			t.Errorf("text fragment missing %q: %s", want, frag)
		}
	}
}

func TestRenderMultilineText(t *testing.T) {
	tpl := &template.Template{
		Name: "stanza", Width: 100, Height: 100,
		Layers: []template.Layer{
			{
				ID:       "poem",
				Kind:     template.LayerText,
				Position: template.Position{X: template.Expr("50%"), Y: template.Expr("50%")},
				Text:     &template.TextLayer{Content: "one\ntwo\nthree", FontSize: 10},
			},
		},
	}
	var r Renderer
	doc := r.Render(tpl, nil)

	mustIndex(t, doc, `<tspan x="0" dy="-1.2em">one</tspan>`)
	mustIndex(t, doc, `<tspan x="0" dy="1.2em">two</tspan>`)
	mustIndex(t, doc, `<tspan x="0" dy="1.2em">three</tspan>`)
}

func TestRenderEmptyTextSkipped(t *testing.T) {
	tpl := &template.Template{
		Name: "muted", Width: 100, Height: 100,
		Layers: []template.Layer{
			{
				ID:       "label",
				Kind:     template.LayerText,
				Position: template.Position{X: template.Expr("50%"), Y: template.Expr("50%")},
				Text:     &template.TextLayer{Content: "keep", FontSize: 10},
			},
		},
	}
	var r Renderer
	doc := r.Render(tpl, map[string]template.Override{"label": {Text: sptr("")}})
	if strings.Contains(doc, `id="label"`) {
		t.Errorf("emptied text still rendered:\n%s", doc)
	}
}

func TestRenderUnknownShapeSubtype(t *testing.T) {
	tpl := &template.Template{
		Name: "partial", Width: 100, Height: 100,
		Layers: []template.Layer{
			{
				ID:       "mystery",
				Kind:     template.LayerShape,
				Position: template.Position{X: template.Expr("50%"), Y: template.Expr("50%")},
				Shape:    &template.ShapeLayer{Subtype: "blob", Style: template.Style{Fill: "#fff"}},
			},
			rectLayer("bg", 10, 10, "#000000"),
		},
	}
	var r Renderer
	doc := r.Render(tpl, nil)

	if strings.Contains(doc, `id="mystery"`) {
		t.Errorf("unknown subtype produced a fragment:\n%s", doc)
	}
	mustIndex(t, doc, `id="bg"`)
}

func TestRenderSampleTemplate(t *testing.T) {
	tpl := template.NewSampleTemplate()
	var r Renderer
	doc := r.Render(tpl, nil)

	for _, want := range []string{
		`viewBox="0 0 256 256"`,
		`<textPath href="#path-`,
		`scale(1) rotate(15)`,
		`<svg width="84" height="84" viewBox="0 0 24 24">`,
	} {
		mustIndex(t, doc, want)
	}
	if strings.Contains(doc, "@import") {
		t.Errorf("import emitted with no resolver:\n%s", doc)
	}
}
