package engine

import (
	"encoding/xml"
	"strings"

	"github.com/satkunas/sticker-factory/backend-go/internal/template"
)

// markupInfo summarizes the geometric content of an embedded vector
// fragment: its declared coordinate space and the elements that matter
// for center analysis, in document order.
type markupInfo struct {
	viewBox    template.ViewBox
	hasViewBox bool
	paths      []string
	polygons   [][]Point
	basic      bool
}

// scanMarkup walks the fragment with a tolerant XML token scan. A
// malformed tail loses only the elements after the damage; everything
// scanned up to that point is kept.
func scanMarkup(markup string) markupInfo {
	var info markupInfo
	dec := xml.NewDecoder(strings.NewReader(markup))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "svg":
			if vb, ok := ParseViewBox(attrValue(se, "viewBox")); ok && !info.hasViewBox {
				info.viewBox = vb
				info.hasViewBox = true
			}
		case "path":
			if d := attrValue(se, "d"); d != "" {
				info.paths = append(info.paths, d)
			}
		case "polygon", "polyline":
			if pts := parsePointList(attrValue(se, "points")); len(pts) > 0 {
				info.polygons = append(info.polygons, pts)
			}
		case "circle", "ellipse", "rect", "line":
			info.basic = true
		}
	}
	return info
}

func attrValue(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// ParseViewBox parses a viewBox attribute value ("minX minY width
// height", comma or space separated).
func ParseViewBox(s string) (template.ViewBox, bool) {
	fields := splitNumbers(s)
	if len(fields) != 4 {
		return template.ViewBox{}, false
	}
	return template.ViewBox{
		MinX:   fields[0],
		MinY:   fields[1],
		Width:  fields[2],
		Height: fields[3],
	}, true
}

// MarkupViewBox extracts the fragment's own coordinate space, if it
// declares one.
func MarkupViewBox(markup string) (template.ViewBox, bool) {
	info := scanMarkup(markup)
	return info.viewBox, info.hasViewBox
}

// InnerMarkup returns the content inside the outermost <svg> wrapper so
// it can be re-embedded under a new root. Fragments without a wrapper
// pass through unchanged.
func InnerMarkup(markup string) string {
	open := strings.Index(markup, "<svg")
	if open < 0 {
		return markup
	}
	gt := strings.IndexByte(markup[open:], '>')
	if gt < 0 {
		return markup
	}
	start := open + gt + 1
	if markup[open+gt-1] == '/' {
		return ""
	}
	end := strings.LastIndex(markup, "</svg>")
	if end < start {
		return markup
	}
	return markup[start:end]
}

func parsePointList(s string) []Point {
	nums := splitNumbers(s)
	pts := make([]Point, 0, len(nums)/2)
	for i := 0; i+1 < len(nums); i += 2 {
		pts = append(pts, Point{X: nums[i], Y: nums[i+1]})
	}
	return pts
}

// splitNumbers pulls every parseable number out of a comma/space
// separated attribute value, ignoring anything else.
func splitNumbers(s string) []float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r'
	})
	nums := make([]float64, 0, len(fields))
	for _, f := range fields {
		if v, _, ok := scanNumber(f, 0); ok {
			nums = append(nums, v)
		}
	}
	return nums
}
