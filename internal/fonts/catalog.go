package fonts

import (
	"fmt"
	"strconv"
	"strings"
)

// Font is one catalog entry: a stable slug used in stored templates, the
// display family emitted into documents, and the weights available from
// the foundry.
type Font struct {
	Slug     string `json:"slug"`
	Family   string `json:"family"`
	Category string `json:"category"`
	Weights  []int  `json:"weights"`
}

// Catalog resolves font names for the renderer and lists the families
// offered to editors. Templates may reference a font by slug or by
// display family; both resolve to the same entry.
type Catalog struct {
	bySlug   map[string]Font
	byFamily map[string]Font
	list     []Font
}

func NewCatalog() *Catalog {
	c := &Catalog{
		bySlug:   make(map[string]Font, len(defaultFonts)),
		byFamily: make(map[string]Font, len(defaultFonts)),
		list:     defaultFonts,
	}
	for _, f := range defaultFonts {
		c.bySlug[f.Slug] = f
		c.byFamily[f.Family] = f
	}
	return c
}

// List returns every catalog entry in display order.
func (c *Catalog) List() []Font {
	return c.list
}

// Lookup finds an entry by slug or display family.
func (c *Catalog) Lookup(name string) (Font, bool) {
	if f, ok := c.bySlug[strings.ToLower(strings.TrimSpace(name))]; ok {
		return f, true
	}
	f, ok := c.byFamily[strings.TrimSpace(name)]
	return f, ok
}

// ResolveFamily maps a template's declared font name to the display
// family. Unknown names pass through unchanged so self-supplied
// families still render.
func (c *Catalog) ResolveFamily(name string) string {
	if f, ok := c.Lookup(name); ok {
		return f.Family
	}
	return name
}

// ImportURL builds the web-font stylesheet URL for a catalog family.
// Families outside the catalog get no import; the renderer then leaves
// font resolution to the viewer.
func (c *Catalog) ImportURL(family string) string {
	f, ok := c.Lookup(family)
	if !ok {
		return ""
	}
	weights := make([]string, len(f.Weights))
	for i, w := range f.Weights {
		weights[i] = strconv.Itoa(w)
	}
	return fmt.Sprintf("https://fonts.googleapis.com/css2?family=%s:wght@%s&display=swap",
		strings.ReplaceAll(f.Family, " ", "+"), strings.Join(weights, ";"))
}

var defaultFonts = []Font{
	{Slug: "inter", Family: "Inter", Category: "sans-serif", Weights: []int{400, 500, 700}},
	{Slug: "roboto", Family: "Roboto", Category: "sans-serif", Weights: []int{400, 500, 700}},
	{Slug: "open-sans", Family: "Open Sans", Category: "sans-serif", Weights: []int{400, 600, 700}},
	{Slug: "montserrat", Family: "Montserrat", Category: "sans-serif", Weights: []int{400, 600, 800}},
	{Slug: "bebas-neue", Family: "Bebas Neue", Category: "display", Weights: []int{400}},
	{Slug: "oswald", Family: "Oswald", Category: "display", Weights: []int{400, 600}},
	{Slug: "playfair-display", Family: "Playfair Display", Category: "serif", Weights: []int{400, 700}},
	{Slug: "merriweather", Family: "Merriweather", Category: "serif", Weights: []int{400, 700}},
	{Slug: "lobster", Family: "Lobster", Category: "handwriting", Weights: []int{400}},
	{Slug: "pacifico", Family: "Pacifico", Category: "handwriting", Weights: []int{400}},
	{Slug: "caveat", Family: "Caveat", Category: "handwriting", Weights: []int{400, 700}},
	{Slug: "source-code-pro", Family: "Source Code Pro", Category: "monospace", Weights: []int{400, 600}},
}
