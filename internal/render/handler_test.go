package render

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/satkunas/sticker-factory/backend-go/internal/engine"
	"github.com/satkunas/sticker-factory/backend-go/internal/template"
)

func inlineBody(t *testing.T, doc *template.Template, overrides map[string]template.Override) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	err := json.NewEncoder(&buf).Encode(map[string]interface{}{
		"template":  doc,
		"overrides": overrides,
	})
	if err != nil {
		t.Fatalf("encode body: %v", err)
	}
	return &buf
}

func TestRenderInline(t *testing.T) {
	h := NewHandler(&engine.Renderer{}, nil)

	req := httptest.NewRequest("POST", "/render", inlineBody(t, template.NewSampleTemplate(), nil))
	rec := httptest.NewRecorder()
	h.RenderInline(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "image/svg+xml") {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "<?xml") || !strings.Contains(body, "<svg") {
		t.Errorf("body is not an svg document: %.80s", body)
	}
}

func TestRenderInlineAppliesOverrides(t *testing.T) {
	h := NewHandler(&engine.Renderer{}, nil)

	doc := template.NewSampleTemplate()
	var titleID string
	for _, l := range doc.Layers {
		if l.Kind == template.LayerText {
			titleID = l.ID
			break
		}
	}
	if titleID == "" {
		t.Fatal("sample template has no text layer")
	}

	text := "Override Wins"
	overrides := map[string]template.Override{
		titleID: {Text: &text},
	}
	req := httptest.NewRequest("POST", "/render", inlineBody(t, doc, overrides))
	rec := httptest.NewRecorder()
	h.RenderInline(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Override Wins") {
		t.Error("override text missing from rendered document")
	}
}

func TestRenderInlineRejects(t *testing.T) {
	h := NewHandler(&engine.Renderer{}, nil)

	tests := []struct {
		name string
		body string
	}{
		{"garbage body", `{"template": [1,2,3]}`},
		{"missing template", `{"overrides": {}}`},
		{"invalid template", `{"template": {"width": -4, "height": 0, "layers": []}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/render", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.RenderInline(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestAnalyzeInline(t *testing.T) {
	h := NewHandler(&engine.Renderer{}, nil)

	doc := template.NewSampleTemplate()
	req := httptest.NewRequest("POST", "/render/layers", inlineBody(t, doc, nil))
	rec := httptest.NewRecorder()
	h.AnalyzeInline(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Layers []engine.LayerInfo `json:"layers"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Layers) != len(doc.Layers) {
		t.Fatalf("got %d layers, want %d", len(resp.Layers), len(doc.Layers))
	}
	for i, info := range resp.Layers {
		if info.ID != doc.Layers[i].ID {
			t.Errorf("layer %d id = %q, want %q", i, info.ID, doc.Layers[i].ID)
		}
	}
}
