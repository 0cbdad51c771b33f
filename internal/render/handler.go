package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/satkunas/sticker-factory/backend-go/internal/auth"
	"github.com/satkunas/sticker-factory/backend-go/internal/engine"
	"github.com/satkunas/sticker-factory/backend-go/internal/store"
	"github.com/satkunas/sticker-factory/backend-go/internal/template"
)

const maxRenderBody = 2 << 20 // 2MB

// Handler serves SVG rendering endpoints, both for anonymous playground
// documents and for stored templates.
type Handler struct {
	renderer *engine.Renderer
	store    *store.Service
}

func NewHandler(renderer *engine.Renderer, store *store.Service) *Handler {
	return &Handler{renderer: renderer, store: store}
}

type renderRequest struct {
	Template  *template.Template           `json:"template"`
	Overrides map[string]template.Override `json:"overrides"`
}

type overridesRequest struct {
	Overrides map[string]template.Override `json:"overrides"`
}

// RenderInline handles POST /render. The body carries the template
// document itself, so the playground renders without an account.
func (h *Handler) RenderInline(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRenderBody)

	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Template == nil {
		http.Error(w, "template is required", http.StatusBadRequest)
		return
	}
	if err := template.Validate(req.Template); err != nil {
		http.Error(w, "invalid template: "+err.Error(), http.StatusBadRequest)
		return
	}

	writeSVG(w, h.renderer.Render(req.Template, req.Overrides))
}

// AnalyzeInline handles POST /render/layers for playground documents.
func (h *Handler) AnalyzeInline(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRenderBody)

	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Template == nil {
		http.Error(w, "template is required", http.StatusBadRequest)
		return
	}
	if err := template.Validate(req.Template); err != nil {
		http.Error(w, "invalid template: "+err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]interface{}{
		"layers": h.renderer.AnalyzeLayers(req.Template),
	})
}

// RenderStored handles POST /api/templates/{templateId}/render with
// optional overrides in the body.
func (h *Handler) RenderStored(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	templateID := mux.Vars(r)["templateId"]

	var req overridesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	doc, err := h.store.GetDocument(r.Context(), templateID, userID)
	if err != nil {
		handleStoreError(w, err)
		return
	}

	writeSVG(w, h.renderer.Render(doc, req.Overrides))
}

// Layers handles GET /api/templates/{templateId}/layers.
func (h *Handler) Layers(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	templateID := mux.Vars(r)["templateId"]

	doc, err := h.store.GetDocument(r.Context(), templateID, userID)
	if err != nil {
		handleStoreError(w, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"layers": h.renderer.AnalyzeLayers(doc),
	})
}

// Export handles GET /api/templates/{templateId}/export, serving the
// rendered document as a file download.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	templateID := mux.Vars(r)["templateId"]

	tpl, err := h.store.Get(r.Context(), templateID, userID)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	var doc template.Template
	if err := json.Unmarshal(tpl.Document, &doc); err != nil {
		slog.Error("unmarshal stored template", "error", err, "template", templateID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = tpl.Name
	}
	if name == "" {
		name = "sticker"
	}
	// Sanitize filename
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)

	svg := h.renderer.Render(&doc, nil)

	w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.svg"`, name))
	w.Header().Set("Content-Length", strconv.Itoa(len(svg)))
	w.Write([]byte(svg))

	slog.Info("export complete", "template", templateID, "size", len(svg))
}

func handleStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, store.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		slog.Error("load template", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeSVG(w http.ResponseWriter, svg string) {
	w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(svg))
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(data)
}
