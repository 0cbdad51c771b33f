package store

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/satkunas/sticker-factory/backend-go/internal/auth"
	"github.com/satkunas/sticker-factory/backend-go/internal/template"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Document    json.RawMessage `json:"document"`
}

type metaRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type shareRequest struct {
	Shared bool `json:"shared"`
}

// Create handles POST /api/templates. When no document is supplied the
// template starts from the sample sticker.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	doc := template.NewSampleTemplate()
	if len(req.Document) > 0 {
		doc = &template.Template{}
		if err := json.Unmarshal(req.Document, doc); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid template document"})
			return
		}
	}

	tpl, err := h.service.Create(r.Context(), userID, req.Name, req.Description, doc)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tpl)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	templateID := mux.Vars(r)["templateId"]

	tpl, err := h.service.Get(r.Context(), templateID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	templates, err := h.service.List(r.Context(), userID)
	if err != nil {
		slog.Error("list templates failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, templates)
}

func (h *Handler) ListShared(w http.ResponseWriter, r *http.Request) {
	templates, err := h.service.ListShared(r.Context())
	if err != nil {
		slog.Error("list shared templates failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, templates)
}

// UpdateDocument handles PUT /api/templates/{templateId}/document. The
// body is the template document itself.
func (h *Handler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	templateID := mux.Vars(r)["templateId"]

	var doc template.Template
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid template document"})
		return
	}

	tpl, err := h.service.UpdateDocument(r.Context(), templateID, userID, &doc)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

func (h *Handler) UpdateMeta(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	templateID := mux.Vars(r)["templateId"]

	var req metaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	if err := h.service.UpdateMeta(r.Context(), templateID, userID, req.Name, req.Description); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) SetShared(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	templateID := mux.Vars(r)["templateId"]

	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.service.SetShared(r.Context(), templateID, userID, req.Shared); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"shared": req.Shared})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	templateID := mux.Vars(r)["templateId"]

	if err := h.service.Delete(r.Context(), templateID, userID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	case errors.Is(err, ErrInvalidDocument):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
