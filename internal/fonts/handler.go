package fonts

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// List handles GET /fonts.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"fonts": h.catalog.List(),
	})
}

// Get handles GET /fonts/{slug}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	font, ok := h.catalog.Lookup(slug)
	if !ok {
		writeError(w, http.StatusNotFound, "font not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"font":      font,
		"importUrl": h.catalog.ImportURL(font.Family),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
