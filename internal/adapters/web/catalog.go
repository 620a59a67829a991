package web

import (
	"net/http"
	"strings"

	"storen/internal/core"
)

func (h *Handler) listCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.ctrl.Catalog().List(core.RefCategory))
}

func (h *Handler) addCategory(w http.ResponseWriter, r *http.Request) {
	h.addEntry(w, r, core.RefCategory)
}

func (h *Handler) listWarehouses(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.ctrl.Catalog().List(core.RefWarehouse))
}

func (h *Handler) addWarehouse(w http.ResponseWriter, r *http.Request) {
	h.addEntry(w, r, core.RefWarehouse)
}

func (h *Handler) addEntry(w http.ResponseWriter, r *http.Request, kind core.RefKind) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, r, "name is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	var entry core.Entry
	var err error
	if kind == core.RefCategory {
		entry, err = h.ctrl.AddCategory(r.Context(), req.Name)
	} else {
		entry, err = h.ctrl.AddWarehouse(r.Context(), req.Name)
	}
	if err != nil {
		writeMutationError(w, r, err)
		return
	}
	writeJSON(w, entry)
}
