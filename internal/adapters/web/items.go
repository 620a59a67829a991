package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"storen/internal/core"
	"storen/internal/imaging"
	"storen/internal/store"
)

// itemFormFromRequest reads a multipart create/edit submission. Numeric
// fields stay strings; the reconciler owns their coercion. The optional
// "image" part becomes the form's pending asset.
func itemFormFromRequest(r *http.Request) (core.ItemForm, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return core.ItemForm{}, err
	}

	form := core.ItemForm{
		Name:      r.FormValue("name"),
		Quantity:  r.FormValue("quantity"),
		Price:     r.FormValue("price"),
		Threshold: r.FormValue("threshold"),
	}
	if v := r.FormValue("category_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			form.CategoryID = &id
		}
	}
	if v := r.FormValue("warehouse_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			form.WarehouseID = &id
		}
	}
	if v := r.FormValue("thumbnail"); v != "" {
		form.Thumbnail = &v
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			return core.ItemForm{}, readErr
		}
		form.Asset = &core.PendingAsset{Filename: header.Filename, Data: data}
	} else if !errors.Is(err, http.ErrMissingFile) {
		return core.ItemForm{}, err
	}
	return form, nil
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	form, err := itemFormFromRequest(r)
	if err != nil {
		writeError(w, r, "invalid form submission", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if err := h.ctrl.SubmitCreate(r.Context(), form); err != nil {
		writeMutationError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(h.ctrl.Snapshot())
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, "invalid item id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	form, err := itemFormFromRequest(r)
	if err != nil {
		writeError(w, r, "invalid form submission", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if err := h.ctrl.SubmitUpdate(r.Context(), id, form); err != nil {
		writeMutationError(w, r, err)
		return
	}
	writeJSON(w, h.ctrl.Snapshot())
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, "invalid item id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if err := h.ctrl.SubmitDelete(r.Context(), id); err != nil {
		writeMutationError(w, r, err)
		return
	}
	writeJSON(w, h.ctrl.Snapshot())
}

// writeMutationError maps the error taxonomy to HTTP statuses with stable codes.
func writeMutationError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		writeError(w, r, err.Error(), "UNSUPPORTED_FORMAT", http.StatusUnsupportedMediaType)
	case errors.Is(err, imaging.ErrCompressionFailed):
		writeError(w, r, err.Error(), "COMPRESSION_FAILED", http.StatusUnprocessableEntity)
	case errors.Is(err, store.ErrDuplicateName):
		writeError(w, r, err.Error(), "DUPLICATE_NAME", http.StatusConflict)
	case errors.Is(err, store.ErrRemoteWrite):
		writeError(w, r, err.Error(), "REMOTE_WRITE_FAILED", http.StatusBadGateway)
	case errors.Is(err, store.ErrRemoteRead):
		writeError(w, r, err.Error(), "REMOTE_READ_FAILED", http.StatusBadGateway)
	default:
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
