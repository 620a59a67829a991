package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storen/internal/core"
)

// maxUploadBytes caps multipart upload bodies well above the image budget;
// the compressor enforces the real limit.
const maxUploadBytes = 32 << 20

// Handler exposes the SyncController's view model and imperative actions as a
// JSON API. The UI collaborator posts actions and reads the view; it never
// talks to the stores directly.
type Handler struct {
	ctrl          *core.SyncController
	jwtSecret     string
	adminUser     string
	adminPassword string
}

// NewHandler wires the chi router with all routes.
func NewHandler(ctrl *core.SyncController, allowedOrigins, jwtSecret, adminUser, adminPassword string) http.Handler {
	h := &Handler{
		ctrl:          ctrl,
		jwtSecret:     jwtSecret,
		adminUser:     adminUser,
		adminPassword: adminPassword,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	r.Get("/api/health", h.health)
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Get("/api/items", h.itemsView)
		r.With(RequestBodyLimit(maxUploadBytes)).Post("/api/items", h.createItem)
		r.With(RequestBodyLimit(maxUploadBytes)).Put("/api/items/{id}", h.updateItem)
		r.Delete("/api/items/{id}", h.deleteItem)

		r.Post("/api/view/filters", h.setFilters)
		r.Post("/api/view/page", h.setPage)
		r.Post("/api/view/search", h.setSearch)
		r.Post("/api/view/dismiss", h.dismissError)

		r.Get("/api/categories", h.listCategories)
		r.Post("/api/categories", h.addCategory)
		r.Get("/api/warehouses", h.listWarehouses)
		r.Post("/api/warehouses", h.addWarehouse)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// itemsView returns the current published view model.
func (h *Handler) itemsView(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.ctrl.Snapshot())
}

// setFilters replaces the category/warehouse filters and returns the freshly
// loaded view.
func (h *Handler) setFilters(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category  string `json:"category"`
		Warehouse string `json:"warehouse"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.ctrl.SetFilters(r.Context(), req.Category, req.Warehouse)
	writeJSON(w, h.ctrl.Snapshot())
}

// setPage moves the window and returns the freshly loaded view.
func (h *Handler) setPage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Page int `json:"page"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.ctrl.SetPage(r.Context(), req.Page)
	writeJSON(w, h.ctrl.Snapshot())
}

// setSearch records a search keystroke. The refetch is debounced inside the
// controller, so this returns 202 with the view as it currently stands.
func (h *Handler) setSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Term string `json:"term"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.ctrl.SetSearch(req.Term)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(h.ctrl.Snapshot())
}

func (h *Handler) dismissError(w http.ResponseWriter, _ *http.Request) {
	h.ctrl.DismissError()
	w.WriteHeader(http.StatusNoContent)
}
