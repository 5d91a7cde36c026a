// ABOUTME: HTTP handlers for the dev platform REST API.
// ABOUTME: Serves pack listing, metadata, category edits, and the phone directory.

package platform

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/2389/packkit/internal/errors"
	"github.com/2389/packkit/internal/store"
)

const defaultPageSize = 20

type Handlers struct {
	store *store.Store
}

func NewHandlers(s *store.Store) *Handlers {
	return &Handlers{store: s}
}

func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/apis/v1", func(r chi.Router) {
		r.Get("/packs", h.listPacks)
		r.Get("/packs/{packID}", h.getPack)
		r.Patch("/packs/{packID}", h.patchPack)
		r.Get("/packs/{packID}/versions", h.packVersions)
		r.Get("/packs/{packID}/sourceCode", h.packSourceCode)
		r.Get("/packs/{packID}/stats", h.packStats)
		r.Post("/packs/{packID}/categories", h.addCategory)
		r.Delete("/packs/{packID}/categories/{category}", h.removeCategory)
		r.Get("/categories", h.listCategories)
		r.Get("/numbers", h.listNumbers)
	})
}

// listPacks handles GET /apis/v1/packs
func (h *Handlers) listPacks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := defaultPageSize
	if raw := q.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrInvalidRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	filter := store.PackFilter{
		IncludePublished: q.Get("includePublished") == "true",
		IncludeWorkspace: q.Get("includeWorkspace") == "true",
		ExcludeArchived:  q.Get("excludeArchived") == "true",
		Query:            q.Get("q"),
	}

	packs, nextToken, err := h.store.ListPacks(filter, limit, q.Get("pageToken"))
	if err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrDatabaseError, "failed to list packs")
		return
	}

	items := make([]map[string]any, 0, len(packs))
	for _, p := range packs {
		wire, err := h.packToWire(&p)
		if err != nil {
			apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrDatabaseError, "failed to load pack categories")
			return
		}
		items = append(items, wire)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":        items,
		"nextPageLink": h.pageLink(r, nextToken),
	})
}

// getPack handles GET /apis/v1/packs/{packID}
func (h *Handlers) getPack(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetPack(chi.URLParam(r, "packID"))
	if err != nil {
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrNotFound, "pack not found")
		return
	}

	wire, err := h.packToWire(p)
	if err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrDatabaseError, "failed to load pack categories")
		return
	}
	writeJSON(w, http.StatusOK, wire)
}

// patchPack handles PATCH /apis/v1/packs/{packID}
func (h *Handlers) patchPack(w http.ResponseWriter, r *http.Request) {
	packID := chi.URLParam(r, "packID")

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrInvalidBody, "invalid request body")
		return
	}

	if err := h.store.UpdatePack(packID, fields); err != nil {
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrNotFound, "pack not found")
		return
	}

	p, err := h.store.GetPack(packID)
	if err != nil {
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrNotFound, "pack not found")
		return
	}
	wire, err := h.packToWire(p)
	if err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrDatabaseError, "failed to load pack categories")
		return
	}
	writeJSON(w, http.StatusOK, wire)
}

// packVersions handles GET /apis/v1/packs/{packID}/versions
func (h *Handlers) packVersions(w http.ResponseWriter, r *http.Request) {
	packID := chi.URLParam(r, "packID")
	if _, err := h.store.GetPack(packID); err != nil {
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrNotFound, "pack not found")
		return
	}

	versions, err := h.store.PackVersionHistory(packID)
	if err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrDatabaseError, "failed to load versions")
		return
	}

	items := make([]map[string]any, 0, len(versions))
	for _, v := range versions {
		items = append(items, map[string]any{
			"packVersion": v.PackVersion,
			"releaseDate": v.ReleaseDate,
			"notes":       v.Notes,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// packSourceCode handles GET /apis/v1/packs/{packID}/sourceCode
func (h *Handlers) packSourceCode(w http.ResponseWriter, r *http.Request) {
	packID := chi.URLParam(r, "packID")
	if _, err := h.store.GetPack(packID); err != nil {
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrNotFound, "pack not found")
		return
	}

	files, err := h.store.PackSourceFiles(packID)
	if err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrDatabaseError, "failed to load source files")
		return
	}

	wire := make([]map[string]any, 0, len(files))
	for _, f := range files {
		wire = append(wire, map[string]any{
			"filename": f.Filename,
			"size":     f.Size,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": wire})
}

// packStats handles GET /apis/v1/packs/{packID}/stats
func (h *Handlers) packStats(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetPack(chi.URLParam(r, "packID"))
	if err != nil {
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrNotFound, "pack not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"packId":       p.ID,
		"installCount": p.InstallCount,
	})
}

// addCategory handles POST /apis/v1/packs/{packID}/categories
func (h *Handlers) addCategory(w http.ResponseWriter, r *http.Request) {
	packID := chi.URLParam(r, "packID")
	if _, err := h.store.GetPack(packID); err != nil {
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrNotFound, "pack not found")
		return
	}

	var req struct {
		CategoryName string `json:"categoryName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrInvalidBody, "invalid request body")
		return
	}
	if req.CategoryName == "" {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrMissingField, "categoryName is required")
		return
	}

	if err := h.store.AddPackCategory(packID, req.CategoryName); err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrDatabaseError, "failed to add category")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categoryName": req.CategoryName})
}

// removeCategory handles DELETE /apis/v1/packs/{packID}/categories/{category}
func (h *Handlers) removeCategory(w http.ResponseWriter, r *http.Request) {
	packID := chi.URLParam(r, "packID")
	if _, err := h.store.GetPack(packID); err != nil {
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrNotFound, "pack not found")
		return
	}

	category := chi.URLParam(r, "category")
	if err := h.store.RemovePackCategory(packID, category); err != nil {
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrNotFound, "category not on pack")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listCategories handles GET /apis/v1/categories
func (h *Handlers) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories()
	if err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrDatabaseError, "failed to list categories")
		return
	}

	items := make([]map[string]any, 0, len(categories))
	for _, name := range categories {
		items = append(items, map[string]any{"name": name})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// listNumbers handles GET /apis/v1/numbers
func (h *Handlers) listNumbers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := defaultPageSize
	if raw := q.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrInvalidRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	numbers, nextToken, err := h.store.ListPhoneNumbers(q.Get("verifiedOnly") == "true", limit, q.Get("pageToken"))
	if err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrDatabaseError, "failed to list numbers")
		return
	}

	items := make([]map[string]any, 0, len(numbers))
	for _, n := range numbers {
		items = append(items, map[string]any{
			"id":       n.ID,
			"number":   n.Number,
			"label":    n.Label,
			"verified": n.Verified,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":        items,
		"nextPageLink": h.pageLink(r, nextToken),
	})
}

// packToWire converts a stored pack to the platform wire shape
func (h *Handlers) packToWire(p *store.Pack) (map[string]any, error) {
	categories, err := h.store.PackCategories(p.ID)
	if err != nil {
		return nil, err
	}

	wireCategories := make([]map[string]any, 0, len(categories))
	for _, name := range categories {
		wireCategories = append(wireCategories, map[string]any{"categoryName": name})
	}

	return map[string]any{
		"id":               p.ID,
		"name":             p.Name,
		"shortDescription": p.ShortDescription,
		"description":      p.Description,
		"version":          p.Version,
		"published":        p.Published,
		"archived":         p.Archived,
		"maker":            map[string]any{"name": p.MakerName},
		"categories":       wireCategories,
	}, nil
}

// pageLink builds the absolute next-page URL for a listing response, or ""
// when this is the last page. Clients replay the link verbatim.
func (h *Handlers) pageLink(r *http.Request, token string) string {
	if token == "" {
		return ""
	}
	q := r.URL.Query()
	q.Set("pageToken", token)

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.Path + "?" + q.Encode()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
