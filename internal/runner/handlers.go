// ABOUTME: HTTP handlers for the pack runner surface.
// ABOUTME: Exposes formula execution, sync table paging, updates, and schema describe.

package runner

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/2389/packkit/internal/errors"
	"github.com/2389/packkit/packs/core"
)

type Handlers struct{}

func NewHandlers() *Handlers {
	return &Handlers{}
}

func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/runner", func(r chi.Router) {
		r.Get("/packs", h.listPacks)
		r.Get("/packs/{pack}", h.getPack)
		r.Get("/packs/{pack}/tables/{table}/schema", h.tableSchema)
		r.Post("/packs/{pack}/formulas/{formula}", h.executeFormula)
		r.Post("/packs/{pack}/tables/{table}/sync", h.syncTable)
		r.Post("/packs/{pack}/tables/{table}/update", h.updateRow)
		r.Get("/packs/{pack}/options/{property}", h.propertyOptions)
	})
}

// listPacks handles GET /runner/packs
func (h *Handlers) listPacks(w http.ResponseWriter, r *http.Request) {
	packs := core.All()
	sort.Slice(packs, func(i, j int) bool { return packs[i].Name() < packs[j].Name() })

	items := make([]map[string]any, 0, len(packs))
	for _, p := range packs {
		items = append(items, packSummary(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"packs": items})
}

// getPack handles GET /runner/packs/{pack}
func (h *Handlers) getPack(w http.ResponseWriter, r *http.Request) {
	p, ok := core.Get(chi.URLParam(r, "pack"))
	if !ok {
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrNotFound, "pack not found")
		return
	}

	detail := packSummary(p)

	formulas := make([]map[string]any, 0)
	for _, f := range p.Formulas() {
		params := make([]map[string]any, 0, len(f.Parameters))
		for _, param := range f.Parameters {
			params = append(params, map[string]any{
				"name":        param.Name,
				"type":        param.Type,
				"description": param.Description,
				"optional":    param.Optional,
			})
		}
		formulas = append(formulas, map[string]any{
			"name":        f.Name,
			"description": f.Description,
			"parameters":  params,
		})
	}
	detail["formulas"] = formulas

	writeJSON(w, http.StatusOK, detail)
}

// tableSchema handles GET /runner/packs/{pack}/tables/{table}/schema
//
// Without a metadataKeys query parameter the schema covers every registered
// metadata key; metadataKeys= (empty) covers none.
func (h *Handlers) tableSchema(w http.ResponseWriter, r *http.Request) {
	table, ok := h.findTable(w, r)
	if !ok {
		return
	}

	var metadataKeys []string
	if raw, present := r.URL.Query()["metadataKeys"]; present {
		metadataKeys = []string{}
		for _, chunk := range raw {
			for _, key := range strings.Split(chunk, ",") {
				if key != "" {
					metadataKeys = append(metadataKeys, key)
				}
			}
		}
	}

	schema, err := table.DescribeSchema(metadataKeys)
	if err != nil {
		apierrors.WriteForError(w, err)
		return
	}

	fields := make([]map[string]any, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		fields = append(fields, map[string]any{
			"name":     f.Name,
			"type":     f.Type,
			"display":  f.Display,
			"optional": f.Optional,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    schema.Name,
		"idField": schema.IDField,
		"fields":  fields,
	})
}

// executeFormula handles POST /runner/packs/{pack}/formulas/{formula}
func (h *Handlers) executeFormula(w http.ResponseWriter, r *http.Request) {
	p, ok := core.Get(chi.URLParam(r, "pack"))
	if !ok {
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrNotFound, "pack not found")
		return
	}

	name := chi.URLParam(r, "formula")
	var formula *core.Formula
	for _, f := range p.Formulas() {
		if f.Name == name {
			formula = &f
			break
		}
	}
	if formula == nil {
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrNotFound, "formula not found")
		return
	}

	args := map[string]any{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
			apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrInvalidBody, "invalid request body")
			return
		}
	}

	result, err := formula.Execute(r.Context(), args)
	if err != nil {
		apierrors.WriteForError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": result})
}

// syncRequestBody is the wire shape of one sync invocation
type syncRequestBody struct {
	Filter       map[string]any    `json:"filter"`
	MetadataKeys []string          `json:"metadataKeys"`
	Continuation core.Continuation `json:"continuation"`
}

// syncTable handles POST /runner/packs/{pack}/tables/{table}/sync
func (h *Handlers) syncTable(w http.ResponseWriter, r *http.Request) {
	table, ok := h.findTable(w, r)
	if !ok {
		return
	}

	var body syncRequestBody
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrInvalidBody, "invalid request body")
			return
		}
	}

	result, err := table.Sync(r.Context(), core.SyncRequest{
		Filter:       body.Filter,
		MetadataKeys: body.MetadataKeys,
		Continuation: body.Continuation,
	})
	if err != nil {
		apierrors.WriteForError(w, err)
		return
	}

	w.Header().Set("X-Enrichment-Failures", strconv.Itoa(result.EnrichmentFailures))
	writeJSON(w, http.StatusOK, map[string]any{
		"items":              result.Items,
		"continuation":       result.Continuation,
		"enrichmentFailures": result.EnrichmentFailures,
	})
}

// updateRequestBody is the wire shape of one row update
type updateRequestBody struct {
	Previous      core.Item `json:"previous"`
	Updated       core.Item `json:"updated"`
	ChangedFields []string  `json:"changedFields"`
}

// updateRow handles POST /runner/packs/{pack}/tables/{table}/update
func (h *Handlers) updateRow(w http.ResponseWriter, r *http.Request) {
	table, ok := h.findTable(w, r)
	if !ok {
		return
	}
	if table.Update == nil {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrInvalidRequest, "table is read-only")
		return
	}

	var body updateRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrInvalidBody, "invalid request body")
		return
	}

	item, err := table.Update(r.Context(), core.UpdateRequest{
		Previous:      body.Previous,
		Updated:       body.Updated,
		ChangedFields: body.ChangedFields,
	})
	if err != nil {
		apierrors.WriteForError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": item})
}

// propertyOptions handles GET /runner/packs/{pack}/options/{property}
func (h *Handlers) propertyOptions(w http.ResponseWriter, r *http.Request) {
	p, ok := core.Get(chi.URLParam(r, "pack"))
	if !ok {
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrNotFound, "pack not found")
		return
	}

	provider, ok := p.(core.PropertyOptionsProvider)
	if !ok {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrInvalidRequest, "pack has no property options")
		return
	}

	options, err := provider.PropertyOptions(r.Context(), chi.URLParam(r, "property"))
	if err != nil {
		apierrors.WriteForError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"options": options})
}

// findTable resolves the pack and table URL params, writing the error response
// itself when either is missing.
func (h *Handlers) findTable(w http.ResponseWriter, r *http.Request) (*core.SyncTable, bool) {
	p, ok := core.Get(chi.URLParam(r, "pack"))
	if !ok {
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrNotFound, "pack not found")
		return nil, false
	}

	name := chi.URLParam(r, "table")
	for _, table := range p.SyncTables() {
		if table.Name == name {
			return table, true
		}
	}
	apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrNotFound, "table not found")
	return nil, false
}

func packSummary(p core.Pack) map[string]any {
	health := p.Health()

	tables := make([]map[string]any, 0)
	for _, t := range p.SyncTables() {
		entry := map[string]any{
			"name":        t.Name,
			"description": t.Description,
			"readOnly":    t.Update == nil,
		}
		keys := make([]string, 0, len(t.Enrichers))
		for key := range t.Enrichers {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		entry["metadataKeys"] = keys
		tables = append(tables, entry)
	}

	return map[string]any{
		"name": p.Name(),
		"health": map[string]any{
			"status":  health.Status,
			"message": health.Message,
		},
		"tables": tables,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
