// ABOUTME: HTTP handlers for the admin surface.
// ABOUTME: Serves request log queries, traffic stats, and pack health as JSON.

package admin

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/2389/packkit/internal/errors"
	"github.com/2389/packkit/internal/store"
	"github.com/2389/packkit/packs/core"
)

type Handlers struct {
	store *store.Store
}

func NewHandlers(s *store.Store) *Handlers {
	return &Handlers{store: s}
}

func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Get("/stats", h.stats)
		r.Get("/logs", h.logs)
		r.Get("/packs", h.packs)
	})
}

// stats handles GET /admin/stats
func (h *Handlers) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetRequestLogStats()
	if err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrDatabaseError, "failed to load stats")
		return
	}

	writeJSON(w, map[string]any{
		"totalRequests": stats.TotalRequests,
		"errorRequests": stats.ErrorRequests,
		"avgDurationMs": stats.AvgDurationMs,
	})
}

// logs handles GET /admin/logs
func (h *Handlers) logs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := &store.RequestLogQuery{
		Limit:      50,
		Component:  q.Get("component"),
		Method:     q.Get("method"),
		PathPrefix: q.Get("path"),
	}
	if raw := q.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrInvalidRequest, "limit must be a positive integer")
			return
		}
		query.Limit = parsed
	}
	if raw := q.Get("status"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrInvalidRequest, "status must be an integer")
			return
		}
		query.StatusCode = parsed
	}

	logs, err := h.store.GetRequestLogs(query)
	if err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrDatabaseError, "failed to load logs")
		return
	}

	items := make([]map[string]any, 0, len(logs))
	for _, entry := range logs {
		items = append(items, map[string]any{
			"timestamp":  entry.Timestamp,
			"component":  entry.Component,
			"method":     entry.Method,
			"path":       entry.Path,
			"status":     entry.StatusCode,
			"durationMs": entry.DurationMs,
			"userId":     entry.UserID,
		})
	}
	writeJSON(w, map[string]any{"logs": items})
}

// packs handles GET /admin/packs
func (h *Handlers) packs(w http.ResponseWriter, r *http.Request) {
	packs := core.All()
	sort.Slice(packs, func(i, j int) bool { return packs[i].Name() < packs[j].Name() })

	items := make([]map[string]any, 0, len(packs))
	for _, p := range packs {
		health := p.Health()
		items = append(items, map[string]any{
			"name":     p.Name(),
			"status":   health.Status,
			"message":  health.Message,
			"formulas": len(p.Formulas()),
			"tables":   len(p.SyncTables()),
		})
	}
	writeJSON(w, map[string]any{"packs": items})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
