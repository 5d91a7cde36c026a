// ABOUTME: The Packs sync table and its enrichment registry.
// ABOUTME: Enrichers fetch per-pack data from secondary endpoints, best-effort.

package packmeta

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/2389/packkit/packs/core"
)

func packsSchema() core.TableSchema {
	return core.TableSchema{
		Name:    "Packs",
		IDField: "packId",
		Fields: []core.FieldSchema{
			{Name: "packId", Type: "string", Display: "Pack ID"},
			{Name: "name", Type: "string", Display: "Name"},
			{Name: "shortDescription", Type: "string", Display: "Short Description", Optional: true},
			{Name: "description", Type: "string", Display: "Description", Optional: true},
			{Name: "version", Type: "string", Display: "Version", Optional: true},
			{Name: "published", Type: "boolean", Display: "Published"},
			{Name: "archived", Type: "boolean", Display: "Archived"},
			{Name: "categories", Type: "array", Display: "Categories", Optional: true},
			{Name: "makerName", Type: "string", Display: "Maker", Optional: true},
		},
	}
}

func (p *Pack) packsTable() *core.SyncTable {
	enrichers := p.enrichers()
	table := &core.SyncTable{
		Name:        "Packs",
		Description: "All Packs visible to the current account.",
		Schema:      packsSchema(),
		Enrichers:   enrichers,
		Update:      p.updatePack,
	}
	table.Sync = func(ctx context.Context, req core.SyncRequest) (*core.SyncResult, error) {
		if p.client == nil {
			return nil, &core.UserVisibleError{Message: "platform endpoint not configured"}
		}
		engine := &core.Engine{
			Table:     "Packs",
			FetchPage: p.client.FetchPackPage,
			Format:    FormatItem,
			Enrichers: enrichers,
		}
		firstURL := p.client.ListPacksURL(filterFromRequest(req.Filter))
		return engine.Sync(ctx, firstURL, req.MetadataKeys, req.Continuation)
	}
	return table
}

func filterFromRequest(filter map[string]any) Filter {
	f := Filter{}
	if v, ok := filter["includePublished"].(bool); ok {
		f.IncludePublished = v
	}
	if v, ok := filter["includeWorkspace"].(bool); ok {
		f.IncludeWorkspace = v
	}
	if v, ok := filter["excludeArchived"].(bool); ok {
		f.ExcludeArchived = v
	}
	if v, ok := filter["q"].(string); ok {
		f.Query = v
	}
	return f
}

// enrichers is the static metadata registry for the Packs table. Each entry
// contributes one schema field and one per-page enrichment job.
func (p *Pack) enrichers() map[string]*core.Enricher {
	return map[string]*core.Enricher{
		"versionHistory": {
			Name:  "versionHistory",
			Field: core.FieldSchema{Name: "versionHistory", Type: "array", Display: "Version History", Optional: true},
			Run: func(ctx context.Context, items []core.Item) error {
				return p.enrichEach(ctx, items, "versionHistory", func(ctx context.Context, packID string) (any, error) {
					return p.client.GetVersions(ctx, packID)
				})
			},
		},
		"sourceFiles": {
			Name:  "sourceFiles",
			Field: core.FieldSchema{Name: "sourceFiles", Type: "array", Display: "Source Files", Optional: true},
			Run: func(ctx context.Context, items []core.Item) error {
				return p.enrichEach(ctx, items, "sourceFiles", func(ctx context.Context, packID string) (any, error) {
					return p.client.GetSourceFiles(ctx, packID)
				})
			},
		},
		"stats": {
			Name:  "stats",
			Field: core.FieldSchema{Name: "stats", Type: "object", Display: "Stats", Optional: true},
			Run: func(ctx context.Context, items []core.Item) error {
				return p.enrichEach(ctx, items, "stats", func(ctx context.Context, packID string) (any, error) {
					return p.client.GetStats(ctx, packID)
				})
			},
		},
	}
}

// enrichEach fires one lookup per item in parallel and attaches the result
// under field. Items whose lookup fails are left untouched; the collected
// errors fail the job as a whole.
func (p *Pack) enrichEach(ctx context.Context, items []core.Item, field string, lookup func(ctx context.Context, packID string) (any, error)) error {
	errs := make([]error, len(items))
	var wg sync.WaitGroup
	for i, item := range items {
		packID, ok := item["packId"].(string)
		if !ok {
			errs[i] = fmt.Errorf("item %d has no packId", i)
			continue
		}

		wg.Add(1)
		go func(i int, item core.Item, packID string) {
			defer wg.Done()
			value, err := lookup(ctx, packID)
			if err != nil {
				errs[i] = fmt.Errorf("pack %s: %w", packID, err)
				return
			}
			item[field] = value
		}(i, item, packID)
	}
	wg.Wait()
	return errors.Join(errs...)
}
