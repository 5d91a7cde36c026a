// ABOUTME: Paginated sync engine driving multi-page listing fetches.
// ABOUTME: Carries opaque continuations between invocations and runs best-effort enrichment.

package core

import (
	"context"
	"fmt"
	"log"
)

// PageSize is the fixed limit requested per listing page
const PageSize = 20

// continuationKey is the single key a Continuation carries: the next-page URL
const continuationKey = "nextPageUrl"

// Item is one remote resource, keyed by field name. Every item carries a
// unique identifier field named by its table's schema.
type Item map[string]any

// ListingPage is the result of one fetch: server-ordered items plus an
// optional opaque token for the next page.
type ListingPage struct {
	Items         []Item
	NextPageToken string
}

// Continuation is host-owned state threaded between sync invocations. The
// engine treats it as opaque beyond presence; the host persists and replays it.
type Continuation map[string]string

// NewContinuation wraps a next-page token
func NewContinuation(token string) Continuation {
	return Continuation{continuationKey: token}
}

// Token returns the next-page URL carried by the continuation, if any
func (c Continuation) Token() string {
	if c == nil {
		return ""
	}
	return c[continuationKey]
}

// Enricher is a unit of work keyed by a metadata key. Run mutates the page's
// items in place with fields looked up from a secondary source, and Field is
// the schema property those fields appear under. Jobs run one at a time per
// page, so a Run may fan out internally without coordinating with other jobs.
type Enricher struct {
	Name  string
	Field FieldSchema
	Run   func(ctx context.Context, items []Item) error
}

// Engine drives the page-fetch loop for one sync table. FetchPage issues a
// single GET and decodes the listing shape; Format canonicalizes one item.
type Engine struct {
	Table     string
	FetchPage func(ctx context.Context, pageURL string) (*ListingPage, error)
	Format    func(Item) Item
	Enrichers map[string]*Enricher
}

// SyncResult is one page of a sync plus the state needed to resume it
type SyncResult struct {
	Items        []Item
	Continuation Continuation // nil when the sync is complete

	// EnrichmentFailures counts enrichment jobs that failed on this page.
	// Failed jobs leave their fields absent; they never fail the page.
	EnrichmentFailures int
}

// Sync fetches one page. A continuation carrying a token resumes from that
// URL verbatim (it already encodes all filter parameters server-side);
// otherwise firstPageURL starts a fresh sync. metadataKeys selects which
// enrichment jobs run; an unknown key fails before any network work.
func (e *Engine) Sync(ctx context.Context, firstPageURL string, metadataKeys []string, cont Continuation) (*SyncResult, error) {
	enrichers, err := e.selectEnrichers(metadataKeys)
	if err != nil {
		return nil, err
	}

	pageURL := cont.Token()
	if pageURL == "" {
		pageURL = firstPageURL
	}

	page, err := e.FetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	items := page.Items
	if e.Format != nil {
		for i, item := range items {
			items[i] = e.Format(item)
		}
	}

	failures := e.enrich(ctx, enrichers, items)

	result := &SyncResult{Items: items, EnrichmentFailures: failures}
	if page.NextPageToken != "" {
		result.Continuation = NewContinuation(page.NextPageToken)
	}
	return result, nil
}

func (e *Engine) selectEnrichers(metadataKeys []string) ([]*Enricher, error) {
	selected := make([]*Enricher, 0, len(metadataKeys))
	for _, key := range metadataKeys {
		enricher, ok := e.Enrichers[key]
		if !ok {
			return nil, &ConfigurationError{Message: fmt.Sprintf("unknown metadata key %q", key)}
		}
		selected = append(selected, enricher)
	}
	return selected, nil
}

// enrich runs the selected jobs in request order. Jobs write fields into the
// shared item maps, so they never run concurrently with each other; a job
// that needs parallelism fans out over the items it owns. A failing job is
// logged and counted but leaves its fields absent rather than failing the page.
func (e *Engine) enrich(ctx context.Context, enrichers []*Enricher, items []Item) int {
	if len(items) == 0 {
		return 0
	}

	failures := 0
	for _, enricher := range enrichers {
		if err := e.runEnricher(ctx, enricher, items); err != nil {
			failures++
			log.Printf("sync %s: enrichment %q failed: %v", e.Table, enricher.Name, err)
		}
	}
	return failures
}

func (e *Engine) runEnricher(ctx context.Context, enricher *Enricher, items []Item) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return enricher.Run(ctx, items)
}

// SyncTable binds a named table to its schema, enrichment registry, and the
// pack-specific sync/update closures the runner invokes.
type SyncTable struct {
	Name        string
	Description string
	Schema      TableSchema
	Enrichers   map[string]*Enricher

	Sync func(ctx context.Context, req SyncRequest) (*SyncResult, error)

	// Update is nil for read-only tables
	Update func(ctx context.Context, req UpdateRequest) (Item, error)
}

// SyncRequest carries one sync invocation's inputs
type SyncRequest struct {
	Filter       map[string]any
	MetadataKeys []string
	Continuation Continuation
}

// UpdateRequest carries a bidirectional edit: the item as last synced, the
// edited item, and the field names the caller changed.
type UpdateRequest struct {
	Previous      Item
	Updated       Item
	ChangedFields []string
}

// DescribeSchema returns the table's schema extended for the given metadata
// selection (nil selects every registered key).
func (t *SyncTable) DescribeSchema(metadataKeys []string) (TableSchema, error) {
	return ExtendSchema(t.Schema, t.Enrichers, metadataKeys)
}
