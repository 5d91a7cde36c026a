// ABOUTME: Tests for the paginated sync engine.
// ABOUTME: Covers continuation termination, best-effort enrichment, and pre-fetch validation.

package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// pagedFetcher serves a fixed sequence of pages keyed by URL and records
// every fetch it performs.
type pagedFetcher struct {
	pages   map[string]*ListingPage
	fetched []string
}

func (f *pagedFetcher) fetchPage(ctx context.Context, pageURL string) (*ListingPage, error) {
	f.fetched = append(f.fetched, pageURL)
	page, ok := f.pages[pageURL]
	if !ok {
		return nil, &TransportError{URL: pageURL, Err: errors.New("no such page")}
	}
	// Copy so the engine's in-place formatting doesn't mutate fixtures
	copied := &ListingPage{NextPageToken: page.NextPageToken}
	for _, item := range page.Items {
		dup := make(Item, len(item))
		for k, v := range item {
			dup[k] = v
		}
		copied.Items = append(copied.Items, dup)
	}
	return copied, nil
}

func threePageFetcher() *pagedFetcher {
	return &pagedFetcher{pages: map[string]*ListingPage{
		"https://api.test/packs?limit=20": {
			Items:         []Item{{"id": "p1"}, {"id": "p2"}},
			NextPageToken: "https://api.test/packs?limit=20&pageToken=2",
		},
		"https://api.test/packs?limit=20&pageToken=2": {
			Items:         []Item{{"id": "p3"}, {"id": "p4"}},
			NextPageToken: "https://api.test/packs?limit=20&pageToken=3",
		},
		"https://api.test/packs?limit=20&pageToken=3": {
			Items: []Item{{"id": "p5"}},
		},
	}}
}

func TestSyncFollowsContinuationsToTermination(t *testing.T) {
	fetcher := threePageFetcher()
	engine := &Engine{Table: "Packs", FetchPage: fetcher.fetchPage}

	firstURL := "https://api.test/packs?limit=20"
	seen := make(map[string]bool)
	var cont Continuation

	for step := 0; ; step++ {
		if step > 10 {
			t.Fatal("sync did not terminate within 10 pages")
		}

		result, err := engine.Sync(context.Background(), firstURL, nil, cont)
		if err != nil {
			t.Fatalf("Sync() step %d error = %v", step, err)
		}

		for _, item := range result.Items {
			id := item["id"].(string)
			if seen[id] {
				t.Errorf("duplicate identifier %q across pages", id)
			}
			seen[id] = true
		}

		if result.Continuation == nil {
			break
		}
		cont = result.Continuation
	}

	if len(seen) != 5 {
		t.Errorf("expected 5 distinct items across all pages, got %d", len(seen))
	}

	// Each page fetched exactly once, in server order
	if len(fetcher.fetched) != 3 {
		t.Errorf("expected 3 fetches, got %d: %v", len(fetcher.fetched), fetcher.fetched)
	}
}

func TestSyncResumeDoesNotRefetchFirstPage(t *testing.T) {
	fetcher := threePageFetcher()
	engine := &Engine{Table: "Packs", FetchPage: fetcher.fetchPage}

	firstURL := "https://api.test/packs?limit=20"
	result, err := engine.Sync(context.Background(), firstURL, nil, nil)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if result.Continuation == nil {
		t.Fatal("expected a continuation after page 1")
	}

	if _, err := engine.Sync(context.Background(), firstURL, nil, result.Continuation); err != nil {
		t.Fatalf("Sync() resume error = %v", err)
	}

	for _, url := range fetcher.fetched[1:] {
		if url == firstURL {
			t.Error("resumed sync refetched page 1")
		}
	}
}

func TestSyncNoMetadataKeysRunsNoEnrichment(t *testing.T) {
	fetcher := threePageFetcher()
	ran := false
	engine := &Engine{
		Table:     "Packs",
		FetchPage: fetcher.fetchPage,
		Enrichers: map[string]*Enricher{
			"extra": {Name: "extra", Run: func(ctx context.Context, items []Item) error {
				ran = true
				return nil
			}},
		},
	}

	result, err := engine.Sync(context.Background(), "https://api.test/packs?limit=20", nil, nil)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if ran {
		t.Error("enrichment ran despite no metadata keys requested")
	}
	if len(result.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(result.Items))
	}
	for _, item := range result.Items {
		if _, present := item["extra"]; present {
			t.Error("item carries enrichment field without enrichment requested")
		}
	}
}

func TestSyncBestEffortEnrichment(t *testing.T) {
	fetcher := threePageFetcher()
	engine := &Engine{
		Table:     "Packs",
		FetchPage: fetcher.fetchPage,
		Enrichers: map[string]*Enricher{
			"good": {Name: "good", Run: func(ctx context.Context, items []Item) error {
				for _, item := range items {
					item["good"] = "yes"
				}
				return nil
			}},
			"bad": {Name: "bad", Run: func(ctx context.Context, items []Item) error {
				return errors.New("secondary source down")
			}},
		},
	}

	result, err := engine.Sync(context.Background(), "https://api.test/packs?limit=20", []string{"good", "bad"}, nil)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if len(result.Items) != 2 {
		t.Errorf("failing enrichment must not drop items: got %d of 2", len(result.Items))
	}
	for _, item := range result.Items {
		if item["good"] != "yes" {
			t.Errorf("item %v missing field from succeeding enricher", item)
		}
		if _, present := item["bad"]; present {
			t.Errorf("item %v has field from failing enricher", item)
		}
	}
	if result.EnrichmentFailures != 1 {
		t.Errorf("expected 1 enrichment failure, got %d", result.EnrichmentFailures)
	}
}

func TestSyncPanickingEnricherTolerated(t *testing.T) {
	fetcher := threePageFetcher()
	engine := &Engine{
		Table:     "Packs",
		FetchPage: fetcher.fetchPage,
		Enrichers: map[string]*Enricher{
			"boom": {Name: "boom", Run: func(ctx context.Context, items []Item) error {
				panic("handler bug")
			}},
		},
	}

	result, err := engine.Sync(context.Background(), "https://api.test/packs?limit=20", []string{"boom"}, nil)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if result.EnrichmentFailures != 1 {
		t.Errorf("expected panicking enricher counted as failure, got %d", result.EnrichmentFailures)
	}
}

func TestSyncUnknownMetadataKeyFailsBeforeFetch(t *testing.T) {
	fetcher := threePageFetcher()
	engine := &Engine{Table: "Packs", FetchPage: fetcher.fetchPage}

	_, err := engine.Sync(context.Background(), "https://api.test/packs?limit=20", []string{"unknown"}, nil)
	if err == nil {
		t.Fatal("expected error for unknown metadata key")
	}

	var confErr *ConfigurationError
	if !errors.As(err, &confErr) {
		t.Errorf("expected ConfigurationError, got %T: %v", err, err)
	}
	if len(fetcher.fetched) != 0 {
		t.Errorf("expected no network work before configuration error, got %d fetches", len(fetcher.fetched))
	}
}

func TestSyncTransportErrorPropagates(t *testing.T) {
	engine := &Engine{
		Table: "Packs",
		FetchPage: func(ctx context.Context, pageURL string) (*ListingPage, error) {
			return nil, &TransportError{URL: pageURL, Err: errors.New("connection refused")}
		},
	}

	_, err := engine.Sync(context.Background(), "https://api.test/packs?limit=20", nil, nil)
	if err == nil {
		t.Fatal("expected transport error to propagate")
	}

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Errorf("expected TransportError, got %T: %v", err, err)
	}
}

func TestSyncAppliesFormat(t *testing.T) {
	fetcher := threePageFetcher()
	engine := &Engine{
		Table:     "Packs",
		FetchPage: fetcher.fetchPage,
		Format: func(item Item) Item {
			if id, ok := item["id"]; ok {
				item["packId"] = id
				delete(item, "id")
			}
			return item
		},
	}

	result, err := engine.Sync(context.Background(), "https://api.test/packs?limit=20", nil, nil)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	for _, item := range result.Items {
		if _, ok := item["packId"]; !ok {
			t.Errorf("item %v not normalized", item)
		}
		if _, ok := item["id"]; ok {
			t.Errorf("item %v still carries raw identifier", item)
		}
	}
}

func TestContinuationToken(t *testing.T) {
	if token := (Continuation)(nil).Token(); token != "" {
		t.Errorf("nil continuation token = %q, want empty", token)
	}

	cont := NewContinuation("https://api.test/packs?pageToken=9")
	if cont.Token() != "https://api.test/packs?pageToken=9" {
		t.Errorf("Token() = %q", cont.Token())
	}
}

func TestStringSetDiff(t *testing.T) {
	tests := []struct {
		name        string
		prev, next  []string
		wantRemoved []string
		wantAdded   []string
	}{
		{"categories A,B to B,C", []string{"A", "B"}, []string{"B", "C"}, []string{"A"}, []string{"C"}},
		{"no change", []string{"A"}, []string{"A"}, nil, nil},
		{"all removed", []string{"A", "B"}, nil, []string{"A", "B"}, nil},
		{"all added", nil, []string{"X", "Y"}, nil, []string{"X", "Y"}},
		{"both empty", nil, nil, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			removed, added := StringSetDiff(tt.prev, tt.next)
			if fmt.Sprint(removed) != fmt.Sprint(tt.wantRemoved) {
				t.Errorf("removed = %v, want %v", removed, tt.wantRemoved)
			}
			if fmt.Sprint(added) != fmt.Sprint(tt.wantAdded) {
				t.Errorf("added = %v, want %v", added, tt.wantAdded)
			}
		})
	}
}
