// ABOUTME: The Numbers sync table over the platform's verified-number directory.
// ABOUTME: Enrichers are local library lookups attached per page, best-effort.

package phone

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nyaruka/phonenumbers"

	"github.com/2389/packkit/packs/core"
)

// Client fetches directory pages from the platform API
type Client struct {
	BaseURL string
	Fetcher core.Fetcher
}

func NewClient(baseURL string, fetcher core.Fetcher) *Client {
	return &Client{BaseURL: baseURL, Fetcher: fetcher}
}

// ListNumbersURL builds the first-page URL for a fresh sync
func (c *Client) ListNumbersURL(verifiedOnly bool) string {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(core.PageSize))
	if verifiedOnly {
		params.Set("verifiedOnly", "true")
	}
	return c.BaseURL + "/apis/v1/numbers?" + params.Encode()
}

// FetchNumbersPage fetches one directory page and attaches the nested
// formats object each item carries into normalization.
func (c *Client) FetchNumbersPage(ctx context.Context, pageURL string) (*core.ListingPage, error) {
	var resp struct {
		Items        []core.Item `json:"items"`
		NextPageLink string      `json:"nextPageLink"`
	}
	if err := core.FetchJSON(ctx, c.Fetcher, core.FetchRequest{URL: pageURL}, &resp); err != nil {
		return nil, err
	}
	for _, item := range resp.Items {
		attachFormats(item)
	}
	return &core.ListingPage{Items: resp.Items, NextPageToken: resp.NextPageLink}, nil
}

func numbersSchema() core.TableSchema {
	return core.TableSchema{
		Name:    "Numbers",
		IDField: "numberId",
		Fields: []core.FieldSchema{
			{Name: "numberId", Type: "string", Display: "Number ID"},
			{Name: "number", Type: "string", Display: "Number"},
			{Name: "label", Type: "string", Display: "Label", Optional: true},
			{Name: "verified", Type: "boolean", Display: "Verified"},
			{Name: "e164", Type: "string", Display: "E.164", Optional: true},
			{Name: "international", Type: "string", Display: "International", Optional: true},
			{Name: "national", Type: "string", Display: "National", Optional: true},
			{Name: "rfc3966", Type: "string", Display: "RFC 3966", Optional: true},
		},
	}
}

func (p *Pack) numbersTable() *core.SyncTable {
	enrichers := numberEnrichers()
	table := &core.SyncTable{
		Name:        "Numbers",
		Description: "Verified phone numbers in the account directory.",
		Schema:      numbersSchema(),
		Enrichers:   enrichers,
	}
	table.Sync = func(ctx context.Context, req core.SyncRequest) (*core.SyncResult, error) {
		if p.client == nil {
			return nil, &core.UserVisibleError{Message: "platform endpoint not configured"}
		}
		engine := &core.Engine{
			Table:     "Numbers",
			FetchPage: p.client.FetchNumbersPage,
			Format:    FormatItem,
			Enrichers: enrichers,
		}
		verifiedOnly, _ := req.Filter["verifiedOnly"].(bool)
		firstURL := p.client.ListNumbersURL(verifiedOnly)
		return engine.Sync(ctx, firstURL, req.MetadataKeys, req.Continuation)
	}
	return table
}

// numberEnrichers is the static metadata registry for the Numbers table.
// The lookups come from the library's offline data, but they follow the
// same per-page job lifecycle as remote enrichment.
func numberEnrichers() map[string]*core.Enricher {
	return map[string]*core.Enricher{
		"carrier": {
			Name:  "carrier",
			Field: core.FieldSchema{Name: "carrier", Type: "string", Display: "Carrier", Optional: true},
			Run: func(ctx context.Context, items []core.Item) error {
				return enrichParsed(items, "carrier", func(num *phonenumbers.PhoneNumber) (any, error) {
					return phonenumbers.GetCarrierForNumber(num, "en")
				})
			},
		},
		"location": {
			Name:  "location",
			Field: core.FieldSchema{Name: "location", Type: "string", Display: "Location", Optional: true},
			Run: func(ctx context.Context, items []core.Item) error {
				return enrichParsed(items, "location", func(num *phonenumbers.PhoneNumber) (any, error) {
					return phonenumbers.GetGeocodingForNumber(num, "en")
				})
			},
		},
		"timezones": {
			Name:  "timezones",
			Field: core.FieldSchema{Name: "timezones", Type: "array", Display: "Timezones", Optional: true},
			Run: func(ctx context.Context, items []core.Item) error {
				return enrichParsed(items, "timezones", func(num *phonenumbers.PhoneNumber) (any, error) {
					return phonenumbers.GetTimezonesForNumber(num)
				})
			},
		},
	}
}

// enrichParsed attaches one looked-up value per parseable item. Items that
// fail to parse or look up are left untouched; their errors fail the job.
func enrichParsed(items []core.Item, field string, lookup func(num *phonenumbers.PhoneNumber) (any, error)) error {
	var errs []error
	for i, item := range items {
		raw, ok := item["number"].(string)
		if !ok {
			errs = append(errs, fmt.Errorf("item %d has no number", i))
			continue
		}
		num, err := phonenumbers.Parse(raw, "")
		if err != nil {
			errs = append(errs, fmt.Errorf("parse %q: %w", raw, err))
			continue
		}
		value, err := lookup(num)
		if err != nil {
			errs = append(errs, fmt.Errorf("lookup %q: %w", raw, err))
			continue
		}
		item[field] = value
	}
	return errors.Join(errs...)
}
