// ABOUTME: Thin client for the platform's Pack metadata REST API.
// ABOUTME: Builds listing URLs and maps endpoint responses to items.

package packmeta

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/2389/packkit/packs/core"
)

// Client wraps the platform API underneath the packmeta pack. All network
// traffic goes through the host-provided fetch collaborator.
type Client struct {
	BaseURL string
	Fetcher core.Fetcher
}

func NewClient(baseURL string, fetcher core.Fetcher) *Client {
	return &Client{BaseURL: baseURL, Fetcher: fetcher}
}

func (c *Client) endpoint(path string) string {
	return c.BaseURL + "/apis/v1" + path
}

// Filter holds the listing flags for the Packs sync table. Booleans translate
// to server query flags; the server applies them, not the pack.
type Filter struct {
	IncludePublished bool
	IncludeWorkspace bool
	ExcludeArchived  bool
	Query            string
}

// ListPacksURL builds the first-page URL for a fresh sync. Continuations
// carry fully-formed next-page links, so this is only used when no
// continuation is present.
func (c *Client) ListPacksURL(filter Filter) string {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(core.PageSize))
	if filter.IncludePublished {
		params.Set("includePublished", "true")
	}
	if filter.IncludeWorkspace {
		params.Set("includeWorkspace", "true")
	}
	if filter.ExcludeArchived {
		params.Set("excludeArchived", "true")
	}
	if filter.Query != "" {
		params.Set("q", filter.Query)
	}
	return c.endpoint("/packs") + "?" + params.Encode()
}

type listingResponse struct {
	Items        []core.Item `json:"items"`
	NextPageLink string      `json:"nextPageLink"`
}

// FetchPackPage fetches one listing page from a fully-formed page URL
func (c *Client) FetchPackPage(ctx context.Context, pageURL string) (*core.ListingPage, error) {
	var resp listingResponse
	if err := core.FetchJSON(ctx, c.Fetcher, core.FetchRequest{URL: pageURL}, &resp); err != nil {
		return nil, err
	}
	return &core.ListingPage{Items: resp.Items, NextPageToken: resp.NextPageLink}, nil
}

// GetPack fetches a single pack by id
func (c *Client) GetPack(ctx context.Context, packID string) (core.Item, error) {
	var item core.Item
	err := core.FetchJSON(ctx, c.Fetcher, core.FetchRequest{URL: c.endpoint("/packs/" + url.PathEscape(packID))}, &item)
	if core.IsNotFound(err) {
		return nil, &core.NotFoundError{Resource: "pack", ID: packID}
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetVersions fetches a pack's version history
func (c *Client) GetVersions(ctx context.Context, packID string) ([]map[string]any, error) {
	var resp struct {
		Items []map[string]any `json:"items"`
	}
	url := c.endpoint("/packs/" + url.PathEscape(packID) + "/versions")
	if err := core.FetchJSON(ctx, c.Fetcher, core.FetchRequest{URL: url}, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// GetSourceFiles fetches a pack's source file listing
func (c *Client) GetSourceFiles(ctx context.Context, packID string) ([]map[string]any, error) {
	var resp struct {
		Files []map[string]any `json:"files"`
	}
	url := c.endpoint("/packs/" + url.PathEscape(packID) + "/sourceCode")
	if err := core.FetchJSON(ctx, c.Fetcher, core.FetchRequest{URL: url}, &resp); err != nil {
		return nil, err
	}
	return resp.Files, nil
}

// GetStats fetches a pack's usage counters
func (c *Client) GetStats(ctx context.Context, packID string) (map[string]any, error) {
	var stats map[string]any
	url := c.endpoint("/packs/" + url.PathEscape(packID) + "/stats")
	if err := core.FetchJSON(ctx, c.Fetcher, core.FetchRequest{URL: url}, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// ListCategories fetches the allowed category names
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var resp struct {
		Items []struct {
			Name string `json:"name"`
		} `json:"items"`
	}
	if err := core.FetchJSON(ctx, c.Fetcher, core.FetchRequest{URL: c.endpoint("/categories")}, &resp); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		names = append(names, item.Name)
	}
	return names, nil
}

// AddCategory adds one category to a pack
func (c *Client) AddCategory(ctx context.Context, packID, category string) error {
	body := []byte(fmt.Sprintf(`{"categoryName":%q}`, category))
	return core.FetchJSON(ctx, c.Fetcher, core.FetchRequest{
		Method: http.MethodPost,
		URL:    c.endpoint("/packs/" + url.PathEscape(packID) + "/categories"),
		Body:   body,
	}, nil)
}

// RemoveCategory removes one category from a pack
func (c *Client) RemoveCategory(ctx context.Context, packID, category string) error {
	return core.FetchJSON(ctx, c.Fetcher, core.FetchRequest{
		Method: http.MethodDelete,
		URL:    c.endpoint("/packs/" + url.PathEscape(packID) + "/categories/" + url.PathEscape(category)),
	}, nil)
}

// PatchPack updates a pack's scalar fields in one request and returns the
// server's view of the updated pack.
func (c *Client) PatchPack(ctx context.Context, packID string, body []byte) (core.Item, error) {
	var item core.Item
	err := core.FetchJSON(ctx, c.Fetcher, core.FetchRequest{
		Method: http.MethodPatch,
		URL:    c.endpoint("/packs/" + url.PathEscape(packID)),
		Body:   body,
	}, &item)
	if core.IsNotFound(err) {
		return nil, &core.NotFoundError{Resource: "pack", ID: packID}
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}
