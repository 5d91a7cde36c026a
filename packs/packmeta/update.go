// ABOUTME: Bidirectional update path for the Packs sync table.
// ABOUTME: Diffs category membership, then patches remaining scalar fields.

package packmeta

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/2389/packkit/packs/core"
)

// patchableFields are the scalar fields the PATCH endpoint accepts
var patchableFields = map[string]bool{
	"name":             true,
	"shortDescription": true,
	"description":      true,
}

// updatePack applies one edited row. Category removals run as a concurrent
// group that must fully succeed before additions start; additions and the
// final PATCH propagate failures with no rollback of completed removals.
func (p *Pack) updatePack(ctx context.Context, req core.UpdateRequest) (core.Item, error) {
	if p.client == nil {
		return nil, &core.UserVisibleError{Message: "platform endpoint not configured"}
	}

	packID, ok := req.Previous["packId"].(string)
	if !ok || packID == "" {
		return nil, &core.UserVisibleError{Message: "previous item has no packId"}
	}

	changed := make(map[string]bool, len(req.ChangedFields))
	for _, field := range req.ChangedFields {
		changed[field] = true
	}

	if changed["categories"] {
		removed, added := core.StringSetDiff(itemCategories(req.Previous), itemCategories(req.Updated))

		g, gctx := errgroup.WithContext(ctx)
		for _, category := range removed {
			category := category
			g.Go(func() error {
				return p.client.RemoveCategory(gctx, packID, category)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, &core.UserVisibleError{Message: "could not remove categories", Err: err}
		}

		g, gctx = errgroup.WithContext(ctx)
		for _, category := range added {
			category := category
			g.Go(func() error {
				return p.client.AddCategory(gctx, packID, category)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, &core.UserVisibleError{Message: "could not add categories", Err: err}
		}
	}

	patch := make(map[string]any)
	for field := range changed {
		if !patchableFields[field] {
			continue
		}
		value, ok := req.Updated[field]
		if !ok {
			return nil, &core.UserVisibleError{Message: fmt.Sprintf("changed field %q missing from updated item", field)}
		}
		patch[field] = value
	}

	var item core.Item
	var err error
	if len(patch) > 0 {
		body, marshalErr := json.Marshal(patch)
		if marshalErr != nil {
			return nil, marshalErr
		}
		item, err = p.client.PatchPack(ctx, packID, body)
	} else {
		item, err = p.client.GetPack(ctx, packID)
	}
	if err != nil {
		return nil, err
	}

	return FormatItem(item), nil
}
