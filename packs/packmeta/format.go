// ABOUTME: Item normalization between the platform's wire shape and sync table rows.
// ABOUTME: FormatItem is idempotent and UnformatItem is its inverse.

package packmeta

import "github.com/2389/packkit/packs/core"

// FormatItem canonicalizes one pack item: renames "id" to "packId", flattens
// maker.name to makerName, and reduces categories to a plain name list.
// Applying it to an already-formatted item is a no-op.
func FormatItem(item core.Item) core.Item {
	out := make(core.Item, len(item))
	for k, v := range item {
		out[k] = v
	}

	if id, ok := out["id"]; ok {
		out["packId"] = id
		delete(out, "id")
	}

	if maker, ok := out["maker"].(map[string]any); ok {
		if name, ok := maker["name"].(string); ok {
			out["makerName"] = name
		}
		delete(out, "maker")
	}

	if cats, ok := out["categories"]; ok {
		out["categories"] = categoryNameList(cats)
	}

	return out
}

// UnformatItem restores the platform wire shape before an edited item is sent
// back to the server. UnformatItem(FormatItem(i)) == i for all round-tripped
// fields.
func UnformatItem(item core.Item) core.Item {
	out := make(core.Item, len(item))
	for k, v := range item {
		out[k] = v
	}

	if id, ok := out["packId"]; ok {
		out["id"] = id
		delete(out, "packId")
	}

	if name, ok := out["makerName"].(string); ok {
		out["maker"] = map[string]any{"name": name}
		delete(out, "makerName")
	}

	if cats, ok := out["categories"]; ok {
		names := categoryNameList(cats)
		wire := make([]any, 0, len(names))
		for _, name := range names {
			wire = append(wire, map[string]any{"categoryName": name})
		}
		out["categories"] = wire
	}

	return out
}

// categoryNameList accepts either wire shape ([{categoryName}] objects) or
// formatted shape (plain strings) and returns the plain name list.
func categoryNameList(v any) []string {
	switch cats := v.(type) {
	case []string:
		return cats
	case []any:
		names := make([]string, 0, len(cats))
		for _, c := range cats {
			switch c := c.(type) {
			case string:
				names = append(names, c)
			case map[string]any:
				if name, ok := c["categoryName"].(string); ok {
					names = append(names, name)
				}
			}
		}
		return names
	default:
		return nil
	}
}

// itemCategories returns the category names of a (formatted or raw) item
func itemCategories(item core.Item) []string {
	cats, ok := item["categories"]
	if !ok {
		return nil
	}
	return categoryNameList(cats)
}
