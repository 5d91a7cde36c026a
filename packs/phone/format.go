// ABOUTME: Item normalization for directory numbers.
// ABOUTME: Flattens the nested formats object into top-level schema fields.

package phone

import (
	"github.com/nyaruka/phonenumbers"

	"github.com/2389/packkit/packs/core"
)

// formatFields are the keys flattened out of the nested "formats" object
var formatFields = []string{"e164", "international", "national", "rfc3966"}

// attachFormats computes the nested formats object for one directory item
// from its raw number. Unparseable numbers get no formats object.
func attachFormats(item core.Item) {
	raw, ok := item["number"].(string)
	if !ok {
		return
	}
	num, err := phonenumbers.Parse(raw, "")
	if err != nil {
		return
	}

	item["formats"] = map[string]any{
		"e164":          phonenumbers.Format(num, phonenumbers.E164),
		"international": phonenumbers.Format(num, phonenumbers.INTERNATIONAL),
		"national":      phonenumbers.Format(num, phonenumbers.NATIONAL),
		"rfc3966":       phonenumbers.Format(num, phonenumbers.RFC3966),
	}
}

// FormatItem canonicalizes one directory item: renames "id" to "numberId"
// and flattens the nested formats object to top-level fields. Idempotent.
func FormatItem(item core.Item) core.Item {
	out := make(core.Item, len(item))
	for k, v := range item {
		out[k] = v
	}

	if id, ok := out["id"]; ok {
		out["numberId"] = id
		delete(out, "id")
	}

	if formats, ok := out["formats"].(map[string]any); ok {
		for _, field := range formatFields {
			if value, ok := formats[field]; ok {
				out[field] = value
			}
		}
		delete(out, "formats")
	}

	return out
}

// UnformatItem is the inverse of FormatItem: restores "id" and re-nests the
// format fields under "formats".
func UnformatItem(item core.Item) core.Item {
	out := make(core.Item, len(item))
	for k, v := range item {
		out[k] = v
	}

	if id, ok := out["numberId"]; ok {
		out["id"] = id
		delete(out, "numberId")
	}

	formats := make(map[string]any)
	for _, field := range formatFields {
		if value, ok := out[field]; ok {
			formats[field] = value
			delete(out, field)
		}
	}
	if len(formats) > 0 {
		out["formats"] = formats
	}

	return out
}
