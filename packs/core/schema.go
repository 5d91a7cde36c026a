// ABOUTME: Schema definitions for sync table output.
// ABOUTME: Base schemas extend with one field per selected metadata key.

package core

import (
	"fmt"
	"sort"
)

// TableSchema declares the shape of items a sync table returns
type TableSchema struct {
	Name    string
	IDField string // field holding the unique identifier
	Fields  []FieldSchema
}

// FieldSchema defines a single field in a table schema
type FieldSchema struct {
	Name     string // "packId", "name"
	Type     string // "string", "number", "boolean", "array", "object"
	Display  string // "Pack ID", "Name"
	Optional bool
}

// ExtendSchema returns base extended with the schema field of each selected
// enricher. A nil selection means every registered key (the describe-schema
// default); an explicit empty selection adds nothing. Unknown keys fail with
// a ConfigurationError. The host validates returned records against the
// extended schema, so extension happens before any data is fetched.
func ExtendSchema(base TableSchema, enrichers map[string]*Enricher, metadataKeys []string) (TableSchema, error) {
	if metadataKeys == nil {
		metadataKeys = make([]string, 0, len(enrichers))
		for key := range enrichers {
			metadataKeys = append(metadataKeys, key)
		}
		sort.Strings(metadataKeys)
	}

	extended := base
	extended.Fields = make([]FieldSchema, len(base.Fields), len(base.Fields)+len(metadataKeys))
	copy(extended.Fields, base.Fields)

	seen := make(map[string]bool, len(metadataKeys))
	for _, key := range metadataKeys {
		if seen[key] {
			continue
		}
		seen[key] = true

		enricher, ok := enrichers[key]
		if !ok {
			return TableSchema{}, &ConfigurationError{Message: fmt.Sprintf("unknown metadata key %q", key)}
		}
		extended.Fields = append(extended.Fields, enricher.Field)
	}

	return extended, nil
}
