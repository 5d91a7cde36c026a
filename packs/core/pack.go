// ABOUTME: Core Pack interface for the packkit runtime.
// ABOUTME: Defines the contract that all packs must implement.

package core

import "context"

// Pack defines the interface that all packs must implement
type Pack interface {
	// Metadata
	Name() string
	Health() HealthStatus

	// Formula surface
	Formulas() []Formula

	// Sync table surface
	SyncTables() []*SyncTable
}

// RemotePack is an optional interface for packs that call the platform API.
// The host wires the endpoint and its fetch collaborator in before serving.
type RemotePack interface {
	Pack
	SetEndpoint(baseURL string, fetcher Fetcher) error
}

// PropertyOptionsProvider is an optional interface that packs can implement
// to supply autocomplete choices for dynamic properties (e.g. "categories").
// Requesting an unknown property must fail with a UserVisibleError.
type PropertyOptionsProvider interface {
	Pack
	PropertyOptions(ctx context.Context, property string) ([]string, error)
}

// HealthStatus represents pack health
type HealthStatus struct {
	Status  string // "healthy", "degraded", "unavailable"
	Message string
}

// Formula is a single callable formula exposed by a pack
type Formula struct {
	Name        string
	Description string
	Parameters  []Parameter
	Execute     func(ctx context.Context, args map[string]any) (any, error)
}

// Parameter describes one formula parameter
type Parameter struct {
	Name        string
	Type        string // "string", "number", "boolean"
	Description string
	Optional    bool
}
