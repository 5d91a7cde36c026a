// ABOUTME: Pack metadata pack wrapping the platform's own REST API.
// ABOUTME: Exposes pack lookup, source code, and a resumable Packs sync table.

package packmeta

import (
	"context"
	"fmt"

	"github.com/2389/packkit/packs/core"
)

func init() {
	core.Register(&Pack{})
}

// Pack is the packmeta pack. The client is wired in by the host via
// SetEndpoint before any formula or sync runs.
type Pack struct {
	client *Client
}

func (p *Pack) Name() string {
	return "packmeta"
}

func (p *Pack) Health() core.HealthStatus {
	if p.client == nil {
		return core.HealthStatus{
			Status:  "degraded",
			Message: "platform endpoint not configured",
		}
	}
	return core.HealthStatus{
		Status:  "healthy",
		Message: "Pack metadata pack operational",
	}
}

// SetEndpoint implements core.RemotePack
func (p *Pack) SetEndpoint(baseURL string, fetcher core.Fetcher) error {
	if baseURL == "" {
		return fmt.Errorf("packmeta: empty platform base URL")
	}
	p.client = NewClient(baseURL, fetcher)
	return nil
}

func (p *Pack) Formulas() []core.Formula {
	return []core.Formula{
		{
			Name:        "Pack",
			Description: "Look up a single Pack by its id.",
			Parameters: []core.Parameter{
				{Name: "packId", Type: "string", Description: "The id of the Pack."},
			},
			Execute: p.getPack,
		},
		{
			Name:        "PackSourceCode",
			Description: "List the source files of a Pack.",
			Parameters: []core.Parameter{
				{Name: "packId", Type: "string", Description: "The id of the Pack."},
			},
			Execute: p.getPackSourceCode,
		},
	}
}

func (p *Pack) SyncTables() []*core.SyncTable {
	return []*core.SyncTable{p.packsTable()}
}

// PropertyOptions implements core.PropertyOptionsProvider. Only the
// "categories" property has dynamic choices.
func (p *Pack) PropertyOptions(ctx context.Context, property string) ([]string, error) {
	if property != "categories" {
		return nil, &core.UserVisibleError{Message: fmt.Sprintf("no options available for property %q", property)}
	}
	if p.client == nil {
		return nil, &core.UserVisibleError{Message: "platform endpoint not configured"}
	}
	return p.client.ListCategories(ctx)
}

func (p *Pack) getPack(ctx context.Context, args map[string]any) (any, error) {
	packID, err := stringArg(args, "packId")
	if err != nil {
		return nil, err
	}
	item, err := p.client.GetPack(ctx, packID)
	if err != nil {
		return nil, err
	}
	return FormatItem(item), nil
}

func (p *Pack) getPackSourceCode(ctx context.Context, args map[string]any) (any, error) {
	packID, err := stringArg(args, "packId")
	if err != nil {
		return nil, err
	}
	return p.client.GetSourceFiles(ctx, packID)
}

func stringArg(args map[string]any, name string) (string, error) {
	value, ok := args[name].(string)
	if !ok || value == "" {
		return "", &core.UserVisibleError{Message: fmt.Sprintf("missing required parameter %q", name)}
	}
	return value, nil
}
