// ABOUTME: Phone number pack wrapping the libphonenumber port.
// ABOUTME: Exposes validation, formatting, and metadata formulas plus a Numbers sync table.

package phone

import (
	"fmt"

	"github.com/2389/packkit/packs/core"
)

func init() {
	core.Register(&Pack{})
}

// Pack is the phone number pack. Formulas are pure library calls; the
// Numbers sync table additionally needs the platform endpoint wired in.
type Pack struct {
	client *Client
}

func (p *Pack) Name() string {
	return "phone"
}

func (p *Pack) Health() core.HealthStatus {
	if p.client == nil {
		return core.HealthStatus{
			Status:  "degraded",
			Message: "formulas available; Numbers sync needs a platform endpoint",
		}
	}
	return core.HealthStatus{
		Status:  "healthy",
		Message: "Phone number pack operational",
	}
}

// SetEndpoint implements core.RemotePack
func (p *Pack) SetEndpoint(baseURL string, fetcher core.Fetcher) error {
	if baseURL == "" {
		return fmt.Errorf("phone: empty platform base URL")
	}
	p.client = NewClient(baseURL, fetcher)
	return nil
}

func (p *Pack) SyncTables() []*core.SyncTable {
	return []*core.SyncTable{p.numbersTable()}
}
