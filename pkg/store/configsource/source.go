package configsource

import (
	"context"

	"github.com/netops-tools/netaudit/pkg/models/domain"
)

// Source produces the raw running-configuration text for a device.
// Implementations may reach live gear over SSH or serve canned fixtures;
// the auditing layer treats both the same and handles fetch failures by
// skipping the device, never by failing the whole run.
type Source interface {
	Fetch(ctx context.Context, device domain.Device) (string, error)
}
