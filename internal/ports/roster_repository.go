package ports

import (
	"context"

	"github.com/bnema/bt-attendance-cli/internal/domain"
)

// RosterRepository persists the registry of identities. Mutation happens
// only through registration flows; a running session works from a
// snapshot taken at start.
type RosterRepository interface {
	GetByDeviceID(ctx context.Context, id domain.DeviceID) (domain.Identity, error)
	List(ctx context.Context) ([]domain.Identity, error)
	Save(ctx context.Context, identity domain.Identity) error
	Remove(ctx context.Context, id domain.DeviceID) error
}
