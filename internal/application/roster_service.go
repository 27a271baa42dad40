package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/bt-attendance-cli/internal/domain"
	"github.com/bnema/bt-attendance-cli/internal/ports"
)

type RosterService struct {
	repo  ports.RosterRepository
	clock ports.Clock
}

func NewRosterService(repo ports.RosterRepository, clock ports.Clock) *RosterService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &RosterService{repo: repo, clock: clock}
}

// Register adds a new identity for a device. A device already bound to an
// identity is rejected rather than silently rebound.
func (s *RosterService) Register(ctx context.Context, deviceID, displayName string) (domain.Identity, error) {
	identity := domain.Identity{
		ID:           domain.NormalizeDeviceID(deviceID),
		DisplayName:  strings.TrimSpace(displayName),
		RegisteredAt: s.clock.Now(),
	}
	if err := identity.Validate(); err != nil {
		return domain.Identity{}, fmt.Errorf("validate identity: %w", err)
	}

	existing, err := s.repo.GetByDeviceID(ctx, identity.ID)
	if err == nil {
		return domain.Identity{}, fmt.Errorf("%w: %s belongs to %s", domain.ErrDeviceAlreadyRegistered, identity.ID, existing.DisplayName)
	}
	if !errors.Is(err, domain.ErrIdentityNotFound) {
		return domain.Identity{}, fmt.Errorf("get identity by device id: %w", err)
	}

	if err := s.repo.Save(ctx, identity); err != nil {
		return domain.Identity{}, fmt.Errorf("save identity: %w", err)
	}

	return identity, nil
}

func (s *RosterService) Rename(ctx context.Context, deviceID, displayName string) (domain.Identity, error) {
	identity, err := s.repo.GetByDeviceID(ctx, domain.NormalizeDeviceID(deviceID))
	if err != nil {
		return domain.Identity{}, fmt.Errorf("get identity by device id: %w", err)
	}

	identity.DisplayName = strings.TrimSpace(displayName)
	if err := identity.Validate(); err != nil {
		return domain.Identity{}, fmt.Errorf("validate identity: %w", err)
	}

	if err := s.repo.Save(ctx, identity); err != nil {
		return domain.Identity{}, fmt.Errorf("save identity: %w", err)
	}

	return identity, nil
}

func (s *RosterService) Remove(ctx context.Context, deviceID string) error {
	if err := s.repo.Remove(ctx, domain.NormalizeDeviceID(deviceID)); err != nil {
		return fmt.Errorf("remove identity: %w", err)
	}

	return nil
}

// List returns the roster in registration order.
func (s *RosterService) List(ctx context.Context) ([]domain.Identity, error) {
	identities, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}

	return identities, nil
}

// Nearby runs one bounded discovery pass and cross-references the result
// against the roster, for registration flows.
func (s *RosterService) Nearby(ctx context.Context, source ports.DiscoverySource) ([]NearbyDevice, error) {
	identities, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}

	registered := make(map[domain.DeviceID]domain.Identity, len(identities))
	for _, identity := range identities {
		registered[identity.ID] = identity
	}

	discovered := source.Scan(ctx)
	seen := make(map[domain.DeviceID]struct{}, len(discovered))
	nearby := make([]NearbyDevice, 0, len(discovered))
	for _, raw := range discovered {
		id := domain.NormalizeDeviceID(string(raw))
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		device := NearbyDevice{ID: id}
		if identity, ok := registered[id]; ok {
			device.Registered = true
			device.DisplayName = identity.DisplayName
		}
		nearby = append(nearby, device)
	}

	return nearby, nil
}
