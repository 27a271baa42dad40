package toml

import (
	"fmt"
	"time"

	"github.com/bnema/bt-attendance-cli/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version    int              `toml:"version"`
	Identities []identitySchema `toml:"identities"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported roster schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type identitySchema struct {
	DeviceID     string `toml:"device_id"`
	DisplayName  string `toml:"display_name"`
	RegisteredAt string `toml:"registered_at,omitempty"`
}

func toSchema(identity domain.Identity) identitySchema {
	return identitySchema{
		DeviceID:     string(identity.ID),
		DisplayName:  identity.DisplayName,
		RegisteredAt: formatTime(identity.RegisteredAt),
	}
}

func fromSchema(entry identitySchema) domain.Identity {
	return domain.Identity{
		ID:           domain.NormalizeDeviceID(entry.DeviceID),
		DisplayName:  entry.DisplayName,
		RegisteredAt: parseTime(entry.RegisteredAt),
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.Format(time.RFC3339)
}
