package application

import "github.com/bnema/bt-attendance-cli/internal/domain"

// NearbyDevice is one deduplicated discovery hit, annotated with its
// registration state.
type NearbyDevice struct {
	ID          domain.DeviceID
	Registered  bool
	DisplayName string
}
