package ports

import (
	"context"

	"github.com/bnema/bt-attendance-cli/internal/domain"
)

// DiscoverySource answers "which device identifiers are detectable right
// now". Implementations may block for a bounded window and must normalize
// transient failures to an empty result: the session tracker cannot tell
// "nobody nearby" apart from "scan error" and treats both as a completed
// cycle with zero detections.
type DiscoverySource interface {
	Scan(ctx context.Context) []domain.DeviceID
}

// DiscoveryFunc adapts a plain function to a DiscoverySource.
type DiscoveryFunc func(ctx context.Context) []domain.DeviceID

func (f DiscoveryFunc) Scan(ctx context.Context) []domain.DeviceID {
	return f(ctx)
}
