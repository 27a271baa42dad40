// Package sim implements a synthetic discovery source for running
// sessions without Bluetooth hardware.
package sim

import (
	"context"
	"math/rand/v2"

	"github.com/bnema/bt-attendance-cli/internal/domain"
	"github.com/bnema/bt-attendance-cli/internal/ports"
)

// Stray addresses that show up in scans without being registered,
// mimicking unrelated devices in range.
var strayDevices = []domain.DeviceID{
	"F8:16:54:00:00:01",
	"F8:16:54:00:00:02",
}

const strayPresence = 0.5

// Source emits the configured roster devices with a fixed per-cycle
// presence probability, plus the occasional stray. A seeded generator
// keeps runs reproducible.
type Source struct {
	roster   []domain.DeviceID
	presence float64
	rng      *rand.Rand
}

var _ ports.DiscoverySource = (*Source)(nil)

func NewSource(roster []domain.DeviceID, presence float64, seed uint64) *Source {
	if presence < 0 {
		presence = 0
	}
	if presence > 1 {
		presence = 1
	}

	return &Source{
		roster:   append([]domain.DeviceID(nil), roster...),
		presence: presence,
		rng:      rand.New(rand.NewPCG(seed, seed)),
	}
}

func (s *Source) Scan(_ context.Context) []domain.DeviceID {
	discovered := make([]domain.DeviceID, 0, len(s.roster)+len(strayDevices))
	for _, id := range s.roster {
		if s.rng.Float64() < s.presence {
			discovered = append(discovered, id)
		}
	}
	for _, id := range strayDevices {
		if s.rng.Float64() < strayPresence {
			discovered = append(discovered, id)
		}
	}

	return discovered
}
