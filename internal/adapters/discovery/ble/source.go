// Package ble implements the discovery source on real Bluetooth hardware.
package ble

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/bt-attendance-cli/internal/domain"
	"github.com/bnema/bt-attendance-cli/internal/ports"
	"tinygo.org/x/bluetooth"
)

// Source scans for BLE advertisements over a bounded window. Every
// failure mode (adapter unavailable, scan error) surfaces as an empty
// result: the session tracker counts such a cycle as zero detections.
type Source struct {
	adapter *bluetooth.Adapter
	window  time.Duration

	enableOnce sync.Once
	enableErr  error
}

var _ ports.DiscoverySource = (*Source)(nil)

func NewSource(window time.Duration) *Source {
	return &Source{
		adapter: bluetooth.DefaultAdapter,
		window:  window,
	}
}

func (s *Source) Scan(ctx context.Context) []domain.DeviceID {
	s.enableOnce.Do(func() {
		s.enableErr = s.adapter.Enable()
	})
	if s.enableErr != nil {
		return nil
	}

	var mu sync.Mutex
	seen := make(map[domain.DeviceID]struct{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
			id := domain.NormalizeDeviceID(result.Address.String())
			mu.Lock()
			seen[id] = struct{}{}
			mu.Unlock()
		})
	}()

	select {
	case <-ctx.Done():
	case <-time.After(s.window):
	case <-done:
	}
	_ = s.adapter.StopScan()
	<-done

	mu.Lock()
	defer mu.Unlock()
	ids := make([]domain.DeviceID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}

	return ids
}
