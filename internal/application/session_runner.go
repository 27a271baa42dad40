package application

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/bt-attendance-cli/internal/domain"
	"github.com/bnema/bt-attendance-cli/internal/ports"
)

// CycleObserver receives one summary per completed scan cycle, for
// human-readable session logs.
type CycleObserver func(domain.ScanSummary)

type RunConfig struct {
	Threshold    float64
	ScanInterval time.Duration
	// MaxScans stops the session after that many cycles. Zero means
	// run until the context is cancelled.
	MaxScans int
}

// SessionRunner drives one attendance session: it snapshots the roster,
// polls the discovery source every interval, and finalizes the report
// when the run ends. All session mutation happens on the goroutine that
// called Run, so scan recording and stop never race; a scan result that
// lands after cancellation is discarded without touching the counters.
type SessionRunner struct {
	roster  ports.RosterRepository
	source  ports.DiscoverySource
	clock   ports.Clock
	observe CycleObserver
}

func NewSessionRunner(roster ports.RosterRepository, source ports.DiscoverySource, clock ports.Clock, observe CycleObserver) *SessionRunner {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &SessionRunner{
		roster:  roster,
		source:  source,
		clock:   clock,
		observe: observe,
	}
}

// Run blocks until the context is cancelled or MaxScans cycles have
// completed, then returns the finalized report. The first scan starts
// immediately; subsequent scans follow every ScanInterval.
func (r *SessionRunner) Run(ctx context.Context, cfg RunConfig) (domain.Report, error) {
	identities, err := r.roster.List(ctx)
	if err != nil {
		return domain.Report{}, fmt.Errorf("snapshot roster: %w", err)
	}

	session, err := domain.NewSession(identities, domain.SessionConfig{
		Threshold:    cfg.Threshold,
		ScanInterval: cfg.ScanInterval,
	}, r.clock.Now())
	if err != nil {
		return domain.Report{}, err
	}

	ticker := time.NewTicker(cfg.ScanInterval)
	defer ticker.Stop()

loop:
	for {
		if ctx.Err() != nil {
			break
		}

		discovered := r.source.Scan(ctx)
		if ctx.Err() != nil {
			// Stop was requested while the scan was in flight; the
			// late result must not be recorded.
			break
		}

		summary, err := session.RecordScan(discovered)
		if err != nil {
			return domain.Report{}, fmt.Errorf("record scan: %w", err)
		}
		if r.observe != nil {
			r.observe(summary)
		}

		if cfg.MaxScans > 0 && session.TotalScans() >= cfg.MaxScans {
			break
		}

		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
		}
	}

	report, err := session.Finalize(r.clock.Now())
	if err != nil {
		return domain.Report{}, fmt.Errorf("finalize session: %w", err)
	}

	return report, nil
}
