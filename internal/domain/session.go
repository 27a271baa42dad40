package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SessionState string

const (
	StateNotStarted SessionState = "not_started"
	StateRunning    SessionState = "running"
	StateStopped    SessionState = "stopped"
)

type SessionConfig struct {
	// Threshold is the fraction of total scans an identity must be
	// detected in to be classified present. Valid range is (0, 1].
	Threshold float64
	// ScanInterval is the pause between scan cycles.
	ScanInterval time.Duration
}

func (c SessionConfig) Validate() error {
	if c.Threshold <= 0 || c.Threshold > 1 {
		return fmt.Errorf("%w: threshold %v outside (0, 1]", ErrInvalidConfiguration, c.Threshold)
	}
	if c.ScanInterval <= 0 {
		return fmt.Errorf("%w: scan interval must be positive, got %v", ErrInvalidConfiguration, c.ScanInterval)
	}

	return nil
}

// Session tracks detections per registered identity over one bounded
// scanning run. Counters are mutated without synchronization; callers
// must serialize RecordScan and Stop (the application runner drives a
// session from a single goroutine).
type Session struct {
	id         string
	state      SessionState
	cfg        SessionConfig
	roster     []Identity
	index      map[DeviceID]int
	detections []int
	totalScans int
	startedAt  time.Time
	stoppedAt  time.Time
}

// ScanSummary describes one completed scan cycle.
type ScanSummary struct {
	Scan   int
	Seen   []Identity
	Missed []Identity
}

// NewSession starts a session over a snapshot of the registry. The
// roster must be non-empty and free of duplicate device IDs; identities
// registered after this point are not tracked.
func NewSession(roster []Identity, cfg SessionConfig, now time.Time) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(roster) == 0 {
		return nil, fmt.Errorf("%w: roster is empty", ErrInvalidConfiguration)
	}

	tracked := make([]Identity, len(roster))
	index := make(map[DeviceID]int, len(roster))
	for i, identity := range roster {
		if err := identity.Validate(); err != nil {
			return nil, fmt.Errorf("%w: roster entry %d: %v", ErrInvalidConfiguration, i, err)
		}
		identity.ID = NormalizeDeviceID(string(identity.ID))
		if _, ok := index[identity.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate device id %s in roster", ErrInvalidConfiguration, identity.ID)
		}
		index[identity.ID] = i
		tracked[i] = identity
	}

	return &Session{
		id:         uuid.NewString(),
		state:      StateRunning,
		cfg:        cfg,
		roster:     tracked,
		index:      index,
		detections: make([]int, len(tracked)),
		startedAt:  now,
	}, nil
}

func (s *Session) ID() string           { return s.id }
func (s *Session) State() SessionState  { return s.state }
func (s *Session) TotalScans() int      { return s.totalScans }
func (s *Session) StartedAt() time.Time { return s.startedAt }
func (s *Session) StoppedAt() time.Time { return s.stoppedAt }

// Roster returns the tracked identities in registration order.
func (s *Session) Roster() []Identity {
	out := make([]Identity, len(s.roster))
	copy(out, s.roster)
	return out
}

// Detections returns the current count for one tracked identity.
func (s *Session) Detections(id DeviceID) (int, bool) {
	i, ok := s.index[NormalizeDeviceID(string(id))]
	if !ok {
		return 0, false
	}
	return s.detections[i], true
}

// RecordScan folds one discovery result into the session counters.
// Duplicate identifiers within a single result count once, and a scan
// with zero discoveries still completes a cycle: the total advances by
// exactly one per call.
func (s *Session) RecordScan(discovered []DeviceID) (ScanSummary, error) {
	if s.state != StateRunning {
		return ScanSummary{}, fmt.Errorf("record scan in state %s: %w", s.state, ErrInvalidState)
	}

	seen := make(map[DeviceID]struct{}, len(discovered))
	for _, id := range discovered {
		seen[NormalizeDeviceID(string(id))] = struct{}{}
	}

	summary := ScanSummary{
		Seen:   make([]Identity, 0, len(s.roster)),
		Missed: make([]Identity, 0, len(s.roster)),
	}
	for i, identity := range s.roster {
		if _, ok := seen[identity.ID]; ok {
			s.detections[i]++
			summary.Seen = append(summary.Seen, identity)
		} else {
			summary.Missed = append(summary.Missed, identity)
		}
	}

	s.totalScans++
	summary.Scan = s.totalScans

	return summary, nil
}

// Stop freezes the counters and classifies every tracked identity,
// in registration order. A session stopped before any scan completed
// classifies everyone absent. The session cannot be restarted.
func (s *Session) Stop(now time.Time) ([]Classification, error) {
	if s.state != StateRunning {
		return nil, fmt.Errorf("stop in state %s: %w", s.state, ErrInvalidState)
	}

	s.state = StateStopped
	s.stoppedAt = now

	classifications := make([]Classification, len(s.roster))
	for i, identity := range s.roster {
		classifications[i] = Classification{
			Identity:   identity,
			Detections: s.detections[i],
			TotalScans: s.totalScans,
			Present:    s.totalScans > 0 && float64(s.detections[i]) >= s.cfg.Threshold*float64(s.totalScans),
		}
	}

	return classifications, nil
}

// Finalize wraps Stop's result into the report handed to sinks.
func (s *Session) Finalize(now time.Time) (Report, error) {
	entries, err := s.Stop(now)
	if err != nil {
		return Report{}, err
	}

	return Report{
		SessionID:  s.id,
		Date:       now,
		Threshold:  s.cfg.Threshold,
		TotalScans: s.totalScans,
		Entries:    entries,
	}, nil
}
