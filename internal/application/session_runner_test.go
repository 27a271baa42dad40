package application

import (
	"context"
	"testing"
	"time"

	"github.com/bnema/bt-attendance-cli/internal/domain"
	"github.com/bnema/bt-attendance-cli/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource replays a fixed sequence of discovery results, then
// keeps returning empty results.
type scriptedSource struct {
	results [][]domain.DeviceID
	calls   int
}

func (s *scriptedSource) Scan(context.Context) []domain.DeviceID {
	if s.calls >= len(s.results) {
		s.calls++
		return nil
	}
	result := s.results[s.calls]
	s.calls++
	return result
}

func runnerRoster() *inMemoryRosterRepo {
	return &inMemoryRosterRepo{identities: []domain.Identity{
		{ID: "AA:BB:CC:DD:EE:01", DisplayName: "Alice", RegisteredAt: registrationTime},
		{ID: "AA:BB:CC:DD:EE:02", DisplayName: "Bob", RegisteredAt: registrationTime},
	}}
}

func TestSessionRunnerCompletesAfterMaxScans(t *testing.T) {
	t.Parallel()

	source := &scriptedSource{results: [][]domain.DeviceID{
		{"AA:BB:CC:DD:EE:01", "AA:BB:CC:DD:EE:02"},
		{"AA:BB:CC:DD:EE:01"},
		{"AA:BB:CC:DD:EE:01"},
		nil,
	}}

	var cycles []domain.ScanSummary
	runner := NewSessionRunner(runnerRoster(), source, fixedClock{now: registrationTime}, func(s domain.ScanSummary) {
		cycles = append(cycles, s)
	})

	report, err := runner.Run(context.Background(), RunConfig{
		Threshold:    0.5,
		ScanInterval: time.Millisecond,
		MaxScans:     4,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, report.TotalScans)
	require.Len(t, report.Entries, 2)

	alice := report.Entries[0]
	assert.Equal(t, "Alice", alice.Identity.DisplayName)
	assert.Equal(t, 3, alice.Detections)
	assert.True(t, alice.Present, "3/4 detections over threshold 0.5")

	bob := report.Entries[1]
	assert.Equal(t, 1, bob.Detections)
	assert.False(t, bob.Present, "1/4 detections under threshold 0.5")

	require.Len(t, cycles, 4)
	assert.Equal(t, 1, cycles[0].Scan)
	assert.Equal(t, 4, cycles[3].Scan)
	assert.Len(t, cycles[0].Seen, 2)
	assert.Len(t, cycles[3].Missed, 2)
}

func TestSessionRunnerDiscardsScanInFlightAtCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	// The third scan cancels the run while "in flight"; its result must
	// not be recorded.
	source := ports.DiscoveryFunc(func(context.Context) []domain.DeviceID {
		return []domain.DeviceID{"AA:BB:CC:DD:EE:01"}
	})
	calls := 0
	cancelling := ports.DiscoveryFunc(func(c context.Context) []domain.DeviceID {
		calls++
		if calls == 3 {
			cancel()
		}
		return source.Scan(c)
	})

	runner := NewSessionRunner(runnerRoster(), cancelling, fixedClock{now: registrationTime}, nil)

	report, err := runner.Run(ctx, RunConfig{
		Threshold:    0.8,
		ScanInterval: time.Millisecond,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalScans)
	assert.Equal(t, 2, report.Entries[0].Detections)
	assert.True(t, report.Entries[0].Present)
}

func TestSessionRunnerCancelledBeforeFirstScanReportsEveryoneAbsent(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewSessionRunner(runnerRoster(), &scriptedSource{}, fixedClock{now: registrationTime}, nil)

	report, err := runner.Run(ctx, RunConfig{
		Threshold:    0.8,
		ScanInterval: time.Millisecond,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, report.TotalScans)
	for _, entry := range report.Entries {
		assert.False(t, entry.Present)
	}
}

func TestSessionRunnerEmptyRosterFails(t *testing.T) {
	t.Parallel()

	runner := NewSessionRunner(&inMemoryRosterRepo{}, &scriptedSource{}, nil, nil)

	_, err := runner.Run(context.Background(), RunConfig{
		Threshold:    0.8,
		ScanInterval: time.Millisecond,
		MaxScans:     1,
	})
	require.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestSessionRunnerInvalidThresholdFails(t *testing.T) {
	t.Parallel()

	runner := NewSessionRunner(runnerRoster(), &scriptedSource{}, nil, nil)

	_, err := runner.Run(context.Background(), RunConfig{
		Threshold:    1.5,
		ScanInterval: time.Millisecond,
		MaxScans:     1,
	})
	require.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}
