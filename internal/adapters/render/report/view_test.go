package report

import (
	"testing"
	"time"

	"github.com/bnema/bt-attendance-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() domain.Report {
	return domain.Report{
		SessionID:  "3f1a9b52-0c4e-4d2b-9a1e-6f0b2f9f8d11",
		Date:       time.Date(2026, 3, 2, 10, 45, 0, 0, time.UTC),
		Threshold:  0.8,
		TotalScans: 10,
		Entries: []domain.Classification{
			{
				Identity:   domain.Identity{ID: "AA:BB:CC:DD:EE:01", DisplayName: "Alice"},
				Detections: 8,
				TotalScans: 10,
				Present:    true,
			},
			{
				Identity:   domain.Identity{ID: "AA:BB:CC:DD:EE:02", DisplayName: "Bob"},
				Detections: 7,
				TotalScans: 10,
				Present:    false,
			},
		},
	}
}

func TestRenderReport(t *testing.T) {
	output, err := Render(sampleReport(), RenderOptions{})
	require.NoError(t, err)

	assert.Contains(t, output, "Attendance Report")
	assert.Contains(t, output, "session 3f1a9b52 on 2026-03-02")
	assert.Contains(t, output, "scans: 10, threshold: 80% (8 detections required)")
	assert.Contains(t, output, "Alice")
	assert.Contains(t, output, "AA:BB:CC:DD:EE:01")
	assert.Contains(t, output, "8/10")
	assert.Contains(t, output, "Present")
	assert.Contains(t, output, "Bob")
	assert.Contains(t, output, "7/10")
	assert.Contains(t, output, "Absent")
	assert.Contains(t, output, "present: 1 of 2")
}

func TestRenderReportWithoutScans(t *testing.T) {
	report := sampleReport()
	report.TotalScans = 0
	for i := range report.Entries {
		report.Entries[i].Detections = 0
		report.Entries[i].TotalScans = 0
		report.Entries[i].Present = false
	}

	output, err := Render(report, RenderOptions{})
	require.NoError(t, err)
	assert.Contains(t, output, "no scans completed")
	assert.NotContains(t, output, "Present ")
}

func TestRenderReportWithoutEntries(t *testing.T) {
	report := sampleReport()
	report.Entries = nil

	output, err := Render(report, RenderOptions{})
	require.NoError(t, err)
	assert.Contains(t, output, "No identities were tracked.")
}

func TestRenderDetectionBarBounds(t *testing.T) {
	s := newStyles()

	assert.Equal(t, "", renderDetectionBar(0.5, 0, s))
	assert.Contains(t, renderDetectionBar(1, 4, s), "====")
	assert.Contains(t, renderDetectionBar(0, 4, s), "----")
	assert.Contains(t, renderDetectionBar(1.7, 4, s), "====", "rate clamps to 1")
}
