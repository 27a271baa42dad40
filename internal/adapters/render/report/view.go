package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/bnema/bt-attendance-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	// BarWidth is the detection bar width in cells; zero picks the default.
	BarWidth int
}

const defaultBarWidth = 20

func renderView(r domain.Report, opts RenderOptions, s styles) string {
	width := opts.BarWidth
	if width <= 0 {
		width = defaultBarWidth
	}

	lines := []string{
		s.title.Render("Attendance Report"),
		s.header.Render(fmt.Sprintf("session %s on %s", shortSessionID(r.SessionID), r.Date.Format("2006-01-02"))),
		s.header.Render(scanLine(r)),
	}

	if len(r.Entries) == 0 {
		lines = append(lines, s.empty.Render("No identities were tracked."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	nameWidth := 0
	for _, entry := range r.Entries {
		if len(entry.Identity.DisplayName) > nameWidth {
			nameWidth = len(entry.Identity.DisplayName)
		}
	}

	for _, entry := range r.Entries {
		lines = append(lines, renderEntry(entry, nameWidth, width, s))
	}

	lines = append(lines, s.summary.Render(fmt.Sprintf("present: %d of %d", r.PresentCount(), len(r.Entries))))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func scanLine(r domain.Report) string {
	if r.TotalScans == 0 {
		return "no scans completed"
	}

	return fmt.Sprintf("scans: %d, threshold: %.0f%% (%d detections required)",
		r.TotalScans, r.Threshold*100, r.RequiredDetections())
}

func renderEntry(entry domain.Classification, nameWidth, barWidth int, s styles) string {
	status := s.absent.Render(entry.Status())
	if entry.Present {
		status = s.present.Render(entry.Status())
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.name.Render(fmt.Sprintf("%-*s", nameWidth, entry.Identity.DisplayName)),
		" ",
		s.device.Render(string(entry.Identity.ID)),
		" ",
		renderDetectionBar(entry.Rate(), barWidth, s),
		" ",
		s.detail.Render(fmt.Sprintf("%d/%d", entry.Detections, entry.TotalScans)),
		" ",
		status,
	)
}

func renderDetectionBar(rate float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}

	filled := int(math.Round(float64(width) * rate))
	if filled > width {
		filled = width
	}
	empty := width - filled

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", empty)),
		s.barBracket.Render("]"),
	)
}

func shortSessionID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
