// Package csv emits one attendance report file per session.
package csv

import (
	"context"
	encsv "encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bnema/bt-attendance-cli/internal/domain"
	"github.com/bnema/bt-attendance-cli/internal/ports"
)

const (
	reportFilePattern = "attendance_%s.csv"
	reportDirMode     = 0o755
	reportFileMode    = 0o644
	tempFilePattern   = ".attendance-*.csv.tmp"
)

var header = []string{
	"Name",
	"Device ID",
	"Date",
	"Status",
	"Detections",
	"Total Scans",
	"Required Detections",
}

type Sink struct {
	dir string
}

var _ ports.ReportSink = (*Sink)(nil)

func NewSink(dir string) *Sink {
	return &Sink{dir: dir}
}

// Write renders the report as attendance_<date>.csv in the sink
// directory and returns the file path.
func (s *Sink) Write(ctx context.Context, report domain.Report) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, reportDirMode); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf(reportFilePattern, report.Date.Format("2006-01-02")))

	tempFile, err := os.CreateTemp(s.dir, tempFilePattern)
	if err != nil {
		return "", fmt.Errorf("create temp report file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	writer := encsv.NewWriter(tempFile)
	if err := writer.Write(header); err != nil {
		_ = tempFile.Close()
		return "", fmt.Errorf("write report header: %w", err)
	}

	date := report.Date.Format("2006-01-02")
	required := strconv.Itoa(report.RequiredDetections())
	totalScans := strconv.Itoa(report.TotalScans)
	for _, entry := range report.Entries {
		record := []string{
			entry.Identity.DisplayName,
			string(entry.Identity.ID),
			date,
			entry.Status(),
			strconv.Itoa(entry.Detections),
			totalScans,
			required,
		}
		if err := writer.Write(record); err != nil {
			_ = tempFile.Close()
			return "", fmt.Errorf("write report row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = tempFile.Close()
		return "", fmt.Errorf("flush report: %w", err)
	}

	if err := tempFile.Chmod(reportFileMode); err != nil {
		_ = tempFile.Close()
		return "", fmt.Errorf("chmod temp report file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return "", fmt.Errorf("close temp report file: %w", err)
	}

	if err := os.Rename(tempName, path); err != nil {
		return "", fmt.Errorf("replace report file: %w", err)
	}

	cleanup = false

	return path, nil
}
