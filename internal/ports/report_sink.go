package ports

import (
	"context"

	"github.com/bnema/bt-attendance-cli/internal/domain"
)

// ReportSink serializes a finalized attendance report. Write returns the
// destination it produced (for CSV sinks, the file path).
type ReportSink interface {
	Write(ctx context.Context, report domain.Report) (string, error)
}
