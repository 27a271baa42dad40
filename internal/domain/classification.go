package domain

import (
	"math"
	"time"
)

const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
)

// Classification is the final present/absent determination for one
// identity at session end. It is derived once and never mutated.
type Classification struct {
	Identity   Identity
	Detections int
	TotalScans int
	Present    bool
}

func (c Classification) Status() string {
	if c.Present {
		return StatusPresent
	}
	return StatusAbsent
}

// Rate returns the fraction of scans the identity was detected in.
func (c Classification) Rate() float64 {
	if c.TotalScans == 0 {
		return 0
	}
	return float64(c.Detections) / float64(c.TotalScans)
}

// Report is the finalized attendance record for one session.
type Report struct {
	SessionID  string
	Date       time.Time
	Threshold  float64
	TotalScans int
	Entries    []Classification
}

// RequiredDetections is the smallest detection count that classifies
// an identity present under the report's threshold.
func (r Report) RequiredDetections() int {
	return int(math.Ceil(r.Threshold * float64(r.TotalScans)))
}

func (r Report) PresentCount() int {
	count := 0
	for _, entry := range r.Entries {
		if entry.Present {
			count++
		}
	}
	return count
}
