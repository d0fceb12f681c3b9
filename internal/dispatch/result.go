package dispatch

import (
	"time"

	"github.com/Taco-Comovilla/cattywampus/internal/media"
)

// Outcome is the terminal state of one file's processing.
type Outcome int

const (
	// OutcomeMutated means the pipeline ran to completion; Mutations holds
	// the number of applied operations (zero for an already-clean file).
	OutcomeMutated Outcome = iota
	// OutcomeSkipped means the file never entered the pipeline.
	OutcomeSkipped
	// OutcomeFailed means probing or applying failed; Err carries the cause.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMutated:
		return "mutated"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// SkipReason explains an OutcomeSkipped result.
type SkipReason int

const (
	SkipNone SkipReason = iota
	// SkipFilteredByType: excluded by the only-MKV/only-MP4 filter.
	SkipFilteredByType
	// SkipUnsupportedType: the extension maps to no supported container.
	SkipUnsupportedType
	// SkipUpToDate: the processed-file cache shows no change since the
	// last successful run.
	SkipUpToDate
)

func (r SkipReason) String() string {
	switch r {
	case SkipFilteredByType:
		return "filtered by type"
	case SkipUnsupportedType:
		return "unsupported type"
	case SkipUpToDate:
		return "up to date"
	default:
		return ""
	}
}

// Result is the per-file processing record.
type Result struct {
	Path      string
	Container media.Container
	Outcome   Outcome
	Reason    SkipReason
	Mutations int
	Err       error
	Elapsed   time.Duration
}

// Summary aggregates all per-file results for one run.
type Summary struct {
	Results []Result
	Elapsed time.Duration
}

// Counts returns the number of mutated, skipped, and failed files.
func (s Summary) Counts() (mutated, skipped, failed int) {
	for _, r := range s.Results {
		switch r.Outcome {
		case OutcomeMutated:
			mutated++
		case OutcomeSkipped:
			skipped++
		default:
			failed++
		}
	}
	return mutated, skipped, failed
}

// Failed reports whether any file failed. The CLI maps this to a non-zero
// process exit code.
func (s Summary) Failed() bool {
	for _, r := range s.Results {
		if r.Outcome == OutcomeFailed {
			return true
		}
	}
	return false
}

// FailedPaths lists the files that failed, in processing order.
func (s Summary) FailedPaths() []string {
	var paths []string
	for _, r := range s.Results {
		if r.Outcome == OutcomeFailed {
			paths = append(paths, r.Path)
		}
	}
	return paths
}
