package domain

import (
	"encoding/json"
	"time"
)

// RunKind identifies which workload produced a run.
type RunKind string

// Run kinds.
const (
	RunKindGenerate RunKind = "generate"
	RunKindSort     RunKind = "sort"
	RunKindQueens   RunKind = "queens"
	RunKindTSP      RunKind = "tsp"
	RunKindTune     RunKind = "tune"
)

// IsValid returns true if the kind is recognised.
func (k RunKind) IsValid() bool {
	switch k {
	case RunKindGenerate, RunKindSort, RunKindQueens, RunKindTSP, RunKindTune:
		return true
	default:
		return false
	}
}

// Run is a persisted record of one algorithm execution.
type Run struct {
	// ID is a UUID assigned when the run is recorded.
	ID string `json:"id"`

	// Kind is the workload.
	Kind RunKind `json:"kind"`

	// Params holds the JSON-encoded request.
	Params json.RawMessage `json:"params"`

	// Summary holds the JSON-encoded result.
	Summary json.RawMessage `json:"summary"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Duration is the wall time of the run.
	Duration time.Duration `json:"duration"`

	// Error is the failure message, empty on success.
	Error string `json:"error,omitempty"`
}

// Succeeded reports whether the run completed without error.
func (r Run) Succeeded() bool {
	return r.Error == ""
}

// RunFilter narrows a history listing.
type RunFilter struct {
	// Kind restricts results to one workload. Empty means all.
	Kind RunKind
	// Limit caps the number of runs returned, newest first. Zero means no cap.
	Limit int
}
