package domain

import "time"

// BytesPerValue is the in-memory footprint assumed per sorted value when
// turning a memory budget into a run length.
const BytesPerValue = 4

// SortOptions configures an external sort.
type SortOptions struct {
	// Input is the file of newline-delimited integers to sort.
	Input string `json:"input"`

	// Output receives the sorted values. Defaults to "sorted.txt".
	Output string `json:"output"`

	// TempDir holds the spill file and tapes. Defaults to the OS temp dir.
	TempDir string `json:"temp_dir,omitempty"`

	// MemoryBytes bounds the size of a single in-memory run.
	MemoryBytes int64 `json:"memory_bytes"`

	// Verify re-reads Output after sorting and checks ordering.
	Verify bool `json:"verify"`
}

// RunCapacity returns how many values fit into a single run.
func (o SortOptions) RunCapacity() int {
	n := o.MemoryBytes / BytesPerValue
	if n < 1 {
		return 1
	}
	return int(n)
}

// SortReport summarises a completed external sort.
type SortReport struct {
	// Values is the number of integers sorted.
	Values int64 `json:"values"`

	// Runs is the number of initial sorted runs.
	Runs int `json:"runs"`

	// DummyRuns is the number of empty runs added to reach a
	// perfect Fibonacci distribution.
	DummyRuns int `json:"dummy_runs"`

	// Phases is the number of merge phases executed.
	Phases int `json:"phases"`

	// Output is the path of the sorted file.
	Output string `json:"output"`

	// Duration is the wall time of the sort.
	Duration time.Duration `json:"duration"`

	// Verified is set when the output was checked after sorting.
	Verified bool `json:"verified"`
}

// SortPhase identifies a stage of the external sort for progress reporting.
type SortPhase string

// Sort phases.
const (
	SortPhaseRuns       SortPhase = "runs"
	SortPhaseDistribute SortPhase = "distribute"
	SortPhaseMerge      SortPhase = "merge"
	SortPhaseDone       SortPhase = "done"
)

// SortProgress is emitted by the sorter as it works.
type SortProgress struct {
	Phase SortPhase
	// Step is the run number during run formation and the phase number
	// during merging.
	Step int
	// Remaining is the number of runs still to be merged.
	Remaining int
}

// VerifyReport describes whether a stream is a single non-decreasing series.
type VerifyReport struct {
	Values int64 `json:"values"`
	Sorted bool  `json:"sorted"`
	// FirstViolation is the 1-based line of the first out-of-order value.
	FirstViolation int64 `json:"first_violation,omitempty"`
}

// GenerateReport summarises a generated test file.
type GenerateReport struct {
	Path     string        `json:"path"`
	Values   int64         `json:"values"`
	Bytes    int64         `json:"bytes"`
	Seed     int64         `json:"seed"`
	Duration time.Duration `json:"duration"`
}
