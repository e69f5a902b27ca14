package domain

import (
	"fmt"
	"time"
)

// SortSettings holds external sort defaults.
type SortSettings struct {
	// MemoryMB is the run memory budget in megabytes.
	MemoryMB int
	// TempDir holds tapes. Empty means the OS temp dir.
	TempDir string
}

// BTreeSettings holds B-tree defaults.
type BTreeSettings struct {
	// Degree is the minimum degree t.
	Degree int
}

// UserSettings holds user table defaults.
type UserSettings struct {
	// PageSize is the number of rows per page.
	PageSize int
}

// QueensSettings holds eight queens defaults.
type QueensSettings struct {
	// MaxNodes bounds A* before it gives up.
	MaxNodes int
	// DelayMS is the pause between animation frames.
	DelayMS int
}

// ACOSettings holds defaults for the classic colony.
type ACOSettings struct {
	Ants       int
	Iterations int
	Quality    int
	Alpha      float64
	Beta       float64
	Rho        float64
	Vertices   int
}

// TunerSettings holds parameter search defaults.
type TunerSettings struct {
	Cities    int
	TimeLimit time.Duration
	Workers   int
}

// Settings holds all application settings.
type Settings struct {
	// DataDir holds the database. Empty means ~/.ad/data.
	DataDir string
	Sort    SortSettings
	BTree   BTreeSettings
	Users   UserSettings
	Queens  QueensSettings
	ACO     ACOSettings
	Tuner   TunerSettings
}

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() *Settings {
	classic := ClassicACOParams()
	return &Settings{
		Sort: SortSettings{
			MemoryMB: 100,
		},
		BTree: BTreeSettings{
			Degree: 25,
		},
		Users: UserSettings{
			PageSize: 6,
		},
		Queens: QueensSettings{
			MaxNodes: 2_000_000,
			DelayMS:  50,
		},
		ACO: ACOSettings{
			Ants:       classic.Ants,
			Iterations: classic.Iterations,
			Quality:    classic.ReportEvery,
			Alpha:      classic.Alpha,
			Beta:       classic.Beta,
			Rho:        classic.Rho,
			Vertices:   200,
		},
		Tuner: TunerSettings{
			Cities:    300,
			TimeLimit: 60 * time.Second,
			Workers:   4,
		},
	}
}

// Validate checks settings ranges.
func (s *Settings) Validate() error {
	switch {
	case s.Sort.MemoryMB < 1:
		return fmt.Errorf("%w: sort.memory_mb must be positive", ErrInvalidInput)
	case s.BTree.Degree < 2:
		return fmt.Errorf("%w: btree.degree must be at least 2", ErrInvalidInput)
	case s.Users.PageSize < 1:
		return fmt.Errorf("%w: users.page_size must be positive", ErrInvalidInput)
	case s.Queens.MaxNodes < 1:
		return fmt.Errorf("%w: queens.max_nodes must be positive", ErrInvalidInput)
	case s.Queens.DelayMS < 0:
		return fmt.Errorf("%w: queens.delay_ms must not be negative", ErrInvalidInput)
	case s.ACO.Vertices < 2:
		return fmt.Errorf("%w: aco.vertices must be at least 2", ErrInvalidInput)
	case s.ACO.Quality < 1:
		return fmt.Errorf("%w: aco.quality must be positive", ErrInvalidInput)
	case s.Tuner.Cities < 2:
		return fmt.Errorf("%w: tuner.cities must be at least 2", ErrInvalidInput)
	case s.Tuner.TimeLimit <= 0:
		return fmt.Errorf("%w: tuner.time_limit must be positive", ErrInvalidInput)
	case s.Tuner.Workers < 1:
		return fmt.Errorf("%w: tuner.workers must be positive", ErrInvalidInput)
	}
	return s.ClassicParams().Validate()
}

// ClassicParams returns the classic colony parameters from these settings.
func (s *Settings) ClassicParams() ACOParams {
	p := ClassicACOParams()
	p.Ants = s.ACO.Ants
	p.Iterations = s.ACO.Iterations
	p.ReportEvery = s.ACO.Quality
	p.Alpha = s.ACO.Alpha
	p.Beta = s.ACO.Beta
	p.Rho = s.ACO.Rho
	return p
}

// MemoryBytes returns the sort memory budget in bytes.
func (s *Settings) MemoryBytes() int64 {
	return int64(s.Sort.MemoryMB) * 1024 * 1024
}

// SettingEntry is one configurable key with its effective value.
type SettingEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	// Default is set when the value comes from DefaultSettings.
	Default bool `json:"default"`
}
