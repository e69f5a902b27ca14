package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/ikeepcalm/ad/internal/core/domain"
	"github.com/ikeepcalm/ad/internal/core/ports/driven"
	"github.com/ikeepcalm/ad/internal/core/ports/driving"
	"github.com/ikeepcalm/ad/internal/logger"
	"github.com/ikeepcalm/ad/internal/polyphase"
)

// Ensure SortService implements the interface.
var _ driving.SortService = (*SortService)(nil)

// DefaultSortOutput is written when no output path is given.
const DefaultSortOutput = "sorted.txt"

// SortService generates and sorts integer files.
type SortService struct {
	settings driving.SettingsService
	recorder recorder
}

// NewSortService creates a new sort service. runs may be nil.
func NewSortService(settings driving.SettingsService, runs driven.RunStore) *SortService {
	return &SortService{settings: settings, recorder: recorder{runs: runs}}
}

// seedOrNow returns seed, or a time-based seed when it is zero.
func seedOrNow(seed int64) int64 {
	if seed == 0 {
		return time.Now().UnixNano()
	}
	return seed
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
}

// Generate writes a file of random integers of at least sizeMB megabytes.
func (s *SortService) Generate(ctx context.Context, path string, sizeMB int, seed int64) (*domain.GenerateReport, error) {
	started := time.Now()
	seed = seedOrNow(seed)
	params := map[string]any{"path": path, "size_mb": sizeMB, "seed": seed}

	report, err := s.generate(ctx, path, sizeMB, seed)
	s.recorder.record(ctx, domain.RunKindGenerate, params, report, started, err)
	return report, err
}

func (s *SortService) generate(ctx context.Context, path string, sizeMB int, seed int64) (*domain.GenerateReport, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: output path is required", domain.ErrInvalidInput)
	}
	if sizeMB <= 0 {
		return nil, fmt.Errorf("%w: size must be a positive number of megabytes", domain.ErrInvalidInput)
	}

	start := time.Now()
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	defer logger.Timed("Generate")()
	logger.Debug("writing %d MB of random integers to %s (seed %d)", sizeMB, path, seed)

	values, written, err := polyphase.Generate(ctx, f, int64(sizeMB)*1024*1024, newRand(seed))
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close %s: %w", path, cerr)
	}
	if err != nil {
		return nil, err
	}

	report := &domain.GenerateReport{
		Path:     path,
		Values:   values,
		Bytes:    written,
		Seed:     seed,
		Duration: time.Since(start),
	}
	logger.Debug("generated %d values (%d bytes) in %s", values, written, report.Duration)
	return report, nil
}

// Sort runs an external polyphase sort. Zero options fall back to settings.
func (s *SortService) Sort(ctx context.Context, opts domain.SortOptions) (*domain.SortReport, error) {
	started := time.Now()

	opts, err := s.withDefaults(opts)
	var report *domain.SortReport
	if err == nil {
		report, err = s.sort(ctx, opts)
	}
	s.recorder.record(ctx, domain.RunKindSort, opts, report, started, err)
	return report, err
}

func (s *SortService) withDefaults(opts domain.SortOptions) (domain.SortOptions, error) {
	if opts.Input == "" {
		return opts, fmt.Errorf("%w: input path is required", domain.ErrInvalidInput)
	}
	if opts.MemoryBytes < 0 {
		return opts, fmt.Errorf("%w: memory must be positive", domain.ErrInvalidInput)
	}
	if opts.Output == "" {
		opts.Output = DefaultSortOutput
	}
	if opts.MemoryBytes == 0 || opts.TempDir == "" {
		settings, err := s.settings.Get()
		if err != nil {
			return opts, fmt.Errorf("load settings: %w", err)
		}
		if opts.MemoryBytes == 0 {
			opts.MemoryBytes = settings.MemoryBytes()
		}
		if opts.TempDir == "" {
			opts.TempDir = settings.Sort.TempDir
		}
	}
	return opts, nil
}

func (s *SortService) sort(ctx context.Context, opts domain.SortOptions) (*domain.SortReport, error) {
	defer logger.Timed("Polyphase Sort")()
	logger.Debug("input=%s output=%s run capacity=%d values", opts.Input, opts.Output, opts.RunCapacity())

	progress := newThrottle(ProgressInterval, 1)
	sorter := &polyphase.Sorter{
		TempDir:     opts.TempDir,
		MemoryBytes: opts.MemoryBytes,
		Observer: func(p domain.SortProgress) {
			if p.Phase == domain.SortPhaseDistribute || p.Phase == domain.SortPhaseDone || progress.Allow() {
				logger.Debug("%s: step %d, %d runs remaining", p.Phase, p.Step, p.Remaining)
			}
		},
	}

	report, err := sorter.Sort(ctx, opts.Input, opts.Output)
	if err != nil {
		return nil, fmt.Errorf("sort %s: %w", opts.Input, err)
	}
	logger.Debug("sorted %d values: %d runs, %d dummy runs, %d phases",
		report.Values, report.Runs, report.DummyRuns, report.Phases)

	if opts.Verify {
		v, err := s.Verify(ctx, opts.Output)
		if err != nil {
			return nil, err
		}
		if !v.Sorted {
			return nil, fmt.Errorf("verify %s: out of order at line %d", opts.Output, v.FirstViolation)
		}
		report.Verified = true
	}
	return &report, nil
}

// Verify checks that a file is sorted.
func (s *SortService) Verify(_ context.Context, path string) (*domain.VerifyReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	report, err := polyphase.Verify(f)
	if err != nil {
		return nil, fmt.Errorf("verify %s: %w", path, err)
	}
	return &report, nil
}
