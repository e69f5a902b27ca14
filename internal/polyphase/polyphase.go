// Package polyphase sorts files of newline-delimited integers that do not
// fit in memory, using a three-tape polyphase merge.
//
// Sorted runs of at most MemoryBytes/4 values are spilled to disk and then
// dealt onto two tapes in a perfect Fibonacci distribution, padding with
// empty dummy runs. Each merge phase merges runs from the two input tapes
// onto the third until one input empties; that tape becomes the next
// output. The sort finishes when a single run remains.
package polyphase

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ikeepcalm/ad/internal/core/domain"
)

// Observer receives progress while a sort runs.
type Observer func(domain.SortProgress)

// Sorter performs external polyphase sorts.
type Sorter struct {
	// TempDir holds the tapes. Empty means the OS temp dir.
	TempDir string

	// MemoryBytes bounds a single in-memory run.
	MemoryBytes int64

	// Observer is optional.
	Observer Observer
}

func (s *Sorter) emit(p domain.SortProgress) {
	if s.Observer != nil {
		s.Observer(p)
	}
}

// Sort reads integers from input and writes them in ascending order to
// output. Temporary tapes are removed before Sort returns.
func (s *Sorter) Sort(ctx context.Context, input, output string) (domain.SortReport, error) {
	start := time.Now()
	report := domain.SortReport{Output: output}

	dir, err := os.MkdirTemp(s.TempDir, "ad-sort-*")
	if err != nil {
		return report, fmt.Errorf("creating tape directory: %w", err)
	}
	defer os.RemoveAll(dir)

	spill := newTape(filepath.Join(dir, "spill.tape"))
	tapes := [3]*tape{
		newTape(filepath.Join(dir, "tape0.tape")),
		newTape(filepath.Join(dir, "tape1.tape")),
		newTape(filepath.Join(dir, "tape2.tape")),
	}
	defer func() {
		_ = spill.remove()
		for _, t := range tapes {
			_ = t.remove()
		}
	}()

	capacity := domain.SortOptions{MemoryBytes: s.MemoryBytes}.RunCapacity()
	values, err := s.formRuns(ctx, input, spill, capacity)
	if err != nil {
		return report, err
	}
	report.Values = values
	report.Runs = len(spill.runs)

	if report.Runs == 0 {
		if err := writeOutput(output, nil, 0); err != nil {
			return report, err
		}
		report.Duration = time.Since(start)
		s.emit(domain.SortProgress{Phase: domain.SortPhaseDone})
		return report, nil
	}

	dummies, err := s.distribute(spill, tapes[0], tapes[1])
	if err != nil {
		return report, err
	}
	report.DummyRuns = dummies

	final, phases, err := s.merge(ctx, tapes)
	if err != nil {
		return report, err
	}
	report.Phases = phases

	if err := writeOutput(output, final, values); err != nil {
		return report, err
	}
	report.Duration = time.Since(start)
	s.emit(domain.SortProgress{Phase: domain.SortPhaseDone, Step: phases})
	return report, nil
}

// formRuns reads the input in chunks of capacity values, sorts each chunk
// and appends it to spill as a run.
func (s *Sorter) formRuns(ctx context.Context, input string, spill *tape, capacity int) (int64, error) {
	f, err := os.Open(input)
	if err != nil {
		return 0, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	if err := spill.rewrite(); err != nil {
		return 0, err
	}

	chunk := make([]int32, 0, min(capacity, 1<<20))
	var (
		values int64
		line   int64
	)
	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		slices.Sort(chunk)
		if err := spill.writeRun(chunk); err != nil {
			return err
		}
		chunk = chunk[:0]
		s.emit(domain.SortProgress{Phase: domain.SortPhaseRuns, Step: len(spill.runs)})
		return ctx.Err()
	}

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		v, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return values, fmt.Errorf("%w: line %d: %q is not a 32-bit integer", domain.ErrInvalidInput, line, text)
		}
		chunk = append(chunk, int32(v))
		values++
		if len(chunk) == capacity {
			if err := flush(); err != nil {
				return values, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return values, fmt.Errorf("reading input: %w", err)
	}
	if err := flush(); err != nil {
		return values, err
	}
	return values, spill.rewind()
}

// fibonacci returns the smallest perfect distribution (a, b), a >= b,
// with a+b >= runs.
func fibonacci(runs int) (int, int) {
	a, b := 1, 0
	for a+b < runs {
		a, b = a+b, a
	}
	return a, b
}

// distribute deals the spilled runs onto x and y in a perfect Fibonacci
// distribution. Dummy runs go to the front of x.
func (s *Sorter) distribute(spill, x, y *tape) (int, error) {
	runs := len(spill.runs)
	a, b := fibonacci(runs)
	dummies := a + b - runs

	if err := x.rewrite(); err != nil {
		return 0, err
	}
	if err := y.rewrite(); err != nil {
		return 0, err
	}

	for i := 0; i < dummies; i++ {
		x.addDummy()
	}
	for i := 0; i < runs; i++ {
		dst := x
		if i >= a-dummies {
			dst = y
		}
		if err := copyRun(spill, dst); err != nil {
			return 0, err
		}
	}
	s.emit(domain.SortProgress{Phase: domain.SortPhaseDistribute, Remaining: a + b})

	if err := x.rewind(); err != nil {
		return 0, err
	}
	if err := y.rewind(); err != nil {
		return 0, err
	}
	return dummies, nil
}

func copyRun(src, dst *tape) error {
	n := src.popRun()
	for i := 0; i < n; i++ {
		v, err := src.read()
		if err != nil {
			return err
		}
		if err := dst.write(v); err != nil {
			return fmt.Errorf("writing run: %w", err)
		}
	}
	dst.runs = append(dst.runs, n)
	return nil
}

// merge runs merge phases until one run remains and returns the tape
// holding it, rewound.
func (s *Sorter) merge(ctx context.Context, tapes [3]*tape) (*tape, int, error) {
	a, b, out := tapes[0], tapes[1], tapes[2]
	phases := 0

	for len(a.runs)+len(b.runs) > 1 {
		if err := out.rewrite(); err != nil {
			return nil, phases, err
		}
		n := min(len(a.runs), len(b.runs))
		for i := 0; i < n; i++ {
			if err := mergeRuns(a, b, out); err != nil {
				return nil, phases, err
			}
			if i%64 == 0 {
				if err := ctx.Err(); err != nil {
					return nil, phases, err
				}
			}
		}
		if err := out.rewind(); err != nil {
			return nil, phases, err
		}
		phases++

		// the emptied input becomes the next output
		if len(a.runs) == 0 {
			a, out = out, a
		} else {
			b, out = out, b
		}
		s.emit(domain.SortProgress{
			Phase:     domain.SortPhaseMerge,
			Step:      phases,
			Remaining: len(a.runs) + len(b.runs),
		})
	}

	if len(a.runs) == 1 {
		return a, phases, nil
	}
	return b, phases, nil
}

// mergeRuns merges the next run of x with the next run of y onto out.
func mergeRuns(x, y, out *tape) error {
	nx, ny := x.popRun(), y.popRun()
	out.runs = append(out.runs, nx+ny)

	var vx, vy int32
	var err error
	if nx > 0 {
		if vx, err = x.read(); err != nil {
			return err
		}
	}
	if ny > 0 {
		if vy, err = y.read(); err != nil {
			return err
		}
	}

	for nx > 0 || ny > 0 {
		takeX := ny == 0 || (nx > 0 && vx <= vy)
		if takeX {
			if err := out.write(vx); err != nil {
				return fmt.Errorf("writing run: %w", err)
			}
			nx--
			if nx > 0 {
				if vx, err = x.read(); err != nil {
					return err
				}
			}
			continue
		}
		if err := out.write(vy); err != nil {
			return fmt.Errorf("writing run: %w", err)
		}
		ny--
		if ny > 0 {
			if vy, err = y.read(); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeOutput writes the single run on final to path as text.
func writeOutput(path string, final *tape, values int64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	w := bufio.NewWriterSize(f, 64*1024)

	var buf []byte
	for i := int64(0); i < values; i++ {
		v, err := final.read()
		if err != nil {
			f.Close()
			return err
		}
		buf = strconv.AppendInt(buf[:0], int64(v), 10)
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			f.Close()
			return fmt.Errorf("writing output: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing output: %w", err)
	}
	return f.Close()
}
