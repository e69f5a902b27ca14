package polyphase

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/ikeepcalm/ad/internal/core/domain"
)

// MaxGenerated is the exclusive upper bound of generated values.
const MaxGenerated = 1_000_000

// Generate writes uniformly random integers in [0, MaxGenerated), one per
// line, until at least sizeBytes bytes have been written. It returns the
// number of values and bytes written.
func Generate(ctx context.Context, w io.Writer, sizeBytes int64, rng *rand.Rand) (int64, int64, error) {
	bw := bufio.NewWriterSize(w, 64*1024)

	var (
		values  int64
		written int64
		buf     []byte
	)
	for written < sizeBytes {
		buf = strconv.AppendInt(buf[:0], int64(rng.IntN(MaxGenerated)), 10)
		buf = append(buf, '\n')
		n, err := bw.Write(buf)
		written += int64(n)
		if err != nil {
			return values, written, fmt.Errorf("writing value: %w", err)
		}
		values++
		if values%65536 == 0 {
			if err := ctx.Err(); err != nil {
				return values, written, err
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return values, written, fmt.Errorf("flushing values: %w", err)
	}
	return values, written, nil
}

// Verify reads newline-delimited integers from r and reports whether they
// form a single non-decreasing series.
func Verify(r io.Reader) (domain.VerifyReport, error) {
	var (
		report domain.VerifyReport
		prev   int64
		line   int64
	)
	report.Sorted = true

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		v, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return report, fmt.Errorf("%w: line %d: %q is not a 32-bit integer", domain.ErrInvalidInput, line, text)
		}
		if report.Values > 0 && v < prev && report.Sorted {
			report.Sorted = false
			report.FirstViolation = line
		}
		prev = v
		report.Values++
	}
	if err := sc.Err(); err != nil {
		return report, fmt.Errorf("reading values: %w", err)
	}
	return report, nil
}
