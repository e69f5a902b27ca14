package polyphase

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// tape is a temp file holding a queue of sorted runs. Values are stored as
// little-endian int32. A run length of zero is a dummy run.
type tape struct {
	path string
	runs []int

	f *os.File
	w *bufio.Writer
	r *bufio.Reader

	buf [4]byte
}

func newTape(path string) *tape {
	return &tape{path: path}
}

// rewrite truncates the tape and prepares it for writing.
func (t *tape) rewrite() error {
	if err := t.close(); err != nil {
		return err
	}
	f, err := os.Create(t.path)
	if err != nil {
		return fmt.Errorf("creating tape: %w", err)
	}
	t.f = f
	t.w = bufio.NewWriterSize(f, 64*1024)
	t.runs = t.runs[:0]
	return nil
}

// rewind flushes pending writes and positions the tape at its first run.
func (t *tape) rewind() error {
	if t.w != nil {
		if err := t.w.Flush(); err != nil {
			return fmt.Errorf("flushing tape: %w", err)
		}
		t.w = nil
	}
	if t.f == nil {
		f, err := os.Open(t.path)
		if err != nil {
			return fmt.Errorf("opening tape: %w", err)
		}
		t.f = f
	}
	if _, err := t.f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding tape: %w", err)
	}
	t.r = bufio.NewReaderSize(t.f, 64*1024)
	return nil
}

func (t *tape) write(v int32) error {
	binary.LittleEndian.PutUint32(t.buf[:], uint32(v))
	_, err := t.w.Write(t.buf[:])
	return err
}

func (t *tape) read() (int32, error) {
	if _, err := io.ReadFull(t.r, t.buf[:]); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return 0, fmt.Errorf("reading tape: %w", err)
	}
	return int32(binary.LittleEndian.Uint32(t.buf[:])), nil
}

// writeRun appends a sorted run.
func (t *tape) writeRun(values []int32) error {
	for _, v := range values {
		if err := t.write(v); err != nil {
			return fmt.Errorf("writing run: %w", err)
		}
	}
	t.runs = append(t.runs, len(values))
	return nil
}

// addDummy appends an empty run.
func (t *tape) addDummy() {
	t.runs = append(t.runs, 0)
}

// popRun removes the next run length from the queue.
func (t *tape) popRun() int {
	n := t.runs[0]
	t.runs = t.runs[1:]
	return n
}

func (t *tape) close() error {
	if t.f == nil {
		return nil
	}
	var err error
	if t.w != nil {
		err = t.w.Flush()
		t.w = nil
	}
	if cerr := t.f.Close(); err == nil {
		err = cerr
	}
	t.f = nil
	t.r = nil
	return err
}

func (t *tape) remove() error {
	err := t.close()
	if rerr := os.Remove(t.path); rerr != nil && !errors.Is(rerr, os.ErrNotExist) && err == nil {
		err = rerr
	}
	return err
}
