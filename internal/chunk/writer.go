// Package chunk appends batches of target lines to chunk files without
// duplicating lines already present in them.
package chunk

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Writer caches, per output path, the lines known to be in that file.
// The cache is filled from disk on the first write to a path and kept
// up to date as lines are appended. A Writer is not safe for concurrent use.
type Writer struct {
	targets map[string]*target

	// Lines accepted into any chunk during this run; nil when lines are
	// only deduplicated per file.
	run lineSet
}

// NewWriter returns a Writer. With crossChunk set, a line placed in one chunk
// is skipped by every later chunk of the same run.
func NewWriter(crossChunk bool) *Writer {
	w := &Writer{targets: make(map[string]*target)}
	if crossChunk {
		w.run = make(lineSet)
	}
	return w
}

// Write appends the lines of batch that path does not already hold and
// returns how many were written. Existing content is never rewritten.
func (w *Writer) Write(path string, batch []string) (written int, err error) {
	t, ok := w.targets[path]
	if !ok {
		t, err = loadTarget(path)
		if err != nil {
			return 0, err
		}
		w.targets[path] = t
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	for _, line := range batch {
		clean := strings.TrimSpace(line)
		if clean == "" {
			continue
		}
		if w.run != nil {
			if w.run.has(clean) {
				continue
			}
			w.run.add(clean)
		}
		if t.seen.has(clean) {
			continue
		}

		if t.unterminated {
			if err := bw.WriteByte('\n'); err != nil {
				return written, fmt.Errorf("write %s: %w", path, err)
			}
			t.unterminated = false
		}
		if _, err := bw.WriteString(clean + "\n"); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		t.seen.add(clean)
		written++
	}

	if err := bw.Flush(); err != nil {
		return written, fmt.Errorf("flush %s: %w", path, err)
	}
	return written, nil
}

// Known reports how many distinct lines path is known to contain.
func (w *Writer) Known(path string) int {
	if t, ok := w.targets[path]; ok {
		return len(t.seen)
	}
	return 0
}
