// Package relocate copies or moves finished chunk files into another directory.
package relocate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

type Mode int

const (
	Copy Mode = iota
	Move
)

// ParseMode accepts "copy"/"c" and "move"/"m", case-insensitive.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "copy", "c":
		return Copy, nil
	case "move", "m":
		return Move, nil
	}
	return Copy, fmt.Errorf("unknown mode %q", s)
}

func (m Mode) String() string {
	if m == Move {
		return "move"
	}
	return "copy"
}

// Verb is the past tense used in summaries.
func (m Mode) Verb() string {
	if m == Move {
		return "Moved"
	}
	return "Copied"
}

// ErrCreateDir is returned when the destination cannot be created.
var ErrCreateDir = errors.New("could not create directory")

// FileError is a failure for a single file; other files are still processed.
type FileError struct {
	Name string
	Op   string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("could not %s %s: %v", e.Op, e.Name, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

type Report struct {
	Dir     string
	Mode    Mode
	Created bool // Dir did not exist and was created
	// Identical is true when every file already existed in Dir with the same
	// content before anything was copied or moved.
	Identical bool
	Done      int
	Failures  []*FileError
}

// maxParallel bounds concurrent file operations.
const maxParallel = 4

// Run copies or moves files into dir, creating it when missing.
// A directory creation failure aborts; per-file failures are collected in
// the report. Only context cancellation is returned as an error after that.
func Run(ctx context.Context, files []string, dir string, mode Mode) (Report, error) {
	rep := Report{Dir: dir, Mode: mode}
	if len(files) == 0 {
		return rep, nil
	}

	created, err := EnsureDir(dir)
	if err != nil {
		return rep, err
	}
	rep.Created = created

	identical, err := allIdentical(files, dir)
	if err != nil {
		log.Printf("relocate: compare with %s: %v", dir, err)
	}
	rep.Identical = identical

	results := make([]*FileError, len(files))
	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i, src := range files {
		i, src := i, src
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			name := filepath.Base(src)
			dst := filepath.Join(dir, name)

			var err error
			if mode == Move {
				err = moveFile(src, dst)
			} else {
				err = copyFile(src, dst)
			}
			if err != nil {
				results[i] = &FileError{Name: name, Op: mode.String(), Err: err}
				return nil
			}

			mu.Lock()
			done++
			mu.Unlock()
			return nil
		})
	}
	werr := g.Wait()

	rep.Done = done
	for _, fe := range results {
		if fe != nil {
			rep.Failures = append(rep.Failures, fe)
		}
	}
	return rep, werr
}

// EnsureDir creates dir and its parents when missing. created reports
// whether anything was made.
func EnsureDir(dir string) (created bool, err error) {
	st, err := os.Stat(dir)
	switch {
	case err == nil && !st.IsDir():
		return false, fmt.Errorf("%w %s: not a directory", ErrCreateDir, dir)
	case err == nil:
		return false, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("%w %s: %v", ErrCreateDir, dir, err)
	}
	log.Printf("relocate: created %s", dir)
	return true, nil
}

func allIdentical(files []string, dir string) (bool, error) {
	for _, src := range files {
		same, err := sameContent(src, filepath.Join(dir, filepath.Base(src)))
		if err != nil || !same {
			return false, err
		}
	}
	return true, nil
}
