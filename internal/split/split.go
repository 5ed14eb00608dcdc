// Package split drives a target list through extraction, exclusion and the
// chunk writer.
package split

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/r00tm4st3r/Split-Targets/internal/chunk"
	"github.com/r00tm4st3r/Split-Targets/internal/domain"
)

const (
	DefaultLinesPerFile = 10000
	DefaultStartIndex   = 2
)

// ErrInputNotFound is returned when the input list does not exist.
var ErrInputNotFound = errors.New("input file not found")

// Reporter receives progress of a run. Implementations live outside the
// core so the pipeline has no console dependency.
type Reporter interface {
	ChunkWritten(path string, written, known int)
	DryRun(valid, chunks int)
	Done(valid int)
}

type Options struct {
	Input        string
	LinesPerFile int
	StartIndex   int
	Exclusions   domain.Exclusions
	DryRun       bool

	// OutputDir defaults to the current working directory.
	OutputDir string
	// CrossChunk keeps a line out of later chunks once an earlier chunk holds it.
	CrossChunk bool

	Reporter Reporter
	// WrapInput, if set, wraps the input reader (e.g. with a progress bar).
	// size is the input file size in bytes.
	WrapInput func(r io.Reader, size int64) io.Reader
}

type Result struct {
	Files      []string // chunk files created or updated, in index order
	BaseName   string   // output path prefix, "<dir>/<input-basename>"
	AnyWritten bool     // at least one new line reached disk
	ValidLines int
	Chunks     int
}

// ChunkPath returns the chunk file name for index.
func ChunkPath(baseName string, index int) string {
	return baseName + "-" + strconv.Itoa(index) + ".txt"
}

// BaseName returns "<dir>/<input basename without its last extension>".
func BaseName(dir, input string) string {
	base := filepath.Base(input)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base)))
}

// Run reads opts.Input once and splits its non-excluded lines into chunk files.
// On any error the returned Result is empty; files written before the error
// stay on disk.
func Run(ctx context.Context, opts Options) (Result, error) {
	if opts.LinesPerFile < 1 {
		return Result{}, fmt.Errorf("lines per file must be >= 1, got %d", opts.LinesPerFile)
	}
	rep := opts.Reporter
	if rep == nil {
		rep = nopReporter{}
	}

	in, err := os.Open(opts.Input)
	if errors.Is(err, fs.ErrNotExist) {
		return Result{}, fmt.Errorf("%w: %s", ErrInputNotFound, opts.Input)
	}
	if err != nil {
		return Result{}, fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	var r io.Reader = in
	if opts.WrapInput != nil {
		var size int64
		if st, err := in.Stat(); err == nil {
			size = st.Size()
		}
		r = opts.WrapInput(in, size)
	}

	dir := opts.OutputDir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return Result{}, fmt.Errorf("working directory: %w", err)
		}
	}

	s := &splitter{
		opts:   opts,
		rep:    rep,
		writer: chunk.NewWriter(opts.CrossChunk),
		index:  opts.StartIndex,
		res:    Result{BaseName: BaseName(dir, opts.Input)},
	}
	if err := s.consume(ctx, r); err != nil {
		return Result{}, err
	}

	if opts.DryRun {
		rep.DryRun(s.res.ValidLines, s.res.Chunks)
	} else {
		rep.Done(s.res.ValidLines)
	}
	log.Printf("split: %s: %d valid lines, %d chunks, dry-run=%v",
		opts.Input, s.res.ValidLines, s.res.Chunks, opts.DryRun)
	return s.res, nil
}

type splitter struct {
	opts   Options
	rep    Reporter
	writer *chunk.Writer
	index  int
	batch  []string
	res    Result
}

func (s *splitter) consume(ctx context.Context, r io.Reader) error {
	br := bufio.NewReader(r)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, rerr := br.ReadString('\n')
		if rerr != nil && rerr != io.EOF {
			return fmt.Errorf("read input: %w", rerr)
		}

		line := strings.TrimSpace(raw)
		if line != "" && !s.opts.Exclusions.Excludes(line) {
			s.batch = append(s.batch, line)
			s.res.ValidLines++

			if len(s.batch) == s.opts.LinesPerFile {
				if err := s.flush(); err != nil {
					return err
				}
			}
		}
		if rerr == io.EOF {
			break
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(s.batch) > 0 {
		return s.flush()
	}
	return nil
}

// flush finalizes the current batch as one chunk.
func (s *splitter) flush() error {
	s.res.Chunks++
	defer func() {
		s.batch = s.batch[:0]
		s.index++
	}()

	if s.opts.DryRun {
		return nil
	}

	path := ChunkPath(s.res.BaseName, s.index)
	written, err := s.writer.Write(path, s.batch)
	if err != nil {
		return err
	}
	s.rep.ChunkWritten(path, written, s.writer.Known(path))
	if written > 0 {
		s.res.AnyWritten = true
	}
	s.res.Files = append(s.res.Files, path)
	return nil
}

type nopReporter struct{}

func (nopReporter) ChunkWritten(string, int, int) {}
func (nopReporter) DryRun(int, int)               {}
func (nopReporter) Done(int)                      {}
