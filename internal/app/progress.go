package app

import (
	"io"
	"os"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"
)

// progress draws a byte-based bar for the input file on w. It stays silent
// when w is not a terminal.
type progress struct {
	w   io.Writer
	bar *pb.ProgressBar
}

func newProgress(w io.Writer) *progress {
	return &progress{w: w}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *progress) wrap(r io.Reader, size int64) io.Reader {
	if !isTerminal(p.w) || size <= 0 {
		return r
	}
	p.bar = pb.New64(size).SetWriter(p.w).Set(pb.Bytes, true)
	p.bar.Start()
	return p.bar.NewProxyReader(r)
}

func (p *progress) finish() {
	if p == nil || p.bar == nil {
		return
	}
	p.bar.Finish()
}
