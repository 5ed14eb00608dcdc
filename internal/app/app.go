package app

import (
	"context"
	"errors"
	"io"
	"log"
	"path/filepath"

	"github.com/r00tm4st3r/Split-Targets/internal/config"
	"github.com/r00tm4st3r/Split-Targets/internal/console"
	"github.com/r00tm4st3r/Split-Targets/internal/relocate"
	"github.com/r00tm4st3r/Split-Targets/internal/split"
)

// ErrInterrupted is returned after the user interrupted the run.
var ErrInterrupted = errors.New("interrupted")

// ErrReported marks a failure that has already been shown to the user.
var ErrReported = errors.New("run failed")

type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Run splits cfg.Input and, after a real split, walks the user through
// keeping or relocating the chunk files.
func Run(ctx context.Context, cfg config.Config, s Streams) error {
	p := console.NewPrinter(s.Out, cfg.NoColor)
	p.Banner()

	opts := cfg.SplitOptions()
	opts.Reporter = p

	var bar *progress
	if cfg.Progress {
		bar = newProgress(s.Err)
		opts.WrapInput = bar.wrap
	}

	res, err := split.Run(ctx, opts)
	bar.finish()
	if err != nil {
		return reportSplitError(ctx, p, cfg.Input, err)
	}
	if cfg.DryRun {
		return nil
	}

	q := console.NewPrompter(s.In, p)
	defer q.Close()
	if err := relocateFiles(ctx, cfg, p, q, res); err != nil {
		if ctx.Err() != nil {
			p.Warn("Process interrupted by user. Exiting safely.")
			return ErrInterrupted
		}
		return err
	}
	return nil
}

func reportSplitError(ctx context.Context, p *console.Printer, input string, err error) error {
	switch {
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		p.Warn("Process interrupted by user. Exiting safely.")
		return ErrInterrupted
	case errors.Is(err, split.ErrInputNotFound):
		p.Error("File not found: %s", input)
	default:
		p.Error("An error occurred: %v", err)
	}
	log.Printf("app: split failed: %v", err)
	return ErrReported
}

func relocateFiles(ctx context.Context, cfg config.Config, p *console.Printer, q *console.Prompter, res split.Result) error {
	if len(res.Files) == 0 {
		return nil
	}

	dir := cfg.Dest
	if dir == "" {
		keep, err := q.YesNo(ctx, "Store the files in the current directory? (y/n): ")
		if errors.Is(err, io.EOF) {
			keep, err = true, nil
		}
		if err != nil {
			return err
		}
		if keep {
			p.Info("Files kept in %s.", filepath.Dir(res.BaseName))
			if !res.AnyWritten {
				p.Notice("No new lines added, files already contain all data.")
			}
			return nil
		}

		dir, err = q.Directory(ctx, "Enter the directory path where you want to store the files: ")
		if err != nil {
			return noAnswer(p, err)
		}
	}

	created, err := relocate.EnsureDir(dir)
	if err != nil {
		p.Error("Could not create directory: %v", err)
		return ErrReported
	}
	if created {
		p.Info("Created directory: %s", dir)
	}

	var mode relocate.Mode
	if cfg.Mode != "" {
		if mode, err = relocate.ParseMode(cfg.Mode); err != nil {
			return err
		}
	} else if mode, err = q.CopyOrMove(ctx, "Copy or move the files? (c/m): "); err != nil {
		return noAnswer(p, err)
	}

	rep, err := relocate.Run(ctx, res.Files, dir, mode)
	for _, fe := range rep.Failures {
		p.Error("Could not %s %s: %v", fe.Op, fe.Name, fe.Err)
	}
	if err != nil {
		return err
	}

	p.Info("%s %d files to %s", mode.Verb(), rep.Done, dir)
	if !res.AnyWritten && rep.Identical {
		p.Notice("No new lines added, destination already contained identical files.")
	}
	if len(rep.Failures) > 0 {
		return ErrReported
	}
	return nil
}

// noAnswer turns a closed input into "leave the files where they are".
func noAnswer(p *console.Printer, err error) error {
	if errors.Is(err, io.EOF) {
		p.Notice("No answer on input, files kept in the current directory.")
		return nil
	}
	return err
}
