package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/r00tm4st3r/Split-Targets/internal/relocate"
)

type answer struct {
	text string
	err  error
}

// Prompter asks questions on the printer's writer and reads answers line by
// line from in. Reads happen on a background goroutine so a pending question
// can be abandoned when ctx is canceled. An abandoned Prompter is closed and
// answers every later question with io.EOF.
type Prompter struct {
	in   io.Reader
	p    *Printer
	ch   chan answer
	done chan struct{}
	one  sync.Once
	stop sync.Once
}

func NewPrompter(in io.Reader, p *Printer) *Prompter {
	return &Prompter{in: in, p: p, ch: make(chan answer), done: make(chan struct{})}
}

// Close lets the reader goroutine exit once its pending read returns.
func (q *Prompter) Close() {
	q.stop.Do(func() { close(q.done) })
}

func (q *Prompter) start() {
	go func() {
		defer close(q.ch)
		sc := bufio.NewScanner(q.in)
		for sc.Scan() {
			if !q.send(answer{text: sc.Text()}) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			q.send(answer{err: err})
		}
	}()
}

// send hands a to a waiting ask. It reports false once the Prompter is closed.
func (q *Prompter) send(a answer) bool {
	select {
	case <-q.done:
		return false
	default:
	}
	select {
	case q.ch <- a:
		return true
	case <-q.done:
		return false
	}
}

// ask prints prompt and returns the trimmed answer. EOF on input is io.EOF.
func (q *Prompter) ask(ctx context.Context, prompt string) (string, error) {
	q.one.Do(q.start)
	select {
	case <-q.done:
		return "", io.EOF
	default:
	}
	_, _ = fmt.Fprint(q.p.out, prompt)

	select {
	case <-ctx.Done():
		q.Close()
		return "", ctx.Err()
	case a, ok := <-q.ch:
		if !ok {
			return "", io.EOF
		}
		if a.err != nil {
			return "", fmt.Errorf("read answer: %w", a.err)
		}
		return strings.TrimSpace(a.text), nil
	}
}

// YesNo repeats the question until the answer is "y" or "n".
func (q *Prompter) YesNo(ctx context.Context, prompt string) (bool, error) {
	for {
		a, err := q.ask(ctx, prompt)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(a) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		}
		q.p.Invalid("Invalid input. Please enter 'y' or 'n'.")
	}
}

// CopyOrMove repeats the question until the answer is "c" or "m".
func (q *Prompter) CopyOrMove(ctx context.Context, prompt string) (relocate.Mode, error) {
	for {
		a, err := q.ask(ctx, prompt)
		if err != nil {
			return relocate.Copy, err
		}
		switch strings.ToLower(a) {
		case "c":
			return relocate.Copy, nil
		case "m":
			return relocate.Move, nil
		}
		q.p.Invalid("Invalid input. Please enter 'c' for copy or 'm' for move.")
	}
}

// Directory repeats the question until a non-empty path is given.
func (q *Prompter) Directory(ctx context.Context, prompt string) (string, error) {
	for {
		a, err := q.ask(ctx, prompt)
		if err != nil {
			return "", err
		}
		if a != "" {
			return a, nil
		}
		q.p.Invalid("Invalid input. Directory path cannot be empty.")
	}
}
