// Package console owns everything the user sees: banner, coloured status
// lines and the interactive questions.
package console

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

const banner = `
 __       _ _ _  _____                     _
/ _\_ __ | (_) |/__   \__ _ _ __ __ _  ___| |_ ___
\ \| '_ \| | | __|/ /\/ _` + "`" + ` | '__/ _` + "`" + ` |/ _ \ __/ __|
_\ \ |_) | | | |_/ / | (_| | | | (_| |  __/ |_\__ \
\__/ .__/|_|_|\__\/   \__,_|_|  \__, |\___|\__|___/
   |_|                          |___/
`

// Printer writes tagged, coloured status lines. It implements split.Reporter.
type Printer struct {
	out io.Writer

	green  *color.Color
	yellow *color.Color
	red    *color.Color
	cyan   *color.Color
}

// NewPrinter writes to out. With noColor set, no escape codes are emitted
// whatever the terminal supports.
func NewPrinter(out io.Writer, noColor bool) *Printer {
	p := &Printer{
		out:    out,
		green:  color.New(color.FgHiGreen),
		yellow: color.New(color.FgHiYellow),
		red:    color.New(color.FgHiRed),
		cyan:   color.New(color.FgHiCyan),
	}
	if noColor {
		for _, c := range []*color.Color{p.green, p.yellow, p.red, p.cyan} {
			c.DisableColor()
		}
	}
	return p
}

func (p *Printer) Banner() {
	_, _ = p.cyan.Fprint(p.out, banner+"\n")
}

func (p *Printer) line(c *color.Color, tag, format string, a ...any) {
	_, _ = fmt.Fprintf(p.out, "%s %s\n", c.Sprint(tag), fmt.Sprintf(format, a...))
}

// Success: [+] in green.
func (p *Printer) Success(format string, a ...any) { p.line(p.green, "[+]", format, a...) }

// Info: [i] in green.
func (p *Printer) Info(format string, a ...any) { p.line(p.green, "[i]", format, a...) }

// Notice: [i] in yellow.
func (p *Printer) Notice(format string, a ...any) { p.line(p.yellow, "[i]", format, a...) }

// Warn: [!] in yellow.
func (p *Printer) Warn(format string, a ...any) { p.line(p.yellow, "[!]", format, a...) }

// Error: [!] in red.
func (p *Printer) Error(format string, a ...any) { p.line(p.red, "[!]", format, a...) }

// Invalid prints a whole line in red, used for rejected answers.
func (p *Printer) Invalid(msg string) {
	_, _ = p.red.Fprintln(p.out, msg)
}

func (p *Printer) ChunkWritten(path string, written, known int) {
	p.Success("Appended %s new unique lines to %s (%s total)",
		humanize.Comma(int64(written)), path, humanize.Comma(int64(known)))
}

func (p *Printer) DryRun(valid, chunks int) {
	p.Notice("Dry run complete: %s valid lines would be split into %s files.",
		humanize.Comma(int64(valid)), humanize.Comma(int64(chunks)))
}

func (p *Printer) Done(valid int) {
	p.line(p.green, "[✓]", "Done! %s valid URLs processed.", humanize.Comma(int64(valid)))
}
