package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"buble/internal/diag"
	"buble/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeHeader(w, pal, &d, fs, opts)
		if fs != nil && fs.Len() > 0 && d.Primary.File < source.FileID(fs.Len()) {
			writeFrame(w, pal, d.Primary, fs, opts)
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s\n", pal.note.Sprint("note:"), n.Msg)
			if !n.Span.Empty() && fs != nil && n.Span.File < source.FileID(fs.Len()) {
				writeFrame(w, pal, n.Span, fs, PrettyOpts{Width: opts.Width})
			}
		}
	}
}

func writeHeader(w io.Writer, pal palette, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	loc := ""
	if fs != nil && d.Primary.File < source.FileID(fs.Len()) {
		f := fs.Get(d.Primary.File)
		start, _ := fs.Resolve(d.Primary)
		loc = fmt.Sprintf("%s:%d:%d: ", formatPath(opts.PathMode, f.FormatPath, fs.BaseDir()), start.Line, start.Col)
	}
	fmt.Fprintf(w, "%s%s %s: %s\n",
		loc,
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		pal.code.Sprint(d.Code.ID()),
		d.Message)
}

// writeFrame печатает строки вокруг span и подчёркивание под первой строкой.
func writeFrame(w io.Writer, pal palette, span source.Span, fs *source.FileSet, opts PrettyOpts) {
	f := fs.Get(span.File)
	start, end := fs.Resolve(span)

	first := start.Line
	if ctx := uint32(max(opts.Context, 0)); first > ctx {
		first -= ctx
	} else {
		first = 1
	}
	gutterWidth := len(fmt.Sprint(start.Line))

	for ln := first; ln <= start.Line; ln++ {
		text := expandTabs(f.GetLine(ln))
		if opts.Width > 0 {
			text = runewidth.Truncate(text, int(opts.Width), "…")
		}
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, ln), text)
	}

	line := f.GetLine(start.Line)
	col := int(start.Col) - 1
	if col > len(line) {
		col = len(line)
	}
	stop := len(line)
	if end.Line == start.Line {
		stop = min(int(end.Col)-1, len(line))
	}
	pad := runewidth.StringWidth(expandTabs(line[:col]))
	width := max(runewidth.StringWidth(expandTabs(line[col:max(stop, col)])), 1)

	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s %s%s\n",
		pal.gutter.Sprint(strings.Repeat(" ", gutterWidth)+" |"),
		strings.Repeat(" ", pad),
		pal.caret.Sprint(marker))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "  ")
}
