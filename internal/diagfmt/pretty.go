package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"

	"upvalcheck/internal/diag"
	"upvalcheck/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note, gutter, caret, bold *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgGreen),
		gutter: color.New(color.FgBlue, color.Bold),
		caret:  color.New(color.FgMagenta, color.Bold),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.gutter, p.caret, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty writes diagnostics with a source excerpt and a caret under the
// primary span:
//
//	warning[UCC3001]: Usage of upvalue "x" ...
//	  --> test.luau:3:33
//	   |
//	 3 |   local function inner() return x end
//	   |                                 ^
//	   = note: "x" is declared here (test.luau:2:9)
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := prettyOne(w, p, d, fs, opts); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, p palette, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) error {
	var sb strings.Builder
	label := strings.ToLower(d.Severity.String())
	sb.WriteString(p.severity(d.Severity).Sprintf("%s[%s]", label, d.Code.ID()))
	sb.WriteString(p.bold.Sprint(": " + d.Message))
	sb.WriteByte('\n')

	f, ok := fs.Lookup(d.Primary.File)
	if !ok {
		_, err := io.WriteString(w, sb.String())
		return err
	}
	start, end := fs.Resolve(d.Primary)
	path := norm.NFC.String(displayPath(fs, d.Primary.File, opts.PathMode))
	gutterWidth := len(strconv.FormatUint(uint64(end.Line), 10))
	pad := strings.Repeat(" ", gutterWidth)

	fmt.Fprintf(&sb, "%s%s %s:%d:%d\n", pad, p.gutter.Sprint("-->"), path, start.Line, start.Col)
	fmt.Fprintf(&sb, "%s %s\n", pad, p.gutter.Sprint("|"))

	first := start.Line
	if opts.Context > 0 {
		if uint32(opts.Context) >= first {
			first = 1
		} else {
			first -= uint32(opts.Context)
		}
	}
	for line := first; line <= start.Line; line++ {
		text := displayLine(f.GetLine(line), opts.Width)
		fmt.Fprintf(&sb, "%*d %s %s\n", gutterWidth, line, p.gutter.Sprint("|"), text)
	}

	lineText := f.GetLine(start.Line)
	lead, width := caretColumns(lineText, start, end)
	fmt.Fprintf(&sb, "%s %s %s%s\n", pad, p.gutter.Sprint("|"),
		strings.Repeat(" ", lead), p.caret.Sprint(strings.Repeat("^", width)))

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(&sb, "%s %s %s %s (%s)\n", pad, p.gutter.Sprint("="),
				p.note.Sprint("note:"), n.Msg, prettyPos(fs, n.Span, opts.PathMode))
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func prettyPos(fs *source.FileSet, sp source.Span, mode PathMode) string {
	if _, ok := fs.Lookup(sp.File); !ok {
		return source.StdinName
	}
	lc := fs.Position(sp)
	return fmt.Sprintf("%s:%d:%d", displayPath(fs, sp.File, mode), lc.Line, lc.Col)
}

// displayLine expands tabs and truncates to width display columns.
func displayLine(line string, width int) string {
	line = norm.NFC.String(strings.ReplaceAll(line, "\t", strings.Repeat(" ", tabWidth)))
	if width > 0 && runewidth.StringWidth(line) > width {
		return runewidth.Truncate(line, width, "...")
	}
	return line
}

// caretColumns returns the display offset of the span start on its line and
// the width of the underline. Spans running past the line are cut at its end.
func caretColumns(line string, start, end source.LineCol) (lead, width int) {
	startByte := min(int(start.Col)-1, len(line))
	endByte := len(line)
	if end.Line == start.Line {
		endByte = min(int(end.Col)-1, len(line))
	}
	if endByte < startByte {
		endByte = startByte
	}
	lead = columnWidth(line[:startByte])
	width = columnWidth(line[startByte:endByte])
	if width == 0 {
		width = 1
	}
	return lead, width
}

func columnWidth(s string) int {
	s = strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
	return runewidth.StringWidth(norm.NFC.String(s))
}
