package codeframe

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Options for rendering a code frame.
type Options struct {
	// LinesAbove and LinesBelow set the number of context lines around the marked region.
	LinesAbove int
	LinesBelow int
	// Color enables terminal colors.
	Color bool
}

// DefaultOptions are used when rendering frames without explicit options.
var DefaultOptions = Options{LinesAbove: 2, LinesBelow: 3}

var (
	gutterColor  = color.New(color.Faint)
	markerColor  = color.New(color.FgRed, color.Bold)
	messageColor = color.New(color.FgRed)
)

func paint(c *color.Color, enabled bool, s string) string {
	if !enabled || s == "" {
		return s
	}
	c.EnableColor()
	return c.Sprint(s)
}

// Build renders lines of the code around the byte range [start, end), marking the range
// with carets and printing the message next to them:
//
//	  1 | const a = 1;
//	> 2 | foo(bar);
//	    |     ^^^ message
//	  3 | baz();
func Build(code string, start, end int, message string, opts Options) (string, error) {
	idx := NewIndex(code, false)
	sline, scol, err := idx.LineCol(start)
	if err != nil {
		return "", err
	}
	if end < start {
		end = start
	}
	eline, ecol, err := idx.LineCol(end)
	if err != nil {
		return "", err
	}
	first := sline - opts.LinesAbove
	if first < 1 {
		first = 1
	}
	last := eline + opts.LinesBelow
	if last > idx.Lines() {
		last = idx.Lines()
	}
	width := len(strconv.Itoa(last))

	var buf strings.Builder
	for line := first; line <= last; line++ {
		text := code[idx.LineStart(line):idx.LineEnd(line)]
		text = strings.TrimSuffix(text, "\r")
		marked := line >= sline && line <= eline
		prefix := "  "
		if marked {
			prefix = paint(markerColor, opts.Color, ">") + " "
		}
		gutter := fmt.Sprintf("%*d |", width, line)
		if text != "" {
			gutter += " "
		}
		buf.WriteString(prefix + paint(gutterColor, opts.Color, gutter) + text + "\n")
		if !marked {
			continue
		}
		from, to := 0, len(text)
		if line == sline {
			from = scol
		}
		if line == eline {
			to = ecol
		}
		if from > len(text) {
			from = len(text)
		}
		if to > len(text) {
			to = len(text)
		}
		n := to - from
		if n < 1 {
			n = 1
		}
		marker := strings.Repeat(" ", from) + paint(markerColor, opts.Color, strings.Repeat("^", n))
		if line == eline && message != "" {
			marker += " " + paint(messageColor, opts.Color, message)
		}
		buf.WriteString("  " + paint(gutterColor, opts.Color, fmt.Sprintf("%*s |", width, "")) + " " + marker + "\n")
	}
	return buf.String(), nil
}

// Simple renders a one-line description of a position, in the form "[Type:line:col] message".
func Simple(typ string, line, col int, message string) string {
	return fmt.Sprintf("[%s:%d:%d] %s", typ, line, col, message)
}
