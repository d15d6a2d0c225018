// Package codeframe maps source offsets to lines and columns, and renders source excerpts
// with markers for diagnostics.
package codeframe

import (
	"fmt"
	"sort"
	"unicode/utf16"
	"unicode/utf8"
)

// span is a sequence of UTF-8 characters with the same size in bytes.
type span struct {
	// byteOff >= firstUTF16 >= firstRune
	firstRune  int
	firstUTF16 int
	byteOff    int

	size8  int // in bytes
	size16 int // in UTF-16 code units (2 = surrogate pair)

	runes int
}

// Index maps between byte offsets, line/column pairs and UTF-16 offsets of a source file.
type Index struct {
	lines []int // offset of each line start
	spans []span
	size  int
}

// NewIndex creates an index for the code. UTF-16 and rune conversions are only available
// if unicode is set.
func NewIndex(code string, unicode bool) *Index {
	idx := &Index{size: len(code), lines: []int{0}}
	if !unicode {
		for i := 0; i < len(code); i++ {
			if code[i] == '\n' {
				idx.lines = append(idx.lines, i+1)
			}
		}
		return idx
	}
	cur := span{size8: 1, size16: 1}
	runes, units := 0, 0
	for i := 0; i < len(code); {
		r, n := utf8.DecodeRuneInString(code[i:])
		if r == '\n' {
			idx.lines = append(idx.lines, i+1)
		}
		w16 := 1
		if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError || r2 != utf8.RuneError {
			w16 = 2
		}
		if n != cur.size8 || w16 != cur.size16 {
			if cur.runes != 0 {
				idx.spans = append(idx.spans, cur)
			}
			cur = span{byteOff: i, firstRune: runes, firstUTF16: units, size8: n, size16: w16}
		}
		cur.runes++
		runes++
		units += w16
		i += n
	}
	if cur.runes != 0 {
		idx.spans = append(idx.spans, cur)
	}
	return idx
}

// Lines returns the number of lines in the code.
func (idx *Index) Lines() int {
	return len(idx.lines)
}

// LineStart returns the byte offset of the start of a one-based line.
func (idx *Index) LineStart(line int) int {
	return idx.lines[line-1]
}

// LineEnd returns the byte offset of the end of a one-based line, excluding the line break.
func (idx *Index) LineEnd(line int) int {
	if line == len(idx.lines) {
		return idx.size
	}
	return idx.lines[line] - 1
}

// LineCol returns a one-based line and a zero-based column given a zero-based byte offset.
func (idx *Index) LineCol(offset int) (int, int, error) {
	if offset < 0 || offset > idx.size {
		return 0, 0, fmt.Errorf("offset out of bounds: %d [%d, %d]", offset, 0, idx.size)
	}
	line := sort.Search(len(idx.lines), func(i int) bool {
		return offset < idx.lines[i]
	})
	return line, offset - idx.lines[line-1], nil
}

// Offset returns a zero-based byte offset given a one-based line and a zero-based column.
func (idx *Index) Offset(line, col int) (int, error) {
	if line < 1 || line > len(idx.lines) {
		return -1, fmt.Errorf("line out of bounds: %d [%d, %d]", line, 1, len(idx.lines))
	}
	start := idx.LineStart(line)
	if max := idx.LineEnd(line) - start; col < 0 || col > max {
		return -1, fmt.Errorf("column out of bounds: %d [%d, %d]", col, 0, max)
	}
	return start + col, nil
}

// UTF16Offset returns a zero-based byte offset given a zero-based UTF-16 code unit offset,
// as used by JavaScript strings.
func (idx *Index) UTF16Offset(offset int) (int, error) {
	var last int
	if len(idx.spans) != 0 {
		s := idx.spans[len(idx.spans)-1]
		last = s.firstUTF16 + s.runes*s.size16
	}
	if offset < 0 || offset > last {
		return -1, fmt.Errorf("code unit out of bounds: %d [%d, %d]", offset, 0, last)
	} else if offset == last {
		return idx.size, nil
	}
	i := sort.Search(len(idx.spans), func(i int) bool {
		return offset < idx.spans[i].firstUTF16
	})
	s := idx.spans[i-1]
	return s.byteOff + s.size8*((offset-s.firstUTF16)/s.size16), nil
}

// RuneOffset returns a zero-based byte offset given a zero-based Unicode character offset.
func (idx *Index) RuneOffset(offset int) (int, error) {
	var last int
	if len(idx.spans) != 0 {
		s := idx.spans[len(idx.spans)-1]
		last = s.firstRune + s.runes
	}
	if offset < 0 || offset > last {
		return -1, fmt.Errorf("rune out of bounds: %d [%d, %d]", offset, 0, last)
	} else if offset == last {
		return idx.size, nil
	}
	i := sort.Search(len(idx.spans), func(i int) bool {
		return offset < idx.spans[i].firstRune
	})
	s := idx.spans[i-1]
	return s.byteOff + s.size8*(offset-s.firstRune), nil
}
