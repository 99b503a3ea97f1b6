package magic

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"
)

// position is a zero-based line and a zero-based column counted in UTF-16
// code units, which is what source map consumers expect.
type position struct {
	line, column int
}

type locator struct {
	text       string
	lineStarts []uint32
}

func newLocator(text string) *locator {
	starts := []uint32{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, uint32(i+1))
		}
	}
	return &locator{text: text, lineStarts: starts}
}

func (l *locator) locate(index uint32) position {
	if int(index) > len(l.text) {
		index = uint32(len(l.text))
	}
	line := sort.Search(len(l.lineStarts), func(i int) bool {
		return l.lineStarts[i] > index
	}) - 1
	return position{line: line, column: utf16Len(l.text[l.lineStarts[line]:index])}
}

func utf16Len(s string) int {
	n := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		n += runeUTF16Len(r)
		s = s[size:]
	}
	return n
}

func runeUTF16Len(r rune) int {
	if utf16.IsSurrogate(r) || r < 0x10000 {
		return 1
	}
	return 2
}
