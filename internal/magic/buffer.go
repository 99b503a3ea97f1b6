// Package magic implements an editable view over a source text. Edits are
// expressed against offsets of the original text, so several independent
// rewrites can be applied without tracking how earlier edits shifted the
// output. The buffer can also produce a source map of the result.
package magic

import (
	"fmt"
	"strings"
)

// Error is raised (via panic) when an edit is inconsistent with the edits
// already applied, for example overwriting a range that crosses a region
// which was moved or removed earlier.
type Error struct {
	Op  string
	Msg string
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Msg
}

func fail(op, format string, args ...any) {
	panic(&Error{Op: op, Msg: fmt.Sprintf(format, args...)})
}

// OverwriteOptions tunes Overwrite.
type OverwriteOptions struct {
	// StoreName records the replaced original text in the source map names.
	StoreName bool
	// ContentOnly keeps text previously inserted around the range.
	ContentOnly bool
}

// Buffer tracks edits against an original text.
type Buffer struct {
	original string
	intro    string
	outro    string

	firstChunk        *chunk
	lastChunk         *chunk
	lastSearchedChunk *chunk
	byStart           map[uint32]*chunk
	byEnd             map[uint32]*chunk

	storedNames   []string
	storedNameSet map[string]struct{}

	sourcemapLocations map[uint32]struct{}
	indentStr          string
	indentKnown        bool

	locator *locator
}

// New creates a buffer over original.
func New(original string) *Buffer {
	n := uint32(len(original))
	c := newChunk(0, n, original)
	b := &Buffer{
		original:           original,
		firstChunk:         c,
		lastChunk:          c,
		lastSearchedChunk:  c,
		byStart:            map[uint32]*chunk{0: c},
		byEnd:              map[uint32]*chunk{n: c},
		storedNameSet:      make(map[string]struct{}),
		sourcemapLocations: make(map[uint32]struct{}),
	}
	b.indentStr, b.indentKnown = guessIndent(original)
	return b
}

// Original returns the unmodified text.
func (b *Buffer) Original() string { return b.original }

// Len returns the length of the original text in bytes.
func (b *Buffer) Len() uint32 { return uint32(len(b.original)) }

// AddSourcemapLocation marks index as a point that always gets a mapping
// segment, even in low resolution maps.
func (b *Buffer) AddSourcemapLocation(index uint32) {
	b.sourcemapLocations[index] = struct{}{}
}

// IndentString returns the indentation unit guessed from the original
// text, or a tab when the text has no indented lines.
func (b *Buffer) IndentString() string {
	if !b.indentKnown {
		return "\t"
	}
	return b.indentStr
}

// AppendLeft inserts content at index. The content moves with the chunk
// ending at index.
func (b *Buffer) AppendLeft(index uint32, content string) {
	b.split(index)
	if c := b.byEnd[index]; c != nil {
		c.appendLeft(content)
	} else {
		b.intro += content
	}
}

// PrependLeft is AppendLeft, but the content goes before earlier insertions.
func (b *Buffer) PrependLeft(index uint32, content string) {
	b.split(index)
	if c := b.byEnd[index]; c != nil {
		c.prependLeft(content)
	} else {
		b.intro = content + b.intro
	}
}

// AppendRight inserts content at index. The content moves with the chunk
// starting at index.
func (b *Buffer) AppendRight(index uint32, content string) {
	b.split(index)
	if c := b.byStart[index]; c != nil {
		c.appendRight(content)
	} else {
		b.outro += content
	}
}

// PrependRight is AppendRight, but the content goes before earlier insertions.
func (b *Buffer) PrependRight(index uint32, content string) {
	b.split(index)
	if c := b.byStart[index]; c != nil {
		c.prependRight(content)
	} else {
		b.outro = content + b.outro
	}
}

// Move relocates the original range [start, end) to index.
func (b *Buffer) Move(start, end, index uint32) {
	if index >= start && index <= end {
		fail("move", "cannot move a selection inside itself")
	}

	b.split(start)
	b.split(end)
	b.split(index)

	first := b.byStart[start]
	last := b.byEnd[end]
	if first == nil || last == nil {
		fail("move", "range %d-%d is out of bounds", start, end)
	}

	oldLeft := first.previous
	oldRight := last.next

	newRight := b.byStart[index]
	if newRight == nil && last == b.lastChunk {
		return
	}
	var newLeft *chunk
	if newRight != nil {
		newLeft = newRight.previous
	} else {
		newLeft = b.lastChunk
	}

	if oldLeft != nil {
		oldLeft.next = oldRight
	}
	if oldRight != nil {
		oldRight.previous = oldLeft
	}
	if newLeft != nil {
		newLeft.next = first
	}
	if newRight != nil {
		newRight.previous = last
	}

	if first.previous == nil {
		b.firstChunk = last.next
	}
	if last.next == nil {
		b.lastChunk = first.previous
		b.lastChunk.next = nil
	}

	first.previous = newLeft
	last.next = newRight

	if newLeft == nil {
		b.firstChunk = first
	}
	if newRight == nil {
		b.lastChunk = last
	}
}

// Overwrite replaces the original range [start, end) with content.
func (b *Buffer) Overwrite(start, end uint32, content string) {
	b.OverwriteWith(start, end, content, OverwriteOptions{})
}

// OverwriteWith is Overwrite with options.
func (b *Buffer) OverwriteWith(start, end uint32, content string, opts OverwriteOptions) {
	if end > b.Len() {
		fail("overwrite", "end is out of bounds")
	}
	if start == end {
		fail("overwrite", "cannot overwrite a zero-length range, use AppendLeft or PrependRight instead")
	}

	b.split(start)
	b.split(end)

	if opts.StoreName {
		name := b.original[start:end]
		if _, ok := b.storedNameSet[name]; !ok {
			b.storedNameSet[name] = struct{}{}
			b.storedNames = append(b.storedNames, name)
		}
	}

	first := b.byStart[start]
	last := b.byEnd[end]

	if first == nil {
		// вставка в самый конец
		c := newChunk(start, end, "")
		c.edit(content, opts.StoreName, false)
		if last != nil {
			last.next = c
			c.previous = last
		}
		return
	}

	if end > first.end && first.next != b.byStart[first.end] {
		fail("overwrite", "cannot overwrite across a split point")
	}

	first.edit(content, opts.StoreName, opts.ContentOnly)
	if first != last {
		for c := first.next; c != nil; c = c.next {
			c.edit("", false, false)
			if c == last {
				break
			}
		}
	}
}

// Remove deletes the original range [start, end) along with anything
// inserted inside it.
func (b *Buffer) Remove(start, end uint32) {
	if start == end {
		return
	}
	if end > b.Len() {
		fail("remove", "character is out of bounds")
	}
	if start > end {
		fail("remove", "end must be greater than start")
	}

	b.split(start)
	b.split(end)

	for c := b.byStart[start]; c != nil; {
		c.intro = ""
		c.outro = ""
		c.edit("", false, false)
		if end > c.end {
			c = b.byStart[c.end]
		} else {
			c = nil
		}
	}
}

// Slice returns the edited content corresponding to the original range
// [start, end).
func (b *Buffer) Slice(start, end uint32) string {
	var sb strings.Builder

	c := b.firstChunk
	for c != nil && (c.start > start || c.end <= start) {
		if c.start < end && c.end >= end {
			return sb.String()
		}
		c = c.next
	}

	if c != nil && c.edited && c.start != start {
		fail("slice", "cannot use replaced character %d as slice start anchor", start)
	}

	startChunk := c
	for c != nil {
		if c.intro != "" && (startChunk != c || c.start == start) {
			sb.WriteString(c.intro)
		}

		containsEnd := c.start < end && c.end >= end
		if containsEnd && c.edited && c.end != end {
			fail("slice", "cannot use replaced character %d as slice end anchor", end)
		}

		lo := 0
		if startChunk == c {
			lo = int(start) - int(c.start)
		}
		hi := len(c.content)
		if containsEnd {
			hi = len(c.content) + int(end) - int(c.end)
		}
		sb.WriteString(clampSlice(c.content, lo, hi))

		if c.outro != "" && (!containsEnd || c.end == end) {
			sb.WriteString(c.outro)
		}
		if containsEnd {
			break
		}
		c = c.next
	}
	return sb.String()
}

// SliceFrom returns the edited content from start to the end of the text.
func (b *Buffer) SliceFrom(start uint32) string {
	return b.Slice(start, b.Len())
}

func (b *Buffer) String() string {
	var sb strings.Builder
	sb.WriteString(b.intro)
	for c := b.firstChunk; c != nil; c = c.next {
		sb.WriteString(c.String())
	}
	sb.WriteString(b.outro)
	return sb.String()
}

func (b *Buffer) split(index uint32) {
	if b.byStart[index] != nil || b.byEnd[index] != nil {
		return
	}
	c := b.lastSearchedChunk
	forward := index > c.end
	for c != nil {
		if c.contains(index) {
			b.splitChunk(c, index)
			return
		}
		if forward {
			c = b.byStart[c.end]
		} else {
			c = b.byEnd[c.start]
		}
	}
}

func (b *Buffer) splitChunk(c *chunk, index uint32) {
	if c.edited && c.content != "" {
		loc := b.locate(index)
		fail("split", "cannot split a chunk that has already been edited (%d:%d %q)", loc.line+1, loc.column, c.original)
	}
	right := c.split(index)
	b.byEnd[index] = c
	b.byStart[index] = right
	b.byEnd[right.end] = right
	if c == b.lastChunk {
		b.lastChunk = right
	}
	b.lastSearchedChunk = c
}

func (b *Buffer) locate(index uint32) position {
	if b.locator == nil {
		b.locator = newLocator(b.original)
	}
	return b.locator.locate(index)
}

func clampSlice(s string, lo, hi int) string {
	if lo < 0 {
		lo = 0
	}
	if hi > len(s) {
		hi = len(s)
	}
	if lo >= hi {
		return ""
	}
	return s[lo:hi]
}

func guessIndent(code string) (string, bool) {
	tabbed, spaced := 0, 0
	minSpaces := -1
	for _, line := range strings.Split(code, "\n") {
		switch {
		case strings.HasPrefix(line, "\t"):
			tabbed++
		case strings.HasPrefix(line, "  "):
			spaced++
			n := len(line) - len(strings.TrimLeft(line, " "))
			if minSpaces < 0 || n < minSpaces {
				minSpaces = n
			}
		}
	}
	if tabbed == 0 && spaced == 0 {
		return "", false
	}
	if tabbed >= spaced {
		return "\t", true
	}
	return strings.Repeat(" ", minSpaces), true
}
