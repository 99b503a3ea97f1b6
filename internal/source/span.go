package source

import (
	"fmt"
)

// Span is a byte range of one file's normalised text. Diagnostics point
// at a node's span; the transform never edits outside the spans the
// parser produced.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

// NewSpan returns the range [start, end) of file.
func NewSpan(file FileID, start, end uint32) Span {
	if end < start {
		start, end = end, start
	}
	return Span{File: file, Start: start, End: end}
}

// FileSpan is an empty span at the top of file, for failures that belong to
// a file as a whole: an edit conflict, an unreadable input.
func FileSpan(file FileID) Span {
	return Span{File: file}
}

func (s Span) Empty() bool { return s.Start == s.End }

func (s Span) Len() uint32 {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Contains reports whether off lies inside [Start, End).
func (s Span) Contains(off uint32) bool {
	return off >= s.Start && off < s.End
}

// Cover widens s to include other. Spans of different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	s.Start = min(s.Start, other.Start)
	s.End = max(s.End, other.End)
	return s
}
