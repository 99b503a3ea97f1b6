package magic

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// MapOptions controls GenerateMap.
type MapOptions struct {
	// File is the name of the generated file.
	File string
	// Source is the name of the original file. Relative to File's directory
	// in the emitted map.
	Source string
	// IncludeContent embeds the original text in sourcesContent.
	IncludeContent bool
	// Hires emits a segment for every character rather than one per line
	// and per marked location.
	Hires bool
}

// SourceMap is a version 3 source map.
type SourceMap struct {
	Version        int       `json:"version"`
	File           string    `json:"file,omitempty"`
	Sources        []*string `json:"sources"`
	SourcesContent []*string `json:"sourcesContent"`
	Names          []string  `json:"names"`
	Mappings       string    `json:"mappings"`
}

// String renders the map as JSON.
func (m *SourceMap) String() string {
	data, err := json.Marshal(m)
	if err != nil {
		// все поля сериализуемы
		panic(err)
	}
	return string(data)
}

// ToURL renders the map as a base64 data URL suitable for an inline
// sourceMappingURL comment.
func (m *SourceMap) ToURL() string {
	return "data:application/json;charset=utf-8;base64," + base64.StdEncoding.EncodeToString([]byte(m.String()))
}

// GenerateMap builds a source map describing how the current output
// relates to the original text.
func (b *Buffer) GenerateMap(opts MapOptions) *SourceMap {
	names := append([]string(nil), b.storedNames...)
	nameIndex := make(map[string]int, len(names))
	for i, n := range names {
		nameIndex[n] = i
	}

	mp := newMappings(opts.Hires)
	loc := b.locate

	mp.advance(b.intro)
	for c := b.firstChunk; c != nil; c = c.next {
		pos := loc(c.start)
		mp.advance(c.intro)
		if c.edited {
			idx := -1
			if c.storeName {
				if i, ok := nameIndex[c.original]; ok {
					idx = i
				}
			}
			mp.addEdit(c.content, pos, idx)
		} else {
			mp.addUneditedChunk(c, b.original, pos, b.sourcemapLocations)
		}
		mp.advance(c.outro)
	}

	sm := &SourceMap{
		Version:  3,
		File:     lastPathElem(opts.File),
		Names:    names,
		Mappings: mp.encode(),
	}
	if opts.Source != "" {
		src := relativePath(opts.File, opts.Source)
		sm.Sources = []*string{&src}
	} else {
		sm.Sources = []*string{nil}
	}
	if opts.IncludeContent {
		content := b.original
		sm.SourcesContent = []*string{&content}
	} else {
		sm.SourcesContent = []*string{nil}
	}
	if sm.Names == nil {
		sm.Names = []string{}
	}
	return sm
}

// segment is [generatedColumn, sourceIndex, sourceLine, sourceColumn, name?]
// with name == -1 meaning no name.
type segment struct {
	genColumn int
	srcLine   int
	srcColumn int
	name      int
}

type mappings struct {
	hires     bool
	genColumn int
	lines     [][]segment
}

func newMappings(hires bool) *mappings {
	return &mappings{hires: hires, lines: [][]segment{nil}}
}

func (m *mappings) push(s segment) {
	last := len(m.lines) - 1
	m.lines[last] = append(m.lines[last], s)
}

func (m *mappings) newline() {
	m.lines = append(m.lines, nil)
	m.genColumn = 0
}

func (m *mappings) addEdit(content string, pos position, name int) {
	if content != "" {
		m.push(segment{genColumn: m.genColumn, srcLine: pos.line, srcColumn: pos.column, name: name})
	}
	m.advance(content)
}

func (m *mappings) addUneditedChunk(c *chunk, original string, pos position, marks map[uint32]struct{}) {
	first := true
	i := c.start
	for i < c.end {
		if m.hires || first {
			m.push(segment{genColumn: m.genColumn, srcLine: pos.line, srcColumn: pos.column, name: -1})
		} else if _, ok := marks[i]; ok {
			m.push(segment{genColumn: m.genColumn, srcLine: pos.line, srcColumn: pos.column, name: -1})
		}

		r, size := utf8.DecodeRuneInString(original[i:])
		if r == '\n' {
			pos.line++
			pos.column = 0
			m.newline()
			first = true
		} else {
			w := runeUTF16Len(r)
			pos.column += w
			m.genColumn += w
			first = false
		}
		i += uint32(size)
	}
}

func (m *mappings) advance(s string) {
	if s == "" {
		return
	}
	parts := strings.Split(s, "\n")
	for range parts[:len(parts)-1] {
		m.newline()
	}
	m.genColumn += utf16Len(parts[len(parts)-1])
}

func (m *mappings) encode() string {
	var sb strings.Builder
	prevSrcLine, prevSrcColumn, prevName := 0, 0, 0
	for li, line := range m.lines {
		if li > 0 {
			sb.WriteByte(';')
		}
		prevGen := 0
		for si, s := range line {
			if si > 0 {
				sb.WriteByte(',')
			}
			writeVLQ(&sb, s.genColumn-prevGen)
			prevGen = s.genColumn
			// единственный источник
			writeVLQ(&sb, 0)
			writeVLQ(&sb, s.srcLine-prevSrcLine)
			prevSrcLine = s.srcLine
			writeVLQ(&sb, s.srcColumn-prevSrcColumn)
			prevSrcColumn = s.srcColumn
			if s.name >= 0 {
				writeVLQ(&sb, s.name-prevName)
				prevName = s.name
			}
		}
	}
	return sb.String()
}

const base64Digits = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

func writeVLQ(sb *strings.Builder, value int) {
	v := value << 1
	if value < 0 {
		v = (-value << 1) | 1
	}
	for {
		digit := v & 31
		v >>= 5
		if v > 0 {
			digit |= 32
		}
		sb.WriteByte(base64Digits[digit])
		if v == 0 {
			return
		}
	}
}

func splitPath(p string) []string {
	return strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' })
}

func lastPathElem(p string) string {
	parts := splitPath(p)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// relativePath returns the path of to relative to the directory of from.
func relativePath(from, to string) string {
	fromParts := splitPath(from)
	toParts := splitPath(to)
	if len(fromParts) > 0 {
		fromParts = fromParts[:len(fromParts)-1]
	}
	for len(fromParts) > 0 && len(toParts) > 0 && fromParts[0] == toParts[0] {
		fromParts = fromParts[1:]
		toParts = toParts[1:]
	}
	out := make([]string, 0, len(fromParts)+len(toParts))
	for range fromParts {
		out = append(out, "..")
	}
	out = append(out, toParts...)
	return strings.Join(out, "/")
}
