package diag

import (
	"fmt"
	"strconv"
	"strings"

	"buble/internal/source"
)

// CompileError is the fatal error returned by the compiler. It carries the
// diagnostic record together with the location and the rendered source frame.
type CompileError struct {
	Diagnostic
	Path    string
	Loc     source.Loc
	Snippet string
}

// NewCompileError locates primary inside file and renders the snippet.
// A nil file produces an error without location.
func NewCompileError(file *source.File, code Code, primary source.Span, msg string) *CompileError {
	err := &CompileError{Diagnostic: NewError(code, primary, msg)}
	if file == nil {
		return err
	}
	err.Path = file.Path
	err.Loc = file.Locate(primary.Start)
	length := int(primary.Len())
	if length == 0 {
		length = 1
	}
	err.Snippet = Snippet(string(file.Content), err.Loc, length)
	return err
}

// Error returns the message followed by the (line:column) position.
func (e *CompileError) Error() string {
	if e.Snippet == "" && e.Loc.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (%d:%d)", e.Message, e.Loc.Line, e.Loc.Column)
}

// Format renders the error the way the command line prints it.
func (e *CompileError) Format() string {
	if e.Snippet == "" {
		return "CompileError: " + e.Error()
	}
	return "CompileError: " + e.Error() + "\n" + e.Snippet
}

// Snippet renders up to five lines ending at loc.Line, each prefixed with its
// line number, followed by a caret line underlining length characters.
// Tabs are expanded to two spaces.
func Snippet(content string, loc source.Loc, length int) string {
	if length < 1 {
		length = 1
	}
	first := max(int(loc.Line)-5, 0)
	last := int(loc.Line)

	numDigits := len(strconv.Itoa(last))

	all := strings.Split(content, "\n")
	if last > len(all) {
		last = len(all)
	}
	if first > last {
		first = last
	}
	lines := all[first:last]
	if len(lines) == 0 {
		return strings.Repeat("^", length)
	}

	lastLine := lines[len(lines)-1]
	col := min(int(loc.Column), len(lastLine))
	offset := len(strings.ReplaceAll(lastLine[:col], "\t", "  "))

	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		num := strconv.Itoa(i + first + 1)
		sb.WriteString(num)
		sb.WriteString(strings.Repeat(" ", numDigits-len(num)))
		sb.WriteString(" : ")
		sb.WriteString(strings.ReplaceAll(line, "\t", "  "))
	}
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat(" ", numDigits+3+offset))
	sb.WriteString(strings.Repeat("^", length))
	return sb.String()
}
