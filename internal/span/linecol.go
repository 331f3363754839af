package span

import (
	"fmt"
	"sort"
)

// Position is a zero-based line/character pair. Characters are counted in
// bytes from the start of the line.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Range is a pair of positions, end exclusive.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// LineIndex maps absolute offsets to line/character positions.
type LineIndex struct {
	starts []int // offset of the first byte of every line
	size   int
}

// NewLineIndex records the start offset of every line in source.
func NewLineIndex(source string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts, size: len(source)}
}

// LineCount returns the number of lines, counting a trailing empty line
// after a final newline.
func (x *LineIndex) LineCount() int {
	return len(x.starts)
}

// Position converts an absolute offset. Offsets outside the source are clamped.
func (x *LineIndex) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > x.size {
		offset = x.size
	}
	// greatest line start <= offset
	line := sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > offset }) - 1
	return Position{Line: line, Character: offset - x.starts[line]}
}

// Range converts both ends of s.
func (x *LineIndex) Range(s Span) Range {
	return Range{Start: x.Position(s.Start), End: x.Position(s.End)}
}

// Line returns the span of the given zero-based line without its line
// terminator ("\n" or "\r\n").
func (x *LineIndex) Line(source string, line int) (Span, bool) {
	if line < 0 || line >= len(x.starts) {
		return Span{}, false
	}
	start := x.starts[line]
	end := x.size
	if line+1 < len(x.starts) {
		end = x.starts[line+1] - 1
		if end > start && source[end-1] == '\r' {
			end--
		}
	}
	return Span{Start: start, End: end}, true
}
