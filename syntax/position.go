package syntax

import "fmt"

// Position represents a line/column position in source text
// Uses LSP conventions: 1-based line numbers, 0-based character offsets
type Position struct {
	Line      int `json:"line"`      // 1-based line number
	Character int `json:"character"` // 0-based character offset within line
	Offset    int `json:"offset"`    // 0-based byte offset in entire source
}

// String formats the position as line:column with a 1-based column, the way compilers print it
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character+1)
}

// positionTracker maintains line/column/offset state during tokenization
type positionTracker struct {
	source    string
	line      int // 1-based
	character int // 0-based within line
	offset    int // 0-based in source
}

func newPositionTracker(source string) *positionTracker {
	return &positionTracker{source: source, line: 1}
}

// advanceTo moves the tracker forward to byte offset target
func (pt *positionTracker) advanceTo(target int) {
	for pt.offset < target && pt.offset < len(pt.source) {
		if pt.source[pt.offset] == '\n' {
			pt.line++
			pt.character = 0
		} else if pt.source[pt.offset]&0xC0 != 0x80 {
			// Count runes, not UTF-8 continuation bytes
			pt.character++
		}
		pt.offset++
	}
}

// at returns the position of byte offset target, which must not precede the tracker
func (pt *positionTracker) at(target int) Position {
	pt.advanceTo(target)
	return Position{Line: pt.line, Character: pt.character, Offset: pt.offset}
}
