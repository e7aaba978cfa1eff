// Package position maps byte offsets produced by front-ends into
// (file, line, column) triples for diagnostics.
//
// The library never reads source files itself; front-ends register the
// files they parsed with a Table, and every downstream Position or Span
// carried by an expression, statement, or IR node resolves through it.
package position

import (
	"fmt"
	"sort"
)

// Position is a single point in a source file.
type Position struct {
	Filename string // source file path, as registered with a Table
	Line     int    // 1-based
	Column   int    // 1-based
	Offset   int    // 0-based byte offset within Filename

	// AbsOffset is the absolute offset this position was resolved from, in
	// the same coordinate space as the absOffset argument to Table.Add and
	// Table.Find: a single counter shared across every file a front-end
	// registers with one Table, not reset per file the way Offset is. It
	// is zero for a Position built directly rather than through
	// Table.Find, in which case Before/Union fall back to comparing
	// Filename and Offset instead.
	AbsOffset int
}

// IsValid reports whether p carries usable information.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0 && p.Offset >= 0
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}

	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// Before reports whether p occurs strictly before other. When both
// positions were resolved through the same Table, AbsOffset alone orders
// them correctly even across files, exactly the way Table.Find's binary
// search already relies on absOffset being monotonic; that comparison
// only degrades to Filename-then-Offset for positions with no AbsOffset
// (built by hand rather than looked up).
func (p Position) Before(other Position) bool {
	if p.AbsOffset != 0 || other.AbsOffset != 0 {
		return p.AbsOffset < other.AbsOffset
	}

	if p.Filename != other.Filename {
		return p.Filename < other.Filename
	}

	return p.Offset < other.Offset
}

// Span is a half-open [Start, End) range in one file.
type Span struct {
	Start Position
	End   Position
}

// IsValid reports whether the span is well formed.
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid() &&
		s.Start.Filename == s.End.Filename &&
		s.Start.Offset <= s.End.Offset
}

func (s Span) String() string {
	if !s.IsValid() {
		return "<invalid>"
	}

	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s:%d:%d-%d", s.Start.Filename, s.Start.Line, s.Start.Column, s.End.Column)
	}

	return fmt.Sprintf("%s:%d:%d-%d:%d", s.Start.Filename, s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

// Union returns the smallest span covering both s and other. Spans from
// different files cannot be unioned; s is returned unchanged in that case.
// The endpoint comparisons route through Position.Before, so two spans
// resolved through the same Table order correctly by AbsOffset even when
// Offset alone (reset per file) would not distinguish them.
func (s Span) Union(other Span) Span {
	if !s.IsValid() {
		return other
	}

	if !other.IsValid() {
		return s
	}

	if s.Start.Filename != other.Start.Filename {
		return s
	}

	start := s.Start
	if other.Start.Before(start) {
		start = other.Start
	}

	end := s.End
	if end.Before(other.End) {
		end = other.End
	}

	return Span{Start: start, End: end}
}

// record is one entry of the monotonic offset table: everything from
// startOffset up to (but not including) the next record's startOffset
// belongs to the same (path, fileOffset0, line0) triple.
type record struct {
	path        string
	startOffset uint32
	fileOffset  uint32
	line        uint32
}

// Table maps absolute, front-end-assigned byte offsets to (file, line)
// information. Front-ends append records in increasing startOffset order
// as they consume each file; Find performs a binary search for the
// containing record. This mirrors UTAP's Positions/Document::addPosition
// and Document::findPosition.
type Table struct {
	records []record
}

// NewTable returns an empty position table.
func NewTable() *Table {
	return &Table{}
}

// Add registers a new record. absOffset must be strictly greater than the
// startOffset of every previously added record; front-ends call this once
// per line (or more granularly) as they scan each file.
func (t *Table) Add(absOffset, fileOffset, line uint32, path string) {
	t.records = append(t.records, record{
		path:        path,
		startOffset: absOffset,
		fileOffset:  fileOffset,
		line:        line,
	})
}

// Find returns the Position corresponding to absOffset. If no record has
// been registered at or before absOffset, the zero Position is returned.
func (t *Table) Find(absOffset uint32) Position {
	if len(t.records) == 0 {
		return Position{}
	}

	i := sort.Search(len(t.records), func(i int) bool {
		return t.records[i].startOffset > absOffset
	})
	if i == 0 {
		return Position{}
	}

	r := t.records[i-1]
	delta := absOffset - r.startOffset

	return Position{
		Filename:  r.path,
		Line:      int(r.line),
		Column:    int(delta) + 1,
		Offset:    int(r.fileOffset + delta),
		AbsOffset: int(absOffset),
	}
}

// Len reports the number of records registered so far.
func (t *Table) Len() int { return len(t.records) }
