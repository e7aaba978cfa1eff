package position

import "testing"

func TestTableFindWithinRecord(t *testing.T) {
	tbl := NewTable()
	tbl.Add(0, 0, 1, "model.xta")
	tbl.Add(40, 40, 2, "model.xta")
	tbl.Add(90, 0, 1, "lib.xta")

	got := tbl.Find(45)
	want := Position{Filename: "model.xta", Line: 2, Column: 6, Offset: 45, AbsOffset: 45}

	if got != want {
		t.Fatalf("Find(45) = %+v, want %+v", got, want)
	}
}

// A position resolved from a later file still carries a larger AbsOffset
// than one resolved from an earlier file, since Table.Add's absOffset
// argument runs across the whole table rather than resetting per file.
// Before must use that instead of falling back to comparing Filename
// lexically, which would put "lib.xta" ahead of "model.xta" despite
// lib.xta being registered second.
func TestPositionBeforeOrdersAcrossFilesByAbsOffset(t *testing.T) {
	tbl := NewTable()
	tbl.Add(0, 0, 1, "model.xta")
	tbl.Add(90, 0, 1, "lib.xta")

	inModel := tbl.Find(5)
	inLib := tbl.Find(95)

	if !inModel.Before(inLib) {
		t.Fatalf("expected %+v to be Before %+v", inModel, inLib)
	}

	if inLib.Before(inModel) {
		t.Fatalf("expected %+v not to be Before %+v", inLib, inModel)
	}
}

func TestTableFindBeforeFirstRecord(t *testing.T) {
	tbl := NewTable()
	tbl.Add(10, 0, 1, "model.xta")

	if got := tbl.Find(0); got != (Position{}) {
		t.Fatalf("Find(0) = %+v, want zero value", got)
	}
}

func TestSpanUnion(t *testing.T) {
	a := Span{Start: Position{Filename: "f", Line: 1, Column: 1, Offset: 0}, End: Position{Filename: "f", Line: 1, Column: 5, Offset: 4}}
	b := Span{Start: Position{Filename: "f", Line: 2, Column: 1, Offset: 10}, End: Position{Filename: "f", Line: 2, Column: 3, Offset: 12}}

	u := a.Union(b)
	if u.Start != a.Start || u.End != b.End {
		t.Fatalf("Union = %+v, want start %+v end %+v", u, a.Start, b.End)
	}
}

func TestSpanUnionDifferentFiles(t *testing.T) {
	a := Span{Start: Position{Filename: "a", Line: 1, Column: 1, Offset: 0}, End: Position{Filename: "a", Line: 1, Column: 5, Offset: 4}}
	b := Span{Start: Position{Filename: "b", Line: 1, Column: 1, Offset: 0}, End: Position{Filename: "b", Line: 1, Column: 5, Offset: 4}}

	if got := a.Union(b); got != a {
		t.Fatalf("Union across files = %+v, want unchanged %+v", got, a)
	}
}
