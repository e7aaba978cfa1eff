package types

import "testing"

type constSize int

func (c constSize) String() string { return "3" }

func TestPrefixRejectsInvalidQualifier(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic prefixing urgent onto an int type")
		}
	}()

	New(Int).Prefix(QualUrgent)
}

func TestPrefixAcceptsValidQualifier(t *testing.T) {
	ch := New(Channel).Prefix(QualUrgent).Prefix(QualBroadcast)
	if !ch.HasQualifier(QualUrgent) || !ch.HasQualifier(QualBroadcast) {
		t.Fatalf("expected urgent+broadcast, got %v", ch.Qualifiers())
	}
}

func TestArrayEqualsIgnoresSizeExpr(t *testing.T) {
	a := CreateArray(New(Int), constSize(3))
	b := CreateArray(New(Int), constSize(5))

	if !a.Equals(b, nil) {
		t.Fatal("arrays of same element type should be equal regardless of size expression identity")
	}
}

func TestRecordEqualsChecksFieldOrder(t *testing.T) {
	a := CreateRecord([]Field{{Type: New(Int), Label: "x"}, {Type: New(Bool), Label: "y"}})
	b := CreateRecord([]Field{{Type: New(Bool), Label: "y"}, {Type: New(Int), Label: "x"}})

	if a.Equals(b, nil) {
		t.Fatal("records with fields in different order must not be equal")
	}
}

type stubResolver map[string]*Type

func (s stubResolver) ResolveTypedef(name string) (*Type, bool) {
	t, ok := s[name]

	return t, ok
}

func TestEqualsUnfoldsTypename(t *testing.T) {
	r := stubResolver{"id_t": New(Int)}
	named := CreateTypename("id_t")

	if !named.Equals(New(Int), r) {
		t.Fatal("typename should unfold to its definition for equality")
	}
}

func TestSubstituteRecursesIntoFields(t *testing.T) {
	rec := CreateRecord([]Field{{Type: CreateArray(New(Int), constSize(1)), Label: "buf"}})

	got := rec.Substitute(func(s SizeExpr) SizeExpr { return constSize(9) })
	if got.Fields[0].Type.Size != constSize(9) {
		// constSize always renders "3", so compare the value itself: the
		// field's array size must be the one the callback returned.
		t.Fatalf("expected substituted size expr constSize(9), got %#v", got.Fields[0].Type.Size)
	}
}

func TestFunctionEquals(t *testing.T) {
	f1 := CreateFunction([]*Type{New(Int), New(Bool)}, New(Void))
	f2 := CreateFunction([]*Type{New(Int), New(Bool)}, New(Void))
	f3 := CreateFunction([]*Type{New(Int)}, New(Void))

	if !f1.Equals(f2, nil) {
		t.Fatal("identical function types should be equal")
	}

	if f1.Equals(f3, nil) {
		t.Fatal("function types with different arity must not be equal")
	}
}
