// Package types implements the structural type algebra: atomic and
// compound type kinds, qualifier prefixes, and the operations the checker
// and instantiation engine need (construction, structural equality,
// substitution).
//
// Types and expressions are mutually recursive (array sizes and record
// field types are expressions). Rather than import the expr package here
// and create a cycle, a type only holds an opaque SizeExpr reference for
// its size-determining sub-expressions; Type.Substitute takes the
// expression-level substitution as a callback, so the caller, which sees
// concrete expressions, supplies the replacement SizeExprs.
package types

import (
	"fmt"
	"strings"
)

// Kind identifies the shape of a Type node.
type Kind int

const (
	Void Kind = iota
	Clock
	Bool
	Int
	Double
	Channel
	Scalar
	StringKind
	Array
	Record
	Ref
	Function
	Process
	Typename
)

func (k Kind) String() string {
	switch k {
	case Void:
		return "void"
	case Clock:
		return "clock"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Double:
		return "double"
	case Channel:
		return "chan"
	case Scalar:
		return "scalar"
	case StringKind:
		return "string"
	case Array:
		return "array"
	case Record:
		return "record"
	case Ref:
		return "ref"
	case Function:
		return "function"
	case Process:
		return "process"
	case Typename:
		return "typename"
	default:
		return "unknown"
	}
}

// Qualifier is a bitmask of the prefixes a type node may carry.
type Qualifier uint8

const (
	QualConst Qualifier = 1 << iota
	QualUrgent
	QualBroadcast
	QualCommitted
	QualMeta
	QualHybrid
)

var qualifierNames = []struct {
	bit  Qualifier
	name string
}{
	{QualConst, "const"},
	{QualUrgent, "urgent"},
	{QualBroadcast, "broadcast"},
	{QualCommitted, "committed"},
	{QualMeta, "meta"},
	{QualHybrid, "hybrid"},
}

func (q Qualifier) String() string {
	var parts []string

	for _, qn := range qualifierNames {
		if q&qn.bit != 0 {
			parts = append(parts, qn.name)
		}
	}

	return strings.Join(parts, " ")
}

// dataKinds accept the const qualifier; channelKinds accept urgent/broadcast.
func (k Kind) acceptsQualifier(q Qualifier) bool {
	switch q {
	case QualUrgent, QualBroadcast, QualCommitted:
		return k == Channel || k == Process
	case QualConst, QualMeta:
		return k != Void && k != Function && k != Process
	case QualHybrid:
		return k == Clock
	default:
		return false
	}
}

// SizeExpr is the minimal contract a Type needs from an expression used as
// an array size or record-field-size determiner: something printable. The
// expr package's *expr.Expression satisfies this trivially.
type SizeExpr interface {
	String() string
}

// Field is one member of a Record type; order is significant.
type Field struct {
	Type  *Type
	Label string
}

// Type is a node in the structural type tree.
type Type struct {
	Elem   *Type    // Array element / Ref target
	Result *Type    // Function result
	Size   SizeExpr // Array size expression
	Name   string   // Typename reference
	Fields []Field  // Record fields, ordered
	Params []*Type  // Function parameters, ordered
	kind   Kind
	quals  Qualifier
}

// New returns an atomic type of the given kind with no qualifiers.
func New(kind Kind) *Type {
	return &Type{kind: kind}
}

// Kind returns the node's kind.
func (t *Type) Kind() Kind { return t.kind }

// Is reports whether the type (after stripping qualifiers) has the given kind.
func (t *Type) Is(kind Kind) bool { return t.kind == kind }

// Prefix returns a copy of t with q added. Panics if q is not valid on t's
// kind, since that would be a checker bug, not a user error.
func (t *Type) Prefix(q Qualifier) *Type {
	if !t.kind.acceptsQualifier(q) {
		panic(fmt.Sprintf("types: qualifier %q is not valid on kind %q", q, t.kind))
	}

	cp := *t
	cp.quals |= q

	return &cp
}

// HasQualifier reports whether q is set on t.
func (t *Type) HasQualifier(q Qualifier) bool { return t.quals&q != 0 }

// Qualifiers returns the full qualifier bitmask.
func (t *Type) Qualifiers() Qualifier { return t.quals }

// StripPrefix returns a copy of t with all qualifiers removed.
func (t *Type) StripPrefix() *Type {
	cp := *t
	cp.quals = 0

	return &cp
}

// SubCount returns the number of addressable sub-components: field count for
// records, 1 for arrays (the single element type), 0 otherwise.
func (t *Type) SubCount() int {
	switch t.kind {
	case Record:
		return len(t.Fields)
	case Array:
		return 1
	default:
		return 0
	}
}

// Get returns the i-th sub-type: field type for records, element type for
// arrays (any i), parameter type (or the result, at index len(Params)) for
// functions, and the ref target for ref types.
func (t *Type) Get(i int) *Type {
	switch t.kind {
	case Record:
		return t.Fields[i].Type
	case Array:
		return t.Elem
	case Ref:
		return t.Elem
	case Function:
		if i == len(t.Params) {
			return t.Result
		}

		return t.Params[i]
	default:
		return nil
	}
}

// GetLabel returns the field label at index i of a Record type.
func (t *Type) GetLabel(i int) string {
	if t.kind != Record {
		return ""
	}

	return t.Fields[i].Label
}

// CreateArray builds an array type over elem with the given (unevaluated)
// size expression.
func CreateArray(elem *Type, size SizeExpr) *Type {
	return &Type{kind: Array, Elem: elem, Size: size}
}

// CreateRecord builds a record type with the given ordered fields.
func CreateRecord(fields []Field) *Type {
	return &Type{kind: Record, Fields: fields}
}

// CreateFunction builds a function type.
func CreateFunction(params []*Type, result *Type) *Type {
	return &Type{kind: Function, Params: params, Result: result}
}

// CreateRef builds a reference type to target.
func CreateRef(target *Type) *Type {
	return &Type{kind: Ref, Elem: target}
}

// CreateTypename builds an unresolved reference to a user-defined type name.
func CreateTypename(name string) *Type {
	return &Type{kind: Typename, Name: name}
}

// Resolver unfolds a typename into its definition, as a Frame lookup would.
// The checker supplies the real implementation backed by symbols.Frame.
type Resolver interface {
	ResolveTypedef(name string) (*Type, bool)
}

// unfold repeatedly resolves typename nodes until a non-typename kind is
// reached, or the name can't be resolved (in which case t is returned
// unchanged so callers can report UnknownIdentifier themselves).
func unfold(t *Type, r Resolver) *Type {
	seen := map[string]bool{}

	for t != nil && t.kind == Typename {
		if seen[t.Name] {
			return t
		}

		seen[t.Name] = true

		next, ok := r.ResolveTypedef(t.Name)
		if !ok {
			return t
		}

		t = next
	}

	return t
}

// Equals reports structural equality of t and other, unfolding typenames
// lazily via r (which may be nil if neither side is a typename). Qualifiers
// participate in equality; array sizes do not (two arrays of the same
// element type are the same type regardless of the syntactic size
// expression bound to each).
func (t *Type) Equals(other *Type, r Resolver) bool {
	if t == nil || other == nil {
		return t == other
	}

	if r != nil {
		t = unfold(t, r)
		other = unfold(other, r)
	}

	if t.quals != other.quals || t.kind != other.kind {
		return false
	}

	switch t.kind {
	case Array:
		return t.Elem.Equals(other.Elem, r)
	case Ref:
		return t.Elem.Equals(other.Elem, r)
	case Record:
		if len(t.Fields) != len(other.Fields) {
			return false
		}

		for i := range t.Fields {
			if t.Fields[i].Label != other.Fields[i].Label {
				return false
			}

			if !t.Fields[i].Type.Equals(other.Fields[i].Type, r) {
				return false
			}
		}

		return true
	case Function:
		if len(t.Params) != len(other.Params) {
			return false
		}

		for i := range t.Params {
			if !t.Params[i].Equals(other.Params[i], r) {
				return false
			}
		}

		return t.Result.Equals(other.Result, r)
	case Typename:
		return t.Name == other.Name
	default:
		return true
	}
}

// Substitute returns a copy of t with every SizeExpr replaced by
// subst(expr), recursing into element/field/parameter/result types. subst
// may return the same value unchanged when no substitution applies.
func (t *Type) Substitute(subst func(SizeExpr) SizeExpr) *Type {
	if t == nil {
		return nil
	}

	cp := *t

	switch t.kind {
	case Array:
		cp.Elem = t.Elem.Substitute(subst)
		if t.Size != nil {
			cp.Size = subst(t.Size)
		}
	case Ref:
		cp.Elem = t.Elem.Substitute(subst)
	case Record:
		cp.Fields = make([]Field, len(t.Fields))
		for i, f := range t.Fields {
			cp.Fields[i] = Field{Label: f.Label, Type: f.Type.Substitute(subst)}
		}
	case Function:
		cp.Params = make([]*Type, len(t.Params))
		for i, p := range t.Params {
			cp.Params[i] = p.Substitute(subst)
		}

		cp.Result = t.Result.Substitute(subst)
	}

	return &cp
}

// String renders a human-readable rendition of the type, used in
// diagnostics and toString-style debugging.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}

	prefix := t.quals.String()
	if prefix != "" {
		prefix += " "
	}

	switch t.kind {
	case Array:
		if t.Size != nil {
			return fmt.Sprintf("%s%s[%s]", prefix, t.Elem, t.Size)
		}

		return fmt.Sprintf("%s%s[]", prefix, t.Elem)
	case Ref:
		return fmt.Sprintf("%s%s&", prefix, t.Elem)
	case Record:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = fmt.Sprintf("%s %s", f.Type, f.Label)
		}

		return fmt.Sprintf("%sstruct{%s}", prefix, strings.Join(parts, "; "))
	case Function:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}

		return fmt.Sprintf("%s(%s) -> %s", prefix, strings.Join(parts, ", "), t.Result)
	case Typename:
		return prefix + t.Name
	default:
		return prefix + t.kind.String()
	}
}
