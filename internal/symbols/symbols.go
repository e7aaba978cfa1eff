// Package symbols implements the named-entity and lexical-scope system:
// an append-only, nominally-identified symbol table with parent-chained
// frames, duplicate-name rejection, and shadow-warning detection.
package symbols

import (
	"errors"
	"fmt"

	"github.com/tair-project/tair/internal/position"
	"github.com/tair-project/tair/internal/types"
)

// ErrDuplicateDefinition is returned by Frame.Add when name is already
// bound locally in the frame.
var ErrDuplicateDefinition = errors.New("symbols: duplicate definition")

// ErrFrameSealed is returned by Frame.Add once the frame has been sealed.
var ErrFrameSealed = errors.New("symbols: frame is sealed")

// Kind identifies what kind of domain object a Symbol denotes.
type Kind int

const (
	KindVariable Kind = iota
	KindFunction
	KindParameter
	KindTemplate
	KindLocation
	KindBranchpoint
	KindInstanceLine
	KindChannel
	KindClock
	KindTypeName
	KindInstance
	KindProcess
)

func (k Kind) String() string {
	names := [...]string{
		"variable", "function", "parameter", "template", "location",
		"branchpoint", "instance-line", "channel", "clock", "type-name",
		"instance", "process",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "unknown"
	}

	return names[k]
}

// ID is a process-lifetime-unique identifier assigned to every Symbol at
// creation. It gives callers a stable, comparable key (for use as a map
// key or in a serialized form) independent of the Go pointer identity of
// the Symbol itself.
type ID uint64

// Symbol is a named entity: a type, a declaring frame, a source position,
// and an opaque back-pointer to the domain object it denotes (a variable,
// function, location, template, ...). Symbol identity is nominal: two
// symbols are equal iff they are the same *Symbol.
type Symbol struct {
	Data  any // back-pointer to the owning domain object; set by that object's constructor
	Type  *types.Type
	Frame *Frame // declaring frame
	Name  string
	Decl  position.Span
	ID    ID
	Kind  Kind
}

var nextID ID = 1

func newID() ID {
	id := nextID
	nextID++

	return id
}

// NewSymbol constructs a symbol not yet bound into any frame. Callers add
// it with Frame.Add.
func NewSymbol(name string, kind Kind, typ *types.Type, decl position.Span) *Symbol {
	return &Symbol{
		ID:   newID(),
		Name: name,
		Kind: kind,
		Type: typ,
		Decl: decl,
	}
}

// Frame is an ordered, append-only set of symbols with an optional parent
// for lexical nesting. Resolution searches the local frame first, then
// walks the parent chain.
type Frame struct {
	Parent  *Frame
	byName  map[string]*Symbol
	symbols []*Symbol
	sealed  bool
}

// NewFrame creates a frame nested under parent (nil for a root frame, such
// as the document's global frame).
func NewFrame(parent *Frame) *Frame {
	return &Frame{
		Parent: parent,
		byName: make(map[string]*Symbol),
	}
}

// Add binds sym into f. It fails with ErrDuplicateDefinition if the name is
// already bound locally (not merely in a parent), and with ErrFrameSealed
// once Seal has been called. shadowed reports whether name resolves to a
// distinct symbol in an ancestor frame — callers (the Builder) turn that
// into a ShadowsAVariable warning; it is never itself an error.
func (f *Frame) Add(sym *Symbol) (shadowed bool, err error) {
	if f.sealed {
		return false, fmt.Errorf("%w: frame cannot accept %q", ErrFrameSealed, sym.Name)
	}

	if _, exists := f.byName[sym.Name]; exists {
		return false, fmt.Errorf("%w: %q", ErrDuplicateDefinition, sym.Name)
	}

	if f.Parent != nil {
		if _, ok := f.Parent.Resolve(sym.Name); ok {
			shadowed = true
		}
	}

	sym.Frame = f
	f.byName[sym.Name] = sym
	f.symbols = append(f.symbols, sym)

	return shadowed, nil
}

// LookupLocal returns the symbol bound to name in f itself, ignoring
// ancestors.
func (f *Frame) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := f.byName[name]

	return sym, ok
}

// Resolve searches f, then f.Parent, and so on, returning the first match.
func (f *Frame) Resolve(name string) (*Symbol, bool) {
	for frame := f; frame != nil; frame = frame.Parent {
		if sym, ok := frame.byName[name]; ok {
			return sym, true
		}
	}

	return nil, false
}

// ResolveTypedef implements types.Resolver by resolving name to a
// KindTypeName symbol's underlying type.
func (f *Frame) ResolveTypedef(name string) (*types.Type, bool) {
	sym, ok := f.Resolve(name)
	if !ok || sym.Kind != KindTypeName {
		return nil, false
	}

	return sym.Type, true
}

// Size returns the number of symbols bound directly in f.
func (f *Frame) Size() int { return len(f.symbols) }

// Symbols returns the symbols bound directly in f, in declaration order.
// The returned slice must not be mutated.
func (f *Frame) Symbols() []*Symbol { return f.symbols }

// Seal closes f to further Add calls. The Builder itself never seals a
// frame.
func (f *Frame) Seal() { f.sealed = true }

// Sealed reports whether Seal has been called.
func (f *Frame) Sealed() bool { return f.sealed }
