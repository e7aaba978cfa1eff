// Package document implements the semantic intermediate representation:
// the Document root, its templates, instances, processes, queries, and
// LSC entities, plus the bookkeeping (interned strings, position table,
// accumulated diagnostics, channel priorities, global flags) a checker
// needs to record cross-cutting facts about a model.
//
// Ownership follows an append-only discipline: once a Location, Edge,
// Template, or similar node is added, its slot in the owning slice never
// moves, so pointers into it (e.g. an Edge's Src/Dst) stay valid for the
// lifetime of the Document. This is the same guarantee the original
// deque-based storage gave through pointer stability; Go slices give it
// through append-only discipline instead; nothing here ever removes an
// element except RemoveProcess, and only before checking has run.
package document

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/tair-project/tair/internal/diagnostic"
	"github.com/tair-project/tair/internal/expr"
	"github.com/tair-project/tair/internal/position"
	"github.com/tair-project/tair/internal/symbols"
)

// SupportedMethods advertises whether the model, as checked so far,
// admits symbolic, stochastic, and concrete semantics. All three default
// to true and are toggled false by constructs that violate a semantics'
// restrictions.
type SupportedMethods struct {
	Symbolic   bool
	Stochastic bool
	Concrete   bool
}

// DefaultSupportedMethods returns the all-true starting point.
func DefaultSupportedMethods() SupportedMethods {
	return SupportedMethods{Symbolic: true, Stochastic: true, Concrete: true}
}

// ChanPriority is one channel-priority declaration: a head expression
// followed by an ordered tail of (separator, expression) pairs. Separator
// is '<' for a strict ordering step and ',' for a tie.
type ChanPriority struct {
	Head *expr.Expression
	Tail []ChanPriorityEntry
}

// ChanPriorityEntry is one (separator, expression) pair in a
// ChanPriority's tail.
type ChanPriorityEntry struct {
	Separator byte
	Expr      *expr.Expression
}

// Document is the root of the semantic IR: global declarations, the
// template library, instances, resolved processes, LSC instances,
// queries, and the cross-cutting flags the checker records while
// visiting the tree.
type Document struct {
	Globals           *Declarations
	Templates         []*Template
	DynamicTemplates  []*Template
	Instances         []*Instance
	LSCInstances      []*Instance
	Processes         []*Instance
	Queries           []*Query
	ChanPriorities    []ChanPriority
	ProcPriority      map[string]int
	ModelOptions      []Option
	BeforeUpdate      *expr.Expression
	AfterUpdate       *expr.Expression
	ObserverTA        string // name of the LSC observer-TA instance
	Location          string

	Positions *position.Table
	Sink      *diagnostic.Sink

	FormatVersion *semver.Version

	supportedMethods SupportedMethods
	strings          []string
	libraries        []any

	hasUrgentTransition                    bool
	hasStrictInvariants                    bool
	stopsClock                             bool
	hasStrictLowerBoundOnControllableEdges bool
	hasGuardOnRecvBroadcast                bool
	syncUsed                               int
	modified                               bool

	chanPriorityOpen bool
}

// New returns an empty Document ready to receive Builder calls.
func New() *Document {
	return &Document{
		Globals:          NewDeclarations(symbols.NewFrame(nil)),
		ProcPriority:     map[string]int{},
		Positions:        position.NewTable(),
		Sink:             &diagnostic.Sink{},
		supportedMethods: DefaultSupportedMethods(),
	}
}

// AddTemplate appends and returns a new static template.
func (d *Document) AddTemplate(name string, params *symbols.Frame, decl position.Span, isTA bool) *Template {
	t := NewTemplate(name, params, decl, isTA)
	d.Templates = append(d.Templates, t)

	return t
}

// AddDynamicTemplate appends and returns a new dynamic template (one that
// may be instantiated at run time rather than only during static
// elaboration).
func (d *Document) AddDynamicTemplate(name string, params *symbols.Frame, decl position.Span) *Template {
	t := NewTemplate(name, params, decl, true)
	t.Dynamic = true
	t.DynamicIndex = len(d.DynamicTemplates)
	d.DynamicTemplates = append(d.DynamicTemplates, t)

	return t
}

// FindTemplate returns the static template named name, or nil.
func (d *Document) FindTemplate(name string) *Template {
	for _, t := range d.Templates {
		if t.Symbol.Name == name {
			return t
		}
	}

	return nil
}

// FindDynamicTemplate returns the dynamic template named name, or nil.
func (d *Document) FindDynamicTemplate(name string) *Template {
	for _, t := range d.DynamicTemplates {
		if t.Symbol.Name == name {
			return t
		}
	}

	return nil
}

// HasDynamicTemplates reports whether any dynamic template was declared.
func (d *Document) HasDynamicTemplates() bool { return len(d.DynamicTemplates) > 0 }

// AddInstance appends inst to the document's instance list.
func (d *Document) AddInstance(inst *Instance) { d.Instances = append(d.Instances, inst) }

// AddLscInstance appends inst to the document's LSC instance list.
func (d *Document) AddLscInstance(inst *Instance) { d.LSCInstances = append(d.LSCInstances, inst) }

// AddProcess registers inst as a fully bound process.
func (d *Document) AddProcess(inst *Instance) { d.Processes = append(d.Processes, inst) }

// RemoveProcess removes inst from the process list. Valid only before
// type checking has run (LSC pre-processing uses it to drop an
// observer-TA placeholder once it has been folded into the model).
func (d *Document) RemoveProcess(inst *Instance) {
	for i, p := range d.Processes {
		if p == inst {
			d.Processes = append(d.Processes[:i], d.Processes[i+1:]...)

			return
		}
	}
}

// AddQuery appends a copy of q.
func (d *Document) AddQuery(q Query) { d.Queries = append(d.Queries, &q) }

// QueriesEmpty reports whether the document has no queries.
func (d *Document) QueriesEmpty() bool { return len(d.Queries) == 0 }

// BeginChanPriority starts a new channel-priority declaration with head
// as its first expression. AddChanPriority appends subsequent entries
// until the next BeginChanPriority call.
func (d *Document) BeginChanPriority(head *expr.Expression) {
	d.ChanPriorities = append(d.ChanPriorities, ChanPriority{Head: head})
	d.chanPriorityOpen = true
}

// AddChanPriority appends (separator, e) to the tail of the
// currently-open channel-priority declaration. It is a caller error to
// call this without a prior BeginChanPriority.
func (d *Document) AddChanPriority(separator byte, e *expr.Expression) {
	if !d.chanPriorityOpen || len(d.ChanPriorities) == 0 {
		panic("document: AddChanPriority called without BeginChanPriority")
	}

	last := &d.ChanPriorities[len(d.ChanPriorities)-1]
	last.Tail = append(last.Tail, ChanPriorityEntry{Separator: separator, Expr: e})
}

// HasPriorityDeclaration reports whether any channel-priority declaration
// was made.
func (d *Document) HasPriorityDeclaration() bool { return len(d.ChanPriorities) > 0 }

// SetProcPriority sets the run-time priority of the process named name.
func (d *Document) SetProcPriority(name string, priority int) { d.ProcPriority[name] = priority }

// GetProcPriority returns the priority of the process named name, or 0 if
// unset.
func (d *Document) GetProcPriority(name string) int { return d.ProcPriority[name] }

// HasStrictInvariants reports whether any location invariant uses a
// strict upper bound.
func (d *Document) HasStrictInvariants() bool { return d.hasStrictInvariants }

// RecordStrictInvariant marks the document as containing a strict
// invariant.
func (d *Document) RecordStrictInvariant() { d.hasStrictInvariants = true }

// HasStopWatch reports whether the document stops any clock (a rate of
// zero on some location).
func (d *Document) HasStopWatch() bool { return d.stopsClock }

// RecordStopWatch marks the document as stopping a clock.
func (d *Document) RecordStopWatch() { d.stopsClock = true }

// HasStrictLowerBoundOnControllableEdges reports whether any controllable
// edge has a strict lower-bound clock guard.
func (d *Document) HasStrictLowerBoundOnControllableEdges() bool {
	return d.hasStrictLowerBoundOnControllableEdges
}

// RecordStrictLowerBoundOnControllableEdges marks the document
// accordingly.
func (d *Document) RecordStrictLowerBoundOnControllableEdges() {
	d.hasStrictLowerBoundOnControllableEdges = true
}

// ClockGuardRecvBroadcast marks the document as having a clock guard on
// the receiving side of a broadcast synchronization.
func (d *Document) ClockGuardRecvBroadcast() { d.hasGuardOnRecvBroadcast = true }

// HasClockGuardRecvBroadcast reports the flag set by
// ClockGuardRecvBroadcast.
func (d *Document) HasClockGuardRecvBroadcast() bool { return d.hasGuardOnRecvBroadcast }

// SetSyncUsed records which synchronization style the checker observed
// (an opaque code interpreted only by the checker itself).
func (d *Document) SetSyncUsed(s int) { d.syncUsed = s }

// GetSyncUsed returns the value set by SetSyncUsed.
func (d *Document) GetSyncUsed() int { return d.syncUsed }

// SetUrgentTransition marks the document as containing an urgent
// transition.
func (d *Document) SetUrgentTransition() { d.hasUrgentTransition = true }

// HasUrgentTransition reports the flag set by SetUrgentTransition.
func (d *Document) HasUrgentTransition() bool { return d.hasUrgentTransition }

// GetStrings returns the interned string table in insertion order.
func (d *Document) GetStrings() []string { return d.strings }

// AddString appends s to the string table unconditionally.
func (d *Document) AddString(s string) { d.strings = append(d.strings, s) }

// AddStringIfNew interns s, returning its index. If s is already present
// its existing index is returned instead of adding a duplicate.
func (d *Document) AddStringIfNew(s string) int {
	for i, existing := range d.strings {
		if existing == s {
			return i
		}
	}

	d.strings = append(d.strings, s)

	return len(d.strings) - 1
}

// AddLibrary registers an opaque library handle (owned by whatever
// front-end loaded it; the document just keeps it alive).
func (d *Document) AddLibrary(lib any) { d.libraries = append(d.libraries, lib) }

// LastLibrary returns the most recently added library handle, or nil.
func (d *Document) LastLibrary() any {
	if len(d.libraries) == 0 {
		return nil
	}

	return d.libraries[len(d.libraries)-1]
}

// AddError appends an error diagnostic at pos.
func (d *Document) AddError(kind diagnostic.Kind, pos position.Position, context string, params ...string) {
	d.Sink.Report(diagnostic.Newf(kind, pos, context, params...))
}

// AddWarning appends a warning diagnostic at pos, overriding the kind's
// default severity if necessary.
func (d *Document) AddWarning(kind diagnostic.Kind, pos position.Position, context string, params ...string) {
	dg := diagnostic.Newf(kind, pos, context, params...)
	dg.Severity = diagnostic.SeverityWarning
	d.Sink.Report(dg)
}

// HasErrors reports whether the document has any accumulated error.
func (d *Document) HasErrors() bool { return d.Sink.HasErrors() }

// HasWarnings reports whether the document has any accumulated warning.
func (d *Document) HasWarnings() bool { return d.Sink.HasWarnings() }

// Errors returns the accumulated error diagnostics.
func (d *Document) Errors() []diagnostic.Diagnostic { return d.Sink.Errors() }

// Warnings returns the accumulated warning diagnostics.
func (d *Document) Warnings() []diagnostic.Diagnostic { return d.Sink.Warnings() }

// ClearErrors discards accumulated errors.
func (d *Document) ClearErrors() { d.Sink.ClearErrors() }

// ClearWarnings discards accumulated warnings.
func (d *Document) ClearWarnings() { d.Sink.ClearWarnings() }

// IsModified reports whether the document has been edited since the last
// SetModified(false) call.
func (d *Document) IsModified() bool { return d.modified }

// SetModified sets the modified flag.
func (d *Document) SetModified(mod bool) { d.modified = mod }

// GetSupportedMethods returns the document's current supported-methods flags.
func (d *Document) GetSupportedMethods() SupportedMethods { return d.supportedMethods }

// SetSupportedMethods overwrites the document's supported-methods flags.
func (d *Document) SetSupportedMethods(m SupportedMethods) { d.supportedMethods = m }

// SetFormatVersion parses raw as a semantic version and stores it as the
// document's format version.
func (d *Document) SetFormatVersion(raw string) error {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("document: invalid format version %q: %w", raw, err)
	}

	d.FormatVersion = v

	return nil
}

// CompatibleWith reports whether the document's format version satisfies
// constraint (a semver constraint expression, e.g. ">= 4.0, < 5.0"). A
// document with no format version set is considered compatible with
// everything, matching the historical absence of a version tag.
func (d *Document) CompatibleWith(constraint string) (bool, error) {
	if d.FormatVersion == nil {
		return true, nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("document: invalid constraint %q: %w", constraint, err)
	}

	return c.Check(d.FormatVersion), nil
}
