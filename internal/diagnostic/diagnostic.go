// Package diagnostic implements the error/warning value type and
// accumulation sink shared by the builder, instantiation engine, and
// checker. A Diagnostic never carries a human-language string directly:
// it carries a severity, a resolved position, a $key-prefixed message
// template, and ordered %1%/%2%/... substitution parameters, so a
// downstream consumer can translate the key without touching the rest of
// the pipeline.
package diagnostic

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tair-project/tair/internal/position"
)

// Severity distinguishes fatal from advisory diagnostics.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}

	return "error"
}

// Kind identifies the error taxonomy entry a Diagnostic belongs to. The
// message template for each kind is fixed by Kind.Template and mirrors
// the wording used by every existing UPPAAL front-end translation table.
type Kind int

const (
	UnknownIdentifier Kind = iota
	HasNoMember
	IsNotAStruct
	DuplicateDefinition
	InvalidType
	NoSuchProcess
	NotATemplate
	NotAProcess
	StrategyNotDeclared
	UnknownDynamicTemplate
	ShadowsAVariable
	CouldNotLoadLibrary
	CouldNotLoadFunction
	TypeMismatch
	BadGuard
	BadInvariant
	BadAssignment
	BadSync
	RestrictionViolation
	CyclicType
	BadPriorityList
	BadQuery
	InconsistentLSC
	BadProbability
)

// templates maps each Kind to its $key-prefixed message template. %1%,
// %2%, ... are positional placeholders filled from Diagnostic.Params.
var templates = map[Kind]string{
	UnknownIdentifier:      "$Unknown_identifier: %1%",
	HasNoMember:            "$has_no_member_named %1%",
	IsNotAStruct:           "%1% $is_not_a_structure",
	DuplicateDefinition:    "$Duplicate_definition_of %1%",
	InvalidType:            "$Invalid_type %1%",
	NoSuchProcess:          "$No_such_process: %1%",
	NotATemplate:           "$Not_a_template: %1%",
	NotAProcess:            "%1% $is_not_a_process",
	StrategyNotDeclared:    "$strategy_not_declared: %1%",
	UnknownDynamicTemplate: "$Unknown_dynamic_template %1%",
	ShadowsAVariable:       "%1% $shadows_a_variable",
	CouldNotLoadLibrary:    "$Could_not_load_library_named %1%",
	CouldNotLoadFunction:   "$Could_not_load_function_named %1%",
	TypeMismatch:           "$Type_mismatch: %1% $vs %2%",
	BadGuard:               "$Bad_guard: %1%",
	BadInvariant:           "$Bad_invariant: %1%",
	BadAssignment:          "$Bad_assignment: %1%",
	BadSync:                "$Bad_synchronisation: %1%",
	RestrictionViolation:   "$Restriction_violation: %1% $depends_on_free_process_parameter %2%",
	CyclicType:             "$Cyclic_type_definition: %1%",
	BadPriorityList:        "$Bad_priority_list: %1%",
	BadQuery:               "$Bad_query: %1%",
	InconsistentLSC:        "$Inconsistent_LSC: %1%",
	BadProbability:         "$Bad_probability: %1%",
}

// DefaultSeverity is the severity a Kind carries unless the caller
// overrides it (only ShadowsAVariable is a warning by default).
func (k Kind) DefaultSeverity() Severity {
	if k == ShadowsAVariable {
		return SeverityWarning
	}

	return SeverityError
}

func (k Kind) template() string {
	if t, ok := templates[k]; ok {
		return t
	}

	return "$Unknown_error"
}

// Diagnostic is a single reported error or warning.
type Diagnostic struct {
	Pos      position.Position
	Context  string
	Params   []string
	Kind     Kind
	Severity Severity
}

// New builds a Diagnostic with the kind's default severity.
func New(kind Kind, pos position.Position, params ...string) Diagnostic {
	return Diagnostic{Kind: kind, Severity: kind.DefaultSeverity(), Pos: pos, Params: params}
}

// Newf is New with a context string attached (e.g. the enclosing
// declaration or expression's source text).
func Newf(kind Kind, pos position.Position, context string, params ...string) Diagnostic {
	d := New(kind, pos, params...)
	d.Context = context

	return d
}

// Message renders the diagnostic's message template with its parameters
// substituted in place of %1%, %2%, and so on. The leading $key is left
// intact for a translator to replace.
func (d Diagnostic) Message() string {
	msg := d.Kind.template()

	for i, p := range d.Params {
		placeholder := "%" + strconv.Itoa(i+1) + "%"
		msg = strings.ReplaceAll(msg, placeholder, p)
	}

	return msg
}

// String renders the diagnostic the way a command-line front-end would:
// `file:line:column: severity: message [context]`.
func (d Diagnostic) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: %s: %s", d.Pos.String(), d.Severity.String(), d.Message())

	if d.Context != "" {
		fmt.Fprintf(&b, " [%s]", d.Context)
	}

	return b.String()
}

// Sink accumulates diagnostics for a single document. It never aborts a
// check pass: every call to Report just appends, and callers decide
// whether to keep going based on the diagnostic's Kind.
type Sink struct {
	items []Diagnostic
}

// Report appends d to the sink.
func (s *Sink) Report(d Diagnostic) {
	s.items = append(s.items, d)
}

// Error is a convenience wrapper around Report(New(kind, ...)).
func (s *Sink) Error(kind Kind, pos position.Position, params ...string) {
	s.Report(New(kind, pos, params...))
}

// Warning is like Error but forces SeverityWarning regardless of the
// kind's default.
func (s *Sink) Warning(kind Kind, pos position.Position, params ...string) {
	d := New(kind, pos, params...)
	d.Severity = SeverityWarning
	s.Report(d)
}

// All returns every accumulated diagnostic in report order.
func (s *Sink) All() []Diagnostic { return s.items }

// Errors returns only SeverityError diagnostics.
func (s *Sink) Errors() []Diagnostic { return s.filter(SeverityError) }

// Warnings returns only SeverityWarning diagnostics.
func (s *Sink) Warnings() []Diagnostic { return s.filter(SeverityWarning) }

func (s *Sink) filter(sev Severity) []Diagnostic {
	var out []Diagnostic

	for _, d := range s.items {
		if d.Severity == sev {
			out = append(out, d)
		}
	}

	return out
}

// HasErrors reports whether any SeverityError diagnostic was reported.
func (s *Sink) HasErrors() bool {
	for _, d := range s.items {
		if d.Severity == SeverityError {
			return true
		}
	}

	return false
}

// HasWarnings reports whether any SeverityWarning diagnostic was reported.
func (s *Sink) HasWarnings() bool {
	for _, d := range s.items {
		if d.Severity == SeverityWarning {
			return true
		}
	}

	return false
}

// Clear discards every accumulated diagnostic.
func (s *Sink) Clear() { s.items = nil }

// ClearErrors discards only the accumulated errors, keeping warnings.
func (s *Sink) ClearErrors() { s.items = s.Warnings() }

// ClearWarnings discards only the accumulated warnings, keeping errors.
func (s *Sink) ClearWarnings() { s.items = s.Errors() }

// Sort orders diagnostics by position, then by severity (errors first).
func (s *Sink) Sort() {
	sort.SliceStable(s.items, func(i, j int) bool {
		a, b := s.items[i], s.items[j]

		if a.Pos.Filename != b.Pos.Filename {
			return a.Pos.Filename < b.Pos.Filename
		}

		if a.Pos.Line != b.Pos.Line {
			return a.Pos.Line < b.Pos.Line
		}

		if a.Pos.Column != b.Pos.Column {
			return a.Pos.Column < b.Pos.Column
		}

		return a.Severity < b.Severity
	})
}

// Format renders every diagnostic, one per line, in report order.
func (s *Sink) Format() string {
	lines := make([]string, len(s.items))
	for i, d := range s.items {
		lines[i] = d.String()
	}

	return strings.Join(lines, "\n")
}
