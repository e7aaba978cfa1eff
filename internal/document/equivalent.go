package document

import (
	"github.com/Masterminds/semver/v3"

	"github.com/tair-project/tair/internal/expr"
)

// Equivalent reports whether a and b are structurally equal, ignoring
// source positions and each document's own diagnostic sink and position
// table: two documents built from different source text but describing
// the same model compare equal. This backs both the round-trip property
// parse(emit(D)) == D and the idempotent-checking property
// type-check(type-check(D)) == type-check(D). Beyond the timed-automata
// shape, equality covers LSC content (instance lines, messages,
// conditions, updates), branchpoints, channel priorities, model options,
// and query metadata. It does not compare Document.Instances, template
// parameters, Template.Init, a location's Urgent, Committed, CostRate or
// ExponentialRate, an edge's Select, ActionName or branchpoint endpoints,
// variable types, function bodies, or Progress/IODecls/Gantt declarations.
//
// The comparison is written by hand rather than via a single cmp.Equal
// over the whole graph: Symbol.Data back-pointers make the IR cyclic
// (a Function's Symbol points back to a symbol whose Data points to that
// same Function), and cmp does not detect reference cycles. Instead each
// node is compared on its identifying, position-independent fields and
// recurses only along the forward (parent-to-child) edges of the tree.
func Equivalent(a, b *Document) bool {
	if a == nil || b == nil {
		return a == b
	}

	return declarationsEqual(a.Globals, b.Globals) &&
		len(a.Templates) == len(b.Templates) &&
		templatesEqual(a.Templates, b.Templates) &&
		len(a.DynamicTemplates) == len(b.DynamicTemplates) &&
		templatesEqual(a.DynamicTemplates, b.DynamicTemplates) &&
		len(a.Processes) == len(b.Processes) &&
		instancesEqual(a.Processes, b.Processes) &&
		len(a.LSCInstances) == len(b.LSCInstances) &&
		instancesEqual(a.LSCInstances, b.LSCInstances) &&
		len(a.Queries) == len(b.Queries) &&
		queriesEqual(a.Queries, b.Queries) &&
		chanPrioritiesEqual(a.ChanPriorities, b.ChanPriorities) &&
		optionsEqual(a.ModelOptions, b.ModelOptions) &&
		exprEqual(a.BeforeUpdate, b.BeforeUpdate) &&
		exprEqual(a.AfterUpdate, b.AfterUpdate) &&
		a.ObserverTA == b.ObserverTA &&
		formatVersionEqual(a.FormatVersion, b.FormatVersion) &&
		a.GetSupportedMethods() == b.GetSupportedMethods() &&
		a.HasStrictInvariants() == b.HasStrictInvariants() &&
		a.HasStopWatch() == b.HasStopWatch() &&
		a.HasUrgentTransition() == b.HasUrgentTransition() &&
		a.HasStrictLowerBoundOnControllableEdges() == b.HasStrictLowerBoundOnControllableEdges() &&
		a.HasClockGuardRecvBroadcast() == b.HasClockGuardRecvBroadcast()
}

func chanPrioritiesEqual(a, b []ChanPriority) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !exprEqual(a[i].Head, b[i].Head) || len(a[i].Tail) != len(b[i].Tail) {
			return false
		}

		for j := range a[i].Tail {
			if a[i].Tail[j].Separator != b[i].Tail[j].Separator || !exprEqual(a[i].Tail[j].Expr, b[i].Tail[j].Expr) {
				return false
			}
		}
	}

	return true
}

func optionsEqual(a, b []Option) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func formatVersionEqual(a, b *semver.Version) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.Equal(b)
}

func exprEqual(a, b *expr.Expression) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.String() == b.String()
}

func declarationsEqual(a, b *Declarations) bool {
	if a == nil || b == nil {
		return a == b
	}

	if len(a.Variables) != len(b.Variables) || len(a.Functions) != len(b.Functions) {
		return false
	}

	for i := range a.Variables {
		if a.Variables[i].Symbol.Name != b.Variables[i].Symbol.Name {
			return false
		}

		if !exprEqual(a.Variables[i].Init, b.Variables[i].Init) {
			return false
		}
	}

	for i := range a.Functions {
		if a.Functions[i].Symbol.Name != b.Functions[i].Symbol.Name {
			return false
		}
	}

	return true
}

func templatesEqual(a, b []*Template) bool {
	for i := range a {
		if !templateEqual(a[i], b[i]) {
			return false
		}
	}

	return true
}

func templateEqual(a, b *Template) bool {
	if a.Symbol.Name != b.Symbol.Name || a.IsTA != b.IsTA {
		return false
	}

	if a.Type != b.Type || a.Mode != b.Mode || a.Dynamic != b.Dynamic || a.HasPrechart != b.HasPrechart {
		return false
	}

	if len(a.Locations) != len(b.Locations) || len(a.Edges) != len(b.Edges) || len(a.Branchpoints) != len(b.Branchpoints) {
		return false
	}

	if len(a.InstanceLines) != len(b.InstanceLines) || len(a.Messages) != len(b.Messages) ||
		len(a.Conditions) != len(b.Conditions) || len(a.Updates) != len(b.Updates) {
		return false
	}

	for i := range a.Locations {
		if a.Locations[i].Symbol.Name != b.Locations[i].Symbol.Name {
			return false
		}

		if !exprEqual(a.Locations[i].Invariant, b.Locations[i].Invariant) {
			return false
		}
	}

	for i := range a.Branchpoints {
		if !branchpointEqual(a.Branchpoints[i], b.Branchpoints[i]) {
			return false
		}
	}

	for i := range a.Edges {
		if !edgeEqual(a.Edges[i], b.Edges[i]) {
			return false
		}
	}

	for i := range a.InstanceLines {
		if instanceLineName(a.InstanceLines[i]) != instanceLineName(b.InstanceLines[i]) {
			return false
		}
	}

	for i := range a.Messages {
		if !messageEqual(a.Messages[i], b.Messages[i]) {
			return false
		}
	}

	for i := range a.Conditions {
		if !conditionEqual(a.Conditions[i], b.Conditions[i]) {
			return false
		}
	}

	for i := range a.Updates {
		if !updateEqual(a.Updates[i], b.Updates[i]) {
			return false
		}
	}

	return declarationsEqual(a.Declarations, b.Declarations)
}

func edgeEqual(a, b *Edge) bool {
	if len(a.SelectValues) != len(b.SelectValues) {
		return false
	}

	for i := range a.SelectValues {
		if a.SelectValues[i] != b.SelectValues[i] {
			return false
		}
	}

	return locationName(a.Src) == locationName(b.Src) &&
		locationName(a.Dst) == locationName(b.Dst) &&
		a.Control == b.Control &&
		exprEqual(a.Guard, b.Guard) &&
		exprEqual(a.Sync, b.Sync) &&
		exprEqual(a.Assign, b.Assign) &&
		exprEqual(a.Prob, b.Prob)
}

func locationName(l *Location) string {
	if l == nil {
		return ""
	}

	return l.Symbol.Name
}

func branchpointEqual(a, b *Branchpoint) bool {
	return a.Symbol.Name == b.Symbol.Name && a.Index == b.Index
}

func instanceLineName(il *InstanceLine) string {
	if il == nil {
		return ""
	}

	return il.Symbol.Name
}

func messageEqual(a, b *Message) bool {
	return instanceLineName(a.Src) == instanceLineName(b.Src) &&
		instanceLineName(a.Dst) == instanceLineName(b.Dst) &&
		exprEqual(a.Label, b.Label) &&
		a.Location == b.Location &&
		a.InPrechart == b.InPrechart
}

func conditionEqual(a, b *Condition) bool {
	if len(a.Anchors) != len(b.Anchors) {
		return false
	}

	for i := range a.Anchors {
		if instanceLineName(a.Anchors[i]) != instanceLineName(b.Anchors[i]) {
			return false
		}
	}

	return exprEqual(a.Label, b.Label) &&
		a.Location == b.Location &&
		a.InPrechart == b.InPrechart &&
		a.IsHot == b.IsHot
}

func updateEqual(a, b *Update) bool {
	return instanceLineName(a.Anchor) == instanceLineName(b.Anchor) &&
		exprEqual(a.Label, b.Label) &&
		a.Location == b.Location &&
		a.InPrechart == b.InPrechart
}

func instancesEqual(a, b []*Instance) bool {
	for i := range a {
		if a[i].Symbol.Name != b[i].Symbol.Name {
			return false
		}

		if a[i].Unbound != b[i].Unbound || a[i].Arguments != b[i].Arguments {
			return false
		}
	}

	return true
}

func queriesEqual(a, b []*Query) bool {
	for i := range a {
		if a[i].Formula != b[i].Formula || a[i].Comment != b[i].Comment || a[i].Location != b[i].Location {
			return false
		}

		if !optionsEqual(a[i].Options, b[i].Options) {
			return false
		}

		if !expectationEqual(a[i].Expectation, b[i].Expectation) {
			return false
		}
	}

	return true
}

func expectationEqual(a, b Expectation) bool {
	if a.Kind != b.Kind || a.Status != b.Status || a.Value != b.Value || len(a.Resources) != len(b.Resources) {
		return false
	}

	for i := range a.Resources {
		if a.Resources[i] != b.Resources[i] {
			return false
		}
	}

	return true
}
