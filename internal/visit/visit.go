// Package visit implements a document-wide Visitor with a fixed traversal
// order (globals, then each static template, then each instance, process,
// and query), following the same capability-set / BaseVisitor idiom
// package stmt uses for statement trees and the teacher's
// internal/ast/visitor.go uses for its AST.
//
// Document itself never imports this package: Walk is a free function
// taking a *document.Document, not a Document.Accept method, so the IR
// stays free of a dependency on its own traversal machinery.
package visit

import "github.com/tair-project/tair/internal/document"

// Visitor receives one callback per document member kind. VisitTemplate is
// called before a static template's own locations/edges/functions are
// walked; returning false skips that template's body (but not templates
// that follow it).
type Visitor interface {
	VisitDeclarations(*document.Declarations)
	VisitTemplate(*document.Template) bool
	VisitLocation(*document.Template, *document.Location)
	VisitBranchpoint(*document.Template, *document.Branchpoint)
	VisitEdge(*document.Template, *document.Edge)
	VisitFunction(*document.Declarations, *document.Function)
	VisitInstanceLine(*document.Template, *document.InstanceLine)
	VisitMessage(*document.Template, *document.Message)
	VisitCondition(*document.Template, *document.Condition)
	VisitUpdate(*document.Template, *document.Update)
	VisitInstance(*document.Instance)
	VisitProcess(*document.Instance)
	VisitQuery(*document.Query)
}

// BaseVisitor implements Visitor with no-op defaults; VisitTemplate
// returns true so embedding types walk every template's body unless they
// override it.
type BaseVisitor struct{}

func (BaseVisitor) VisitDeclarations(*document.Declarations)                    {}
func (BaseVisitor) VisitTemplate(*document.Template) bool                       { return true }
func (BaseVisitor) VisitLocation(*document.Template, *document.Location)        {}
func (BaseVisitor) VisitBranchpoint(*document.Template, *document.Branchpoint)  {}
func (BaseVisitor) VisitEdge(*document.Template, *document.Edge)                {}
func (BaseVisitor) VisitFunction(*document.Declarations, *document.Function)    {}
func (BaseVisitor) VisitInstanceLine(*document.Template, *document.InstanceLine) {}
func (BaseVisitor) VisitMessage(*document.Template, *document.Message)          {}
func (BaseVisitor) VisitCondition(*document.Template, *document.Condition)      {}
func (BaseVisitor) VisitUpdate(*document.Template, *document.Update)            {}
func (BaseVisitor) VisitInstance(*document.Instance)                            {}
func (BaseVisitor) VisitProcess(*document.Instance)                             {}
func (BaseVisitor) VisitQuery(*document.Query)                                  {}

// Walk visits doc's members in a fixed order: globals, static templates
// (each with its own locations, branchpoints, edges, functions, and, for
// LSC templates, instance lines/messages/conditions/updates), dynamic
// templates, instances, processes, then queries. Dynamic templates and
// instances used only as LSC instances are walked the same way as static
// ones so a checker never has to special-case them.
func Walk(doc *document.Document, v Visitor) {
	walkDeclarations(doc.Globals, v)

	walkTemplates(doc.Templates, v)
	walkTemplates(doc.DynamicTemplates, v)

	for _, inst := range doc.Instances {
		v.VisitInstance(inst)
	}

	for _, inst := range doc.LSCInstances {
		v.VisitInstance(inst)
	}

	for _, proc := range doc.Processes {
		v.VisitProcess(proc)
	}

	for _, q := range doc.Queries {
		v.VisitQuery(q)
	}
}

func walkTemplates(templates []*document.Template, v Visitor) {
	for _, t := range templates {
		if !v.VisitTemplate(t) {
			continue
		}

		walkDeclarations(t.Declarations, v)

		for _, loc := range t.Locations {
			v.VisitLocation(t, loc)
		}

		for _, bp := range t.Branchpoints {
			v.VisitBranchpoint(t, bp)
		}

		for _, e := range t.Edges {
			v.VisitEdge(t, e)
		}

		for _, il := range t.InstanceLines {
			v.VisitInstanceLine(t, il)
		}

		for _, m := range t.Messages {
			v.VisitMessage(t, m)
		}

		for _, c := range t.Conditions {
			v.VisitCondition(t, c)
		}

		for _, u := range t.Updates {
			v.VisitUpdate(t, u)
		}
	}
}

func walkDeclarations(d *document.Declarations, v Visitor) {
	v.VisitDeclarations(d)

	for _, fn := range d.Functions {
		v.VisitFunction(d, fn)
	}
}
