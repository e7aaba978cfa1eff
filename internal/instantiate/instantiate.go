// Package instantiate implements template instantiation: binding a
// template's parameters to argument expressions, tracking which
// parameters are "restricted" because their value transitively
// determines an array size, and validating that every restricted
// parameter's bound argument does not depend on a still-free process
// parameter.
package instantiate

import (
	"errors"
	"fmt"

	"github.com/tair-project/tair/internal/diagnostic"
	"github.com/tair-project/tair/internal/document"
	"github.com/tair-project/tair/internal/expr"
	"github.com/tair-project/tair/internal/position"
	"github.com/tair-project/tair/internal/symbols"
	"github.com/tair-project/tair/internal/types"
)

// ErrTooManyArguments is returned when more arguments are given than the
// template has parameters.
var ErrTooManyArguments = errors.New("instantiate: too many arguments")

// ErrRestrictionViolation is returned when a restricted parameter is
// bound to an expression depending on a free process parameter.
var ErrRestrictionViolation = errors.New("instantiate: restriction violation")

// Context supplies the caller's currently-free process parameters: the
// set of symbols that are themselves unbound parameters of an enclosing,
// not-yet-fully-instantiated process. An empty Context is correct when
// instantiating directly from the top-level system declaration.
type Context struct {
	FreeProcessParams map[*symbols.Symbol]bool
}

// New runs the six-step instantiation algorithm against templ, binding
// args (in order) to its leading parameters, and returns the resulting
// (possibly still partial) Instance.
func New(doc *document.Document, templ *document.Template, name string, args []*expr.Expression, ctx Context, decl position.Span) (*document.Instance, error) {
	total := templ.Parameters.Size()
	if len(args) > total {
		return nil, fmt.Errorf("%w: %s takes %d parameters, got %d", ErrTooManyArguments, name, total, len(args))
	}

	inst := document.NewInstance(name, templ, decl)
	inst.Parameters = symbols.NewFrame(nil)

	byOldSymbol := map[*symbols.Symbol]*symbols.Symbol{}
	oldParams := templ.Parameters.Symbols()

	for _, old := range oldParams {
		fresh := symbols.NewSymbol(old.Name, old.Kind, old.Type, old.Decl)
		if _, err := inst.Parameters.Add(fresh); err != nil {
			return nil, fmt.Errorf("instantiate: copying parameter %q: %w", old.Name, err)
		}

		byOldSymbol[old] = fresh
	}

	inst.Arguments = len(args)
	inst.Unbound = total - len(args)

	for i, arg := range args {
		freshParam := byOldSymbol[oldParams[i]]
		inst.Mapping[freshParam] = arg
	}

	restrictedOld := restrictedClosure(templ)

	for old, fresh := range byOldSymbol {
		if restrictedOld[old] {
			inst.Restricted[fresh] = true
		}
	}

	if err := validateRestrictions(doc, inst, ctx, decl); err != nil {
		return nil, err
	}

	if inst.Unbound == 0 {
		doc.AddProcess(inst)
	}

	return inst, nil
}

// restrictedClosure computes the transitive closure over templ's own
// parameter symbols: a parameter is restricted iff its value, directly or
// through a chain of local variable initializers, determines the size
// expression of some array type declared within templ, including an
// array-typed local declared inside one of templ's own functions, not
// just templ's top-level variables.
func restrictedClosure(templ *document.Template) map[*symbols.Symbol]bool {
	restricted := map[*symbols.Symbol]bool{}

	collect := func(t *types.Type) {
		for _, size := range arraySizeExprs(t) {
			if e, ok := size.(*expr.Expression); ok {
				for _, sym := range expr.FreeSymbols(e) {
					restricted[sym] = true
				}
			}
		}
	}

	var locals []*document.Variable

	locals = append(locals, templ.Variables...)

	for _, fn := range templ.Functions {
		locals = append(locals, fn.Locals...)
	}

	for _, p := range templ.Parameters.Symbols() {
		collect(p.Type)
	}

	for _, v := range locals {
		collect(v.Symbol.Type)
	}

	changed := true
	for changed {
		changed = false

		for _, v := range locals {
			if !restricted[v.Symbol] || v.Init == nil {
				continue
			}

			for _, dep := range expr.FreeSymbols(v.Init) {
				if !restricted[dep] {
					restricted[dep] = true
					changed = true
				}
			}
		}
	}

	return restricted
}

// arraySizeExprs recursively collects every non-nil SizeExpr reachable
// from t through array elements, record fields, and function parameters
// and results.
func arraySizeExprs(t *types.Type) []types.SizeExpr {
	if t == nil {
		return nil
	}

	var out []types.SizeExpr

	switch t.Kind() {
	case types.Array:
		if t.Size != nil {
			out = append(out, t.Size)
		}

		out = append(out, arraySizeExprs(t.Elem)...)
	case types.Record:
		for i := 0; i < t.SubCount(); i++ {
			out = append(out, arraySizeExprs(t.Get(i))...)
		}
	case types.Function:
		for i := 0; i < len(t.Params); i++ {
			out = append(out, arraySizeExprs(t.Params[i])...)
		}

		out = append(out, arraySizeExprs(t.Result)...)
	case types.Ref:
		out = append(out, arraySizeExprs(t.Elem)...)
	}

	return out
}

// validateRestrictions checks, for every restricted parameter that has
// been bound by this instantiation, that its argument depends on no
// symbol in ctx.FreeProcessParams.
func validateRestrictions(doc *document.Document, inst *document.Instance, ctx Context, decl position.Span) error {
	for param, isRestricted := range inst.Restricted {
		if !isRestricted {
			continue
		}

		arg, bound := inst.Mapping[param]
		if !bound {
			continue
		}

		for _, dep := range expr.FreeSymbols(arg) {
			if ctx.FreeProcessParams[dep] {
				doc.AddError(diagnostic.RestrictionViolation, decl.Start, arg.String(), param.Name, dep.Name)

				return fmt.Errorf("%w: %s depends on free process parameter %s", ErrRestrictionViolation, param.Name, dep.Name)
			}
		}
	}

	return nil
}
