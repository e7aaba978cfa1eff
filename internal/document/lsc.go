package document

import "github.com/tair-project/tair/internal/expr"

// Message is an LSC message between two instance lines, anchored at a
// vertical position (Location, the "y" coordinate along the lifelines).
type Message struct {
	Src        *InstanceLine
	Dst        *InstanceLine
	Label      *expr.Expression
	Number     int
	Location   int
	InPrechart bool
}

// Condition is an LSC condition anchored on one or more instance lines.
type Condition struct {
	Label      *expr.Expression
	Anchors    []*InstanceLine
	Number     int
	Location   int
	InPrechart bool
	IsHot      bool
}

// Update is an LSC update (a state-changing action) anchored on one
// instance line.
type Update struct {
	Anchor     *InstanceLine
	Label      *expr.Expression
	Number     int
	Location   int
	InPrechart bool
}

// Simregion is one row of the LSC partial order: it holds at most one
// Message, at most one Condition, and at most one Update, each nil when
// absent, resolving the "always allocated but possibly empty" ambiguity of
// the original design (see SPEC_FULL.md §14) by making absence explicit
// instead of allocating an empty placeholder.
type Simregion struct {
	Message   *Message
	Condition *Condition
	Update    *Update
	Number    int
}

// Loc returns the vertical position shared by whichever of
// Message/Condition/Update is present, or -1 if all three are nil.
func (s Simregion) Loc() int {
	switch {
	case s.Message != nil:
		return s.Message.Location
	case s.Condition != nil:
		return s.Condition.Location
	case s.Update != nil:
		return s.Update.Location
	default:
		return -1
	}
}

// IsInPrechart reports whether the simregion's occupant belongs to the
// prechart.
func (s Simregion) IsInPrechart() bool {
	switch {
	case s.Message != nil:
		return s.Message.InPrechart
	case s.Condition != nil:
		return s.Condition.InPrechart
	case s.Update != nil:
		return s.Update.InPrechart
	default:
		return false
	}
}

// IsEmpty reports whether none of Message/Condition/Update is set, which
// is only possible as a transient construction state.
func (s Simregion) IsEmpty() bool {
	return s.Message == nil && s.Condition == nil && s.Update == nil
}

// Cut is an unordered set of simregions representing one antichain in the
// partial order derived from instance-line position and y-coordinate.
type Cut struct {
	Simregions []Simregion
	Number     int
}

// NewCut returns an empty Cut numbered nr.
func NewCut(nr int) *Cut {
	return &Cut{Number: nr}
}

// Add appends s to the cut.
func (c *Cut) Add(s Simregion) {
	c.Simregions = append(c.Simregions, s)
}

// Contains reports whether s (compared by identity of its non-nil member)
// already belongs to the cut.
func (c *Cut) Contains(s Simregion) bool {
	for _, existing := range c.Simregions {
		if simregionEquals(existing, s) {
			return true
		}
	}

	return false
}

// Erase removes the first simregion equal to s from the cut.
func (c *Cut) Erase(s Simregion) {
	for i, existing := range c.Simregions {
		if simregionEquals(existing, s) {
			c.Simregions = append(c.Simregions[:i], c.Simregions[i+1:]...)

			return
		}
	}
}

func simregionEquals(a, b Simregion) bool {
	return a.Message == b.Message && a.Condition == b.Condition && a.Update == b.Update
}

// IsInPrechart reports whether the cut lies entirely within the prechart:
// true iff every simregion it holds is in the prechart. An empty cut is
// vacuously in the prechart.
func (c *Cut) IsInPrechart() bool {
	for _, s := range c.Simregions {
		if !s.IsInPrechart() {
			return false
		}
	}

	return true
}

// Equals reports whether c and other contain the same set of simregions,
// ignoring order.
func (c *Cut) Equals(other *Cut) bool {
	if len(c.Simregions) != len(other.Simregions) {
		return false
	}

	for _, s := range c.Simregions {
		if !other.Contains(s) {
			return false
		}
	}

	return true
}
