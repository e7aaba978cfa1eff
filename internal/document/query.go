package document

// ExpectationKind classifies the kind of value a query's expectation
// carries.
type ExpectationKind int

const (
	ExpectationSymbolic ExpectationKind = iota
	ExpectationProbability
	ExpectationNumericValue
	ExpectationError
)

// QueryStatus is the resolved truth value of a checked query.
type QueryStatus int

const (
	StatusTrue QueryStatus = iota
	StatusFalse
	StatusMaybeTrue
	StatusMaybeFalse
	StatusUnknown
)

// ResourceKind distinguishes what a Resource measures.
type ResourceKind int

const (
	ResourceTime ResourceKind = iota
	ResourceMemory
)

// Resource is one named, optionally-unit-tagged resource measurement
// recorded against a query (used by the `--track-resources` option).
type Resource struct {
	Name  string
	Value string
	Unit  string // empty when absent
	Kind  ResourceKind
}

// Option is a `name=value` model or query option, preserved verbatim for
// backend pass-through.
type Option struct {
	Name  string
	Value string
}

// Expectation is the expected/observed outcome of a query.
type Expectation struct {
	Kind      ExpectationKind
	Status    QueryStatus
	Value     string
	Resources []Resource
}

// Query is one query formula alongside its options and expectation. The
// formula is stored as raw text: it is parsed with the same grammar as
// ordinary expressions but in a query sub-dialect the checker applies
// separately, so Document itself keeps only the source text plus
// resolved metadata.
type Query struct {
	Formula     string
	Comment     string
	Location    string
	Options     []Option
	Expectation Expectation
}
