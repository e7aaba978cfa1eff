// Command tair-lint wires a small embedded fixture into a Document through
// package builder, runs it through package checker, and prints the
// resulting diagnostics. It stands in for the tokenizer/grammar front-end
// this library treats as an external collaborator: real front-ends drive
// package builder the same way, just from parsed source instead of a
// fixed, in-process model.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/tair-project/tair/internal/builder"
	"github.com/tair-project/tair/internal/checker"
	"github.com/tair-project/tair/internal/diagnostic"
	"github.com/tair-project/tair/internal/document"
	"github.com/tair-project/tair/internal/expr"
	"github.com/tair-project/tair/internal/instantiate"
	"github.com/tair-project/tair/internal/position"
	"github.com/tair-project/tair/internal/symbols"
	"github.com/tair-project/tair/internal/types"
)

func main() {
	var (
		jsonOutput bool
		fixture    string
	)

	flag.BoolVar(&jsonOutput, "json", false, "print diagnostics and model flags as JSON")
	flag.StringVar(&fixture, "fixture", "light-controller", "embedded fixture to check: light-controller")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Builds an embedded model and reports its diagnostics.\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	doc, err := buildFixture(fixture)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tair-lint: %v\n", err)
		os.Exit(2)
	}

	checker.New(doc).Check()
	doc.Sink.Sort()

	if jsonOutput {
		printJSON(doc)
	} else {
		printHuman(doc)
	}

	if doc.HasErrors() {
		os.Exit(1)
	}
}

// buildFixture dispatches to one of the embedded model builders.
func buildFixture(name string) (*document.Document, error) {
	switch name {
	case "light-controller":
		return buildLightController(), nil
	default:
		return nil, fmt.Errorf("unknown fixture %q", name)
	}
}

// buildLightController builds a two-process light-switch model: a Light
// template that receives the broadcast press channel to move between off,
// dim, and bright, guarded by a clock that forbids a double-tap within one
// time unit, plus a User template that sends press on a loop and never
// waits longer than five time units between presses.
func buildLightController() *document.Document {
	doc := document.New()
	b := builder.New(doc, builder.DefaultOptions())

	pressChan := types.New(types.Channel).Prefix(types.QualBroadcast)
	if _, err := b.AddVariable("press", pressChan, nil, sp()); err != nil {
		panic(err)
	}

	lightParams := symbols.NewFrame(doc.Globals.Frame)
	light := b.BeginTemplate("Light", lightParams, sp(), true)

	if _, err := b.AddVariable("y", types.New(types.Clock), nil, sp()); err != nil {
		panic(err)
	}

	off, err := b.AddLocation("Off", nil, nil, sp())
	if err != nil {
		panic(err)
	}

	_, err = b.AddLocation("Dim", nil, nil, sp())
	if err != nil {
		panic(err)
	}

	_, err = b.AddLocation("Bright", nil, nil, sp())
	if err != nil {
		panic(err)
	}

	if err := b.SetInit(off); err != nil {
		panic(err)
	}

	offToDim, err := b.AddEdge("Off", "Dim", false, "press", sp())
	if err != nil {
		panic(err)
	}

	b.AddSync(offToDim, expr.NewSync(expr.NewIdentifier("press", sp()), "?", sp()))
	b.AddAssign(offToDim, expr.NewBinary("=", expr.NewIdentifier("y", sp()), expr.NewConstInt(0, sp()), sp()))

	dimToBright, err := b.AddEdge("Dim", "Bright", false, "press", sp())
	if err != nil {
		panic(err)
	}

	b.AddGuard(dimToBright, expr.NewBinary(">=", expr.NewIdentifier("y", sp()), expr.NewConstInt(1, sp()), sp()))
	b.AddSync(dimToBright, expr.NewSync(expr.NewIdentifier("press", sp()), "?", sp()))

	brightToOff, err := b.AddEdge("Bright", "Off", false, "press", sp())
	if err != nil {
		panic(err)
	}

	b.AddSync(brightToOff, expr.NewSync(expr.NewIdentifier("press", sp()), "?", sp()))

	b.EndTemplate()

	userParams := symbols.NewFrame(doc.Globals.Frame)
	user := b.BeginTemplate("User", userParams, sp(), true)

	if _, err := b.AddVariable("x", types.New(types.Clock), nil, sp()); err != nil {
		panic(err)
	}

	waiting, err := b.AddLocation("Waiting", expr.NewBinary("<=", expr.NewIdentifier("x", sp()), expr.NewConstInt(5, sp()), sp()), nil, sp())
	if err != nil {
		panic(err)
	}

	if err := b.SetInit(waiting); err != nil {
		panic(err)
	}

	press, err := b.AddEdge("Waiting", "Waiting", true, "press", sp())
	if err != nil {
		panic(err)
	}

	b.AddGuard(press, expr.NewBinary(">", expr.NewIdentifier("x", sp()), expr.NewConstInt(1, sp()), sp()))
	b.AddSync(press, expr.NewSync(expr.NewIdentifier("press", sp()), "!", sp()))
	b.AddAssign(press, expr.NewBinary("=", expr.NewIdentifier("x", sp()), expr.NewConstInt(0, sp()), sp()))

	b.EndTemplate()

	lightInst, err := instantiate.New(doc, light, "light", nil, instantiate.Context{}, sp())
	if err != nil {
		panic(err)
	}

	b.AddProcess(lightInst)

	userInst, err := instantiate.New(doc, user, "user", nil, instantiate.Context{}, sp())
	if err != nil {
		panic(err)
	}

	b.AddProcess(userInst)

	b.AddQuery(document.Query{Formula: "A[] not deadlock", Comment: "the model never deadlocks"})

	return doc
}

func sp() position.Span { return position.Span{} }

func printHuman(doc *document.Document) {
	for _, d := range doc.Sink.All() {
		fmt.Println(d.String())
	}

	if !doc.HasErrors() {
		fmt.Printf("ok: %d process(es), %d quer(y/ies)\n", len(doc.Processes), len(doc.Queries))
		fmt.Printf("flags: urgent=%t strict-invariants=%t stopwatch=%t strict-lower-bound=%t recv-broadcast-guard=%t\n",
			doc.HasUrgentTransition(), doc.HasStrictInvariants(), doc.HasStopWatch(),
			doc.HasStrictLowerBoundOnControllableEdges(), doc.HasClockGuardRecvBroadcast())
	}
}

type jsonDiagnostic struct {
	Position string `json:"position"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Context  string `json:"context,omitempty"`
}

type jsonReport struct {
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
	Processes   int              `json:"processes"`
	Queries     int              `json:"queries"`
	Flags       jsonFlags        `json:"flags"`
	OK          bool             `json:"ok"`
}

type jsonFlags struct {
	Urgent               bool `json:"urgent"`
	StrictInvariants     bool `json:"strict_invariants"`
	Stopwatch            bool `json:"stopwatch"`
	StrictLowerBound     bool `json:"strict_lower_bound_on_controllable_edges"`
	RecvBroadcastGuarded bool `json:"guard_on_recv_broadcast"`
}

func printJSON(doc *document.Document) {
	diags := make([]jsonDiagnostic, 0, len(doc.Sink.All()))
	for _, d := range doc.Sink.All() {
		diags = append(diags, jsonDiagnostic{
			Position: d.Pos.String(),
			Severity: severityName(d.Severity),
			Message:  d.Message(),
			Context:  d.Context,
		})
	}

	report := jsonReport{
		Diagnostics: diags,
		Processes:   len(doc.Processes),
		Queries:     len(doc.Queries),
		OK:          !doc.HasErrors(),
		Flags: jsonFlags{
			Urgent:               doc.HasUrgentTransition(),
			StrictInvariants:     doc.HasStrictInvariants(),
			Stopwatch:            doc.HasStopWatch(),
			StrictLowerBound:     doc.HasStrictLowerBoundOnControllableEdges(),
			RecvBroadcastGuarded: doc.HasClockGuardRecvBroadcast(),
		},
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(report)
}

func severityName(s diagnostic.Severity) string { return s.String() }
