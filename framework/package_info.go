// Package framework contains the low-level implementation of the phase runner infrastructure,
// independent of the quiz platform being tested.
//
// The general model is:
//
// 1. A run is a tree of contexts. The root context has no name; each phase is a named child
// created with Context.Run. Children run strictly in the order they are started.
//
// 2. A context is similar to Go's *testing.T: it accumulates assertion failures (Errorf),
// can stop early (FailNow), or can declare that it had nothing to do (SkipWithReason). A
// panic inside a child is recovered and recorded as a failure of that child only, so one
// broken phase never stops the rest of the run.
//
// 3. Each context captures its own debug output, which the TestLogger can choose to print
// depending on whether the phase failed.
//
// The domain-specific code that knows what is being tested (the quiztests package) builds
// its phase API on top of Context.
package framework
