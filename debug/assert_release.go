//go:build !debug

// Package debug holds invariant checks that compile away unless the debug
// build tag is set. The sync and DMA interrupt paths cannot afford checks in
// a release build, but the bugs that hide there are far easier to corner
// with the invariants spelled out.
package debug

// Enabled mirrors the build tag. Wrap any check that does work of its own
// in `if debug.Enabled { ... }` so release builds can drop it completely.
const Enabled = false

// Assert panics with message if cond is false. No-op without the debug tag.
func Assert(cond bool, message string) {}

// AssertErrNil panics on a non-nil err. No-op without the debug tag.
func AssertErrNil(err error) {}
