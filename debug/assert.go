//go:build debug

package debug

// Enabled mirrors the build tag. Wrap any check that does work of its own
// in `if debug.Enabled { ... }` so release builds can drop it completely.
const Enabled = true

func Assert(cond bool, message string) {
	if !cond {
		panic(message)
	}
}

func AssertErrNil(err error) {
	if err != nil {
		panic(err)
	}
}
